package streaming

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/emptyOVO/crimecount/mrapps"
)

const input = "LCR,LCR DESC,INC DATETIME,BEAT,INC NO,LOCATION\r\n" +
	"119,FRAUD/ALL OTHER,04/15/2014 06:32:00 PM,433,P14049504,\"(35.75334263487902, -78.5533945258969)\"\r\n" +
	"\r\n" +
	"119,FRAUD/ALL OTHER,04/15/2014 07:00:00 PM,433,P14049505\r\n" +
	"269,\"ALL OTHER/ALL OTHER OFFENSES (COMM.THREATS, ETC.)\",04/15/2014 12:58:00 PM,431,P14049404,\"(35.747619351764705, -78.6196101713265)\"\n"

func TestRunMapper(t *testing.T) {
	var out, report bytes.Buffer
	if err := RunMapper(mrapps.CategoryCount, strings.NewReader(input), &out, NewReporter(&report)); err != nil {
		t.Fatal(err)
	}
	want := "FRAUD/ALL OTHER\t1\n" +
		"ALL OTHER/ALL OTHER OFFENSES (COMM.THREATS, ETC.)\t1\n"
	if out.String() != want {
		t.Fatalf("got %q", out.String())
	}
	wantReport := "reporter:counter:crimecount,mapped,2\n" +
		"reporter:counter:crimecount,field_count,1\n" +
		"reporter:counter:crimecount,no_key,1\n"
	if report.String() != wantReport {
		t.Fatalf("report = %q", report.String())
	}
}

func TestRunReducerKeepsLastGroup(t *testing.T) {
	in := "A\t1\nA\t1\nB\t1\nC\t2\nC\t1\n"
	var out bytes.Buffer
	if err := RunReducer(mrapps.CategoryCount, strings.NewReader(in), &out); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "A\t2\nB\t1\nC\t3\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRunReducerEmptyKeyAndTabs(t *testing.T) {
	in := "\t1\n\t1\na\tb\t1\n"
	var out bytes.Buffer
	if err := RunReducer(mrapps.CategoryCount, strings.NewReader(in), &out); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "\t2\na\tb\t1\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRunReducerBadCount(t *testing.T) {
	var out bytes.Buffer
	err := RunReducer(mrapps.CategoryCount, strings.NewReader("A\t1\nA\tx\n"), &out)
	if !errors.Is(err, mrapps.ErrBadCount) {
		t.Fatalf("got %v, want ErrBadCount", err)
	}
}

func TestMapperThenReducer(t *testing.T) {
	var mapped, reduced bytes.Buffer
	if err := RunMapper(mrapps.LocationCount, strings.NewReader(input+input), &mapped, nil); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(mapped.String(), "\n"), "\n")
	sort.Strings(lines)
	if err := RunReducer(mrapps.LocationCount, strings.NewReader(strings.Join(lines, "\n")+"\n"), &reduced); err != nil {
		t.Fatal(err)
	}
	want := "35.7476, -78.6196\t2\n35.7533, -78.5533\t2\n"
	if reduced.String() != want {
		t.Fatalf("got %q", reduced.String())
	}
}

func TestStatusf(t *testing.T) {
	var report bytes.Buffer
	NewReporter(&report).Statusf("mapped %d\nlines", 3)
	if got := report.String(); got != "reporter:status:mapped 3 lines\n" {
		t.Fatalf("got %q", got)
	}
}

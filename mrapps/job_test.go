package mrapps

import (
	"errors"
	"sort"
	"strconv"
	"testing"

	"github.com/emptyOVO/crimecount/worker"
)

const sample = "LCR,LCR DESC,INC DATETIME,BEAT,INC NO,LOCATION\r\n" +
	"750,MISC/FOUND PROPERTY,04/16/2014 02:37:00 AM,211,P14049666,\"(35.81972932157367, -78.62496454367128)\"\r\n" +
	"269,\"ALL OTHER/ALL OTHER OFFENSES (COMM.THREATS, ETC.)\",04/15/2014 12:58:00 PM,431,P14049404,\"(35.747619351764705, -78.6196101713265)\"\r\n" +
	"119,FRAUD/ALL OTHER,04/15/2014 06:32:00 PM,433,P14049504,\"(35.75334263487902, -78.5533945258969)\"\r\n" +
	"119,FRAUD/ALL OTHER,04/15/2014 07:00:00 PM,433,P14049505,\"(35.75334999999999, -78.5533999999999)\"\r\n" +
	"119,FRAUD/ALL OTHER,04/15/2014 07:00:00 PM,433,P14049505\r\n" +
	"\r\n" +
	"119,FRAUD/ALL OTHER,04/15/2014 07:00:00 PM,433,P14049505,,extra\n"

func TestMapLineFieldCount(t *testing.T) {
	for _, line := range []string{
		"a,b,c,d,e",
		"a,b,c,d,e,f,g",
	} {
		for _, job := range []Job{CategoryCount, LocationCount} {
			if kv, reason := job.MapLine(line); reason != SkipFieldCount {
				t.Errorf("%s.MapLine(%q) = %v, %q; want field_count skip", job.Name, line, kv, reason)
			}
		}
	}
}

func TestMapLineEmitsUnit(t *testing.T) {
	kv, reason := CategoryCount.MapLine(`119,FRAUD/ALL OTHER,04/15/2014 06:32:00 PM,433,P14049504,"(35.75334263487902, -78.5533945258969)"`)
	if reason != Counted {
		t.Fatalf("unexpected skip %q", reason)
	}
	if kv != (worker.KV{Key: "FRAUD/ALL OTHER", Value: "1"}) {
		t.Fatalf("got %v", kv)
	}
}

func collect(job Job, contents string) map[string]int {
	c := &worker.Collector{}
	job.Map("sample.csv", contents, c)
	counts := map[string]int{}
	for _, kv := range c.KVs {
		n, _ := strconv.Atoi(kv.Value)
		counts[kv.Key] += n
	}
	return counts
}

func TestCategoryMap(t *testing.T) {
	got := collect(CategoryCount, sample)
	want := map[string]int{
		"MISC/FOUND PROPERTY": 1,
		"ALL OTHER/ALL OTHER OFFENSES (COMM.THREATS, ETC.)": 1,
		"FRAUD/ALL OTHER": 2,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%q = %d, want %d", k, got[k], v)
		}
	}
}

func TestLocationMap(t *testing.T) {
	got := collect(LocationCount, sample)
	want := map[string]int{
		"35.8197, -78.6249": 1,
		"35.7476, -78.6196": 1,
		"35.7533, -78.5533": 2,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%q = %d, want %d", k, got[k], v)
		}
	}
}

func TestReduce(t *testing.T) {
	c := &worker.Collector{}
	if err := CategoryCount.Reduce("FRAUD/ALL OTHER", []string{"1", "1", "3"}, c); err != nil {
		t.Fatal(err)
	}
	if len(c.KVs) != 1 || c.KVs[0] != (worker.KV{Key: "FRAUD/ALL OTHER", Value: "5"}) {
		t.Fatalf("got %v", c.KVs)
	}

	c = &worker.Collector{}
	err := CategoryCount.Reduce("FRAUD/ALL OTHER", []string{"1", "x"}, c)
	if !errors.Is(err, ErrBadCount) {
		t.Fatalf("expected ErrBadCount, got %v", err)
	}
	if len(c.KVs) != 0 {
		t.Fatalf("failed reduce emitted %v", c.KVs)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"category", "Category", " LOCATION ", "loca_tion"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q): %v", name, err)
		}
	}
	if _, err := Lookup("topn"); err == nil {
		t.Fatal("expected unknown job to fail")
	}
	names := Names()
	if !sort.StringsAreSorted(names) || len(names) != 2 {
		t.Fatalf("unexpected names %v", names)
	}
}

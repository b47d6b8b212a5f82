package crimecount

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

const crimes = `LCR,LCR DESC,INC DATETIME,BEAT,INC NO,LOCATION
750,MISC/FOUND PROPERTY,04/16/2014 02:37:00 AM,211,P14049666,"(35.81972932157367, -78.62496454367128)"
269,"ALL OTHER/ALL OTHER OFFENSES (COMM.THREATS, ETC.)",04/15/2014 12:58:00 PM,431,P14049404,"(35.747619351764705, -78.6196101713265)"
119,FRAUD/ALL OTHER,04/15/2014 06:32:00 PM,433,P14049504,"(35.75334263487902, -78.5533945258969)"
119,FRAUD/ALL OTHER,04/15/2014 07:00:00 PM,433,P14049505,"(35.75334999999999, -78.5533999999999)"
119,FRAUD/ALL OTHER,04/15/2014 07:00:00 PM,433,P14049505
`

func readCounts(t *testing.T, files []string) map[string]int {
	t.Helper()
	counts := map[string]int{}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			t.Fatal(err)
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			i := strings.LastIndexByte(sc.Text(), '\t')
			if i < 0 {
				t.Fatalf("bad output line %q", sc.Text())
			}
			n, err := strconv.Atoi(sc.Text()[i+1:])
			if err != nil {
				t.Fatal(err)
			}
			counts[sc.Text()[:i]] += n
		}
		f.Close()
	}
	return counts
}

func runLocal(t *testing.T, job string, combine bool) map[string]int {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "crimes.csv")
	if err := os.WriteFile(input, []byte(crimes+crimes), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	outputs, err := StartSingleMachineJob(ctx, JobConfig{
		Files:     []string{input},
		Job:       job,
		NReduce:   3,
		NWorker:   2,
		Combine:   combine,
		ChunkSize: 200,
		IMDDir:    filepath.Join(dir, "imd"),
		OutputDir: filepath.Join(dir, "out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 3 {
		t.Fatalf("got %d outputs, want 3", len(outputs))
	}
	return readCounts(t, outputs)
}

func TestSingleMachineCategory(t *testing.T) {
	for _, combine := range []bool{false, true} {
		got := runLocal(t, "category", combine)
		want := map[string]int{
			"MISC/FOUND PROPERTY": 2,
			"ALL OTHER/ALL OTHER OFFENSES (COMM.THREATS, ETC.)": 2,
			"FRAUD/ALL OTHER": 4,
		}
		if len(got) != len(want) {
			t.Fatalf("combine=%v: got %v, want %v", combine, got, want)
		}
		for k, v := range want {
			if got[k] != v {
				t.Errorf("combine=%v: %q = %d, want %d", combine, k, got[k], v)
			}
		}
	}
}

func TestSingleMachineLocation(t *testing.T) {
	got := runLocal(t, "location", true)
	want := map[string]int{
		"35.8197, -78.6249": 2,
		"35.7476, -78.6196": 2,
		"35.7533, -78.5533": 4,
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

func TestSingleMachineRejectsUnknownJob(t *testing.T) {
	_, err := StartSingleMachineJob(context.Background(), JobConfig{Files: []string{"x.csv"}, Job: "topn"})
	if err == nil {
		t.Fatal("expected unknown job to fail")
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.csv", "a.csv", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := ExpandInputs([]string{filepath.Join(dir, "*.csv"), filepath.Join(dir, "a.csv")})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.csv" || filepath.Base(files[1]) != "b.csv" {
		t.Fatalf("got %v", files)
	}
	if _, err := ExpandInputs([]string{filepath.Join(dir, "*.json")}); err == nil {
		t.Fatal("expected empty glob to fail")
	}
}

func TestSetLogLevel(t *testing.T) {
	if err := SetLogLevel("verbose"); err == nil {
		t.Fatal("expected bad level to fail")
	}
	if err := SetLogLevel("info"); err != nil {
		t.Fatal(err)
	}
}

package batch

import (
	"path/filepath"
	"testing"
)

func TestReadReduceOutputs(t *testing.T) {
	dir := t.TempDir()
	a := writeTemp(t, dir, "mr-out-0.txt", "FRAUD/ALL OTHER\t3\n35.7533, -78.5533\t2\n")
	b := writeTemp(t, dir, "mr-out-1.txt", "\nFRAUD/ALL OTHER\t1\nkey\twith tab\t4\n")
	counts, err := ReadReduceOutputs([]string{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if counts["FRAUD/ALL OTHER"] != 4 || counts["35.7533, -78.5533"] != 2 || counts["key\twith tab"] != 4 {
		t.Fatalf("got %v", counts)
	}

	bad := writeTemp(t, dir, "bad.txt", "no tab here\n")
	if _, err := ReadReduceOutputs([]string{bad}); err == nil {
		t.Fatal("expected a line without tab to fail")
	}
	if _, err := ReadReduceOutputs([]string{filepath.Join(dir, "missing.txt")}); err == nil {
		t.Fatal("expected missing file to fail")
	}
}

func TestTopCounts(t *testing.T) {
	counts := map[string]int64{"b": 2, "a": 2, "c": 5, "d": 1}
	got := TopCounts(counts, 3)
	want := []KeyCount{{"c", 5}, {"a", 2}, {"b", 2}}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if all := TopCounts(counts, 0); len(all) != 4 {
		t.Fatalf("n=0 kept %d", len(all))
	}
}

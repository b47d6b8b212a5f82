package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const crimes = `LCR,LCR DESC,INC DATETIME,BEAT,INC NO,LOCATION
750,MISC/FOUND PROPERTY,04/16/2014 02:37:00 AM,211,P14049666,"(35.81972932157367, -78.62496454367128)"
119,FRAUD/ALL OTHER,04/15/2014 06:32:00 PM,433,P14049504,"(35.75334263487902, -78.5533945258969)"
119,FRAUD/ALL OTHER,04/15/2014 07:00:00 PM,433,P14049505,"(35.75334999999999, -78.5533999999999)"
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMapperAndReducerCommands(t *testing.T) {
	mapped, err := execute(t, crimes, "mapper", "--job", "category")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(mapped, "\n") != 3 {
		t.Fatalf("mapper output %q", mapped)
	}
	reduced, err := execute(t, "FRAUD/ALL OTHER\t1\nFRAUD/ALL OTHER\t1\nMISC/FOUND PROPERTY\t1\n", "reducer")
	if err != nil {
		t.Fatal(err)
	}
	if reduced != "FRAUD/ALL OTHER\t2\nMISC/FOUND PROPERTY\t1\n" {
		t.Fatalf("reducer output %q", reduced)
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "crimes.csv")
	if err := os.WriteFile(input, []byte(crimes), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "run",
		"--input", input,
		"--job", "location",
		"--reduce", "2",
		"--worker", "2",
		"--inRAM=false",
		"--imd-dir", filepath.Join(dir, "imd"),
		"--output", filepath.Join(dir, "out"),
		"--top", "1",
	)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "35.7533, -78.5533\t2\n") {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.HasSuffix(out, "Exit Code = Success\n") {
		t.Fatalf("missing status line in %q", out)
	}
}

func TestRunCommandFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "crimes.csv")
	if err := os.WriteFile(input, []byte(crimes), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "", "run", "--input", input, "--job", "topn"); err == nil {
		t.Fatal("expected unknown job to fail")
	}
	if _, err := execute(t, "", "run", "--check"); err == nil {
		t.Fatal("expected --check without --config to fail")
	}
}

func TestRunCommandCheckConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.yaml")
	content := "version: v1\nsource:\n  files: [\"crimes.csv\"]\ntransform:\n  job: category\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "run", "--config", path, "--check")
	if err != nil {
		t.Fatal(err)
	}
	if out != "config check pass\n" {
		t.Fatalf("got %q", out)
	}
}

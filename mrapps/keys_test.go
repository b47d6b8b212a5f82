package mrapps

import (
	"testing"

	"github.com/emptyOVO/crimecount/record"
)

func mustParse(t *testing.T, line string) record.Record {
	t.Helper()
	rec, ok := record.Parse(line)
	if !ok {
		t.Fatalf("Parse(%q) failed", line)
	}
	return rec
}

func TestCategoryKeyHeader(t *testing.T) {
	rec := mustParse(t, "LCR,LCR DESC,INC DATETIME,BEAT,INC NO,LOCATION")
	if key, ok := CategoryKey(rec); ok {
		t.Fatalf("header produced key %q", key)
	}
}

func TestCategoryKey(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`119,FRAUD/ALL OTHER,04/15/2014 06:32:00 PM,433,P14049504,"(35.75334263487902, -78.5533945258969)"`, "FRAUD/ALL OTHER"},
		{`269,"ALL OTHER/ALL OTHER OFFENSES (COMM.THREATS, ETC.)",04/15/2014 10:33:00 AM,424,P14049395,"(35.775769267765874, -78.61143830117872)"`, "ALL OTHER/ALL OTHER OFFENSES (COMM.THREATS, ETC.)"},
		{`1, PADDED ,d,b,n,l`, " PADDED "},
		{`1,"LCR DESC ",d,b,n,l`, "LCR DESC "},
	}
	for _, tt := range tests {
		key, ok := CategoryKey(mustParse(t, tt.line))
		if !ok || key != tt.want {
			t.Errorf("CategoryKey(%q) = %q, %v; want %q", tt.line, key, ok, tt.want)
		}
	}
}

func TestLocationKeyFourDecimalPoints(t *testing.T) {
	rec := mustParse(t, `1,X,d,b,n,"(35.776238687249744, -78.6246378053371)"`)
	key, ok := LocationKey(rec)
	if !ok {
		t.Fatal("expected a key")
	}
	if key != "35.7762, -78.6246" {
		t.Fatalf("got %q", key)
	}
}

func TestLocationKeyTruncatesNotRounds(t *testing.T) {
	rec := mustParse(t, `1,X,d,b,n,"(35.99999, -78.99999)"`)
	key, ok := LocationKey(rec)
	if !ok || key != "35.9999, -78.9999" {
		t.Fatalf("got %q, %v", key, ok)
	}
}

func TestLocationKeyMeasuresBeforeTrimming(t *testing.T) {
	// Without the space after the comma the longitude keeps one digit less.
	rec := mustParse(t, `1,X,d,b,n,"(35.776238,-78.624637)"`)
	key, ok := LocationKey(rec)
	if !ok || key != "35.7762, -78.624" {
		t.Fatalf("got %q, %v", key, ok)
	}
}

func TestLocationKeySkips(t *testing.T) {
	lines := []string{
		"LCR,LCR DESC,INC DATETIME,BEAT,INC NO,LOCATION",
		`1,X,d,b,n,`,
		`1,X,d,b,n,"()"`,
		`1,X,d,b,n,"(35, -78)"`,
		`1,X,d,b,n,"(35.7762, -78)"`,
		`1,X,d,b,n,(35.776238687249744 -78.6246378053371)`,
		`1,X,d,b,n,"(35.77, -78.6246378053371)"`,
		`1,X,d,b,n,"(35.776238687249744, -78.62)"`,
	}
	for _, line := range lines {
		if key, ok := LocationKey(mustParse(t, line)); ok {
			t.Errorf("LocationKey(%q) = %q, want skip", line, key)
		}
	}
}

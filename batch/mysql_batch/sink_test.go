package mysql_batch

import "testing"

func TestQuoteIdentifier(t *testing.T) {
	if q, err := quoteIdentifier("crime_counts"); err != nil || q != "`crime_counts`" {
		t.Fatalf("got %q, %v", q, err)
	}
	for _, bad := range []string{"", "1abc", "a-b", "a;drop table x", "a`b"} {
		if _, err := quoteIdentifier(bad); err == nil {
			t.Errorf("quoteIdentifier(%q) accepted", bad)
		}
	}
}

func TestSinkConfigDefaults(t *testing.T) {
	var cfg SinkConfig
	cfg.WithDefaults()
	if cfg.KeyColumn != "crime_key" || cfg.ValColumn != "crime_count" || cfg.BatchSize != 2000 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestStageInsertSQL(t *testing.T) {
	got := stageInsertSQL("`s`", "`k`", "`v`", 3)
	want := "INSERT INTO `s` (`k`, `v`) VALUES (?, ?),(?, ?),(?, ?)"
	if got != want {
		t.Fatalf("got %q", got)
	}
}

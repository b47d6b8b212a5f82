package worker

import (
	"reflect"
	"strings"
	"testing"
)

func TestIMDCodecKeepsAwkwardKeys(t *testing.T) {
	kvs := []KV{
		{Key: "ALL OTHER/ALL OTHER OFFENSES (COMM.THREATS, ETC.)", Value: "1"},
		{Key: " LEADING SPACE", Value: "2"},
		{Key: "tab\tinside", Value: "3"},
		{Key: "", Value: "4"},
	}
	got := decodeIMDKVs(encodeIMDKVs(kvs))
	if !reflect.DeepEqual(got, kvs) {
		t.Fatalf("got %q, want %q", got, kvs)
	}
}

func TestDecodeIMDKVsSkipsJunk(t *testing.T) {
	got := decodeIMDKVs("no tab here\n\nkey\t1\n")
	want := []KV{{Key: "key", Value: "1"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if decodeIMDKVs("") != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestGroupByKey(t *testing.T) {
	kvs := []KV{{"b", "1"}, {"a", "1"}, {"b", "2"}, {"c", "5"}, {"a", "3"}}
	var got []string
	err := groupByKey(kvs, func(key string, values []string) error {
		got = append(got, key+"="+strings.Join(values, "+"))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0][:2] != "a=" || got[1][:2] != "b=" || got[2] != "c=5" {
		t.Fatalf("unexpected groups %q", got)
	}
}

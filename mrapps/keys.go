// Package mrapps holds the crime counting jobs: key extraction, the per-line
// mapper and the summing reducer.
package mrapps

import (
	"strings"

	"github.com/emptyOVO/crimecount/record"
)

// KeyFunc derives the aggregation key of a record, or reports false to skip it.
type KeyFunc func(rec record.Record) (string, bool)

// CategoryKey keys a record by its crime description. The header row is
// skipped.
func CategoryKey(rec record.Record) (string, bool) {
	desc := rec.Field(record.LCRDesc)
	if desc == record.HeaderDesc {
		return "", false
	}
	return desc, true
}

// LocationKey keys a record by its truncated coordinates, e.g.
// "(35.776238687249744, -78.6246378053371)" becomes "35.7762, -78.6246".
//
// The latitude keeps everything up to 5 bytes past its decimal point and the
// longitude up to 4, both measured before trimming spaces from the half.
// With the usual "lat, lon" layout the longitude half starts with a space, so
// both end up with 4 fractional digits.
func LocationKey(rec record.Record) (string, bool) {
	loc := rec.Field(record.Location)
	loc = strings.TrimPrefix(loc, "(")
	loc = strings.TrimSuffix(loc, ")")

	latHalf, lonHalf, ok := strings.Cut(loc, ",")
	if !ok {
		return "", false
	}
	lat, ok := truncateCoordinate(latHalf, 5)
	if !ok {
		return "", false
	}
	lon, ok := truncateCoordinate(lonHalf, 4)
	if !ok {
		return "", false
	}
	return lat + ", " + lon, true
}

func truncateCoordinate(half string, keep int) (string, bool) {
	dot := strings.IndexByte(half, '.')
	if dot < 0 {
		return "", false
	}
	trimmed := strings.Trim(half, " ")
	n := dot + keep
	if n > len(trimmed) {
		return "", false
	}
	return trimmed[:n], true
}

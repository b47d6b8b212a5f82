// Package record tokenizes the incident corpus.
//
// Each line of the corpus is one incident:
//
//	LCR,LCR DESC,INC DATETIME,BEAT,INC NO,LOCATION
//	119,FRAUD/ALL OTHER,04/15/2014 06:32:00 PM,433,P14049504,"(35.75334263487902, -78.5533945258969)"
//
// Values containing commas are wrapped in double quotes.
package record

// Field positions of a well-formed record.
const (
	LCR = iota
	LCRDesc
	IncDatetime
	Beat
	IncNo
	Location

	NumFields
)

// HeaderDesc is the LCR DESC value of the header row.
const HeaderDesc = "LCR DESC"

// Record is one tokenized incident line.
type Record struct {
	fields []string
}

// Parse tokenizes line. It reports false when the line does not have exactly
// NumFields fields; such lines are skipped as a whole.
func Parse(line string) (Record, bool) {
	fields := Split(line)
	if len(fields) != NumFields {
		return Record{}, false
	}
	return Record{fields: fields}, true
}

// Raw returns field i as it appeared on the line.
func (r Record) Raw(i int) string {
	if i < 0 || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// Field returns field i without its surrounding quotes.
func (r Record) Field(i int) string {
	return Unwrap(r.Raw(i))
}

// Values returns every field without surrounding quotes.
func (r Record) Values() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = Unwrap(f)
	}
	return out
}

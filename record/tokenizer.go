package record

import "strings"

type scanState int

const (
	insideQuotes scanState = iota
	outsideQuotes
)

// Split breaks one line into its raw comma separated fields.
//
// A field that opens with a double quote runs until its closing quote, so it
// may hold commas and "" pairs. Anything between the closing quote and the
// next comma is dropped. Other fields are plain runs of non-comma bytes and
// may be empty. The returned fields still carry their quotes, see Unwrap.
//
// Split keeps no state between calls and is safe for concurrent use.
func Split(line string) []string {
	fields := make([]string, 0, NumFields)
	start := 0
	for {
		end, next := scanField(line, start)
		fields = append(fields, line[start:end])
		if next < 0 {
			return fields
		}
		start = next
	}
}

// scanField returns the end of the field beginning at start and the start of
// the field after it, or -1 when the line is exhausted.
func scanField(line string, start int) (end int, next int) {
	if start < len(line) && line[start] == '"' {
		if closeAt := closingQuote(line, start); closeAt >= 0 {
			end = closeAt + 1
			if i := strings.IndexByte(line[end:], ','); i >= 0 {
				return end, end + i + 1
			}
			return end, -1
		}
	}
	if i := strings.IndexByte(line[start:], ','); i >= 0 {
		return start + i, start + i + 1
	}
	return len(line), -1
}

// closingQuote finds the quote closing the group opened at open. A quote
// followed by another quote is content, so the scanner only leaves the quoted
// state for good on a lone quote. When the line ends inside the group the
// first quote of the last "" pair closes it; with no pair there is no quoted
// group at all and -1 is returned.
func closingQuote(line string, open int) int {
	state := insideQuotes
	lastPair := -1
	for i := open + 1; i < len(line); i++ {
		switch state {
		case insideQuotes:
			if line[i] == '"' {
				state = outsideQuotes
			}
		case outsideQuotes:
			if line[i] != '"' {
				return i - 1
			}
			lastPair = i - 1
			state = insideQuotes
		}
	}
	if state == outsideQuotes {
		return len(line) - 1
	}
	return lastPair
}

// Unwrap strips one layer of surrounding double quotes. Quotes inside the
// value, doubled or not, are kept as they are.
func Unwrap(field string) string {
	if len(field) >= 2 && field[0] == '"' && field[len(field)-1] == '"' {
		return field[1 : len(field)-1]
	}
	return field
}

// Join is the inverse of Split followed by Unwrap for values that hold no
// quotes: values containing a comma are quoted, everything else is written
// as is.
func Join(values []string) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		if strings.IndexByte(v, ',') >= 0 {
			b.WriteByte('"')
			b.WriteString(v)
			b.WriteByte('"')
			continue
		}
		b.WriteString(v)
	}
	return b.String()
}

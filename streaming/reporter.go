package streaming

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Reporter sends status and counter updates to the Hadoop framework, which
// reads them from the task's stderr.
type Reporter struct {
	w io.Writer
}

func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stderr
	}
	return &Reporter{w: w}
}

// Statusf updates the job status. Newlines would end the report early, so
// they are replaced by spaces.
func (r *Reporter) Statusf(format string, a ...interface{}) {
	s := strings.ReplaceAll(fmt.Sprintf(format, a...), "\n", " ")
	fmt.Fprintf(r.w, "reporter:status:%s\n", s)
}

// IncrCounter adds amount to group/counter.
func (r *Reporter) IncrCounter(group, counter string, amount int64) {
	if amount == 0 {
		return
	}
	fmt.Fprintf(r.w, "reporter:counter:%s,%s,%d\n", group, counter, amount)
}

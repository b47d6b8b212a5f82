// Package streaming runs the crime counting jobs as Hadoop streaming
// executables: lines on stdin, tab separated pairs on stdout.
package streaming

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/emptyOVO/crimecount/mrapps"
	log "github.com/sirupsen/logrus"
)

// CounterGroup is the Hadoop counter group the mapper reports under.
const CounterGroup = "crimecount"

const maxLine = 1 << 20

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return sc
}

// RunMapper maps every input line and writes one "key\tvalue" line per
// counted record. Skipped lines are reported as counters.
func RunMapper(job mrapps.Job, r io.Reader, w io.Writer, rep *Reporter) error {
	bw := bufio.NewWriter(w)
	counts := map[mrapps.SkipReason]int64{}
	sc := newScanner(r)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		kv, reason := job.MapLine(line)
		counts[reason]++
		if reason != mrapps.Counted {
			continue
		}
		bw.WriteString(kv.Key)
		bw.WriteByte('\t')
		bw.WriteString(kv.Value)
		bw.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read mapper input: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if rep != nil {
		rep.IncrCounter(CounterGroup, "mapped", counts[mrapps.Counted])
		rep.IncrCounter(CounterGroup, string(mrapps.SkipFieldCount), counts[mrapps.SkipFieldCount])
		rep.IncrCounter(CounterGroup, string(mrapps.SkipNoKey), counts[mrapps.SkipNoKey])
	}
	log.WithFields(log.Fields{
		"job":    job.Name,
		"mapped": counts[mrapps.Counted],
	}).Debug("[Mapper] done")
	return nil
}

// RunReducer reads key sorted "key\tvalue" lines and writes one total per
// key. The key ends at the last tab of a line.
func RunReducer(job mrapps.Job, r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	var (
		current string
		values  []string
		started bool
	)
	flush := func() error {
		if !started {
			return nil
		}
		kv, err := mrapps.Sum(current, values)
		if err != nil {
			return fmt.Errorf("reduce %q: %w", current, err)
		}
		bw.WriteString(kv.Key)
		bw.WriteByte('\t')
		bw.WriteString(kv.Value)
		bw.WriteByte('\n')
		return nil
	}

	sc := newScanner(r)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		i := strings.LastIndexByte(line, '\t')
		if i < 0 {
			return fmt.Errorf("reducer input without a tab: %q", line)
		}
		key, value := line[:i], line[i+1:]
		if started && key == current {
			values = append(values, value)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		current, values, started = key, []string{value}, true
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read reducer input: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}
	log.WithField("job", job.Name).Debug("[Reducer] done")
	return bw.Flush()
}

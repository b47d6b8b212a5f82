package mrapps

import (
	"strings"

	"github.com/emptyOVO/crimecount/metrics"
	"github.com/emptyOVO/crimecount/record"
	"github.com/emptyOVO/crimecount/worker"
	log "github.com/sirupsen/logrus"
)

// unit is the value emitted once per counted record.
const unit = "1"

// SkipReason tells why the mapper dropped a line. The empty reason means the
// line was counted.
type SkipReason string

const (
	Counted        SkipReason = ""
	SkipFieldCount SkipReason = "field_count"
	SkipNoKey      SkipReason = "no_key"
)

// Job is one counting pipeline. The key function is picked once per run.
type Job struct {
	Name string
	Key  KeyFunc
}

var (
	CategoryCount = Job{Name: "category", Key: CategoryKey}
	LocationCount = Job{Name: "location", Key: LocationKey}
)

// MapLine turns one input line into at most one (key, "1") pair.
func (j Job) MapLine(line string) (worker.KV, SkipReason) {
	rec, ok := record.Parse(line)
	if !ok {
		return worker.KV{}, SkipFieldCount
	}
	key, ok := j.Key(rec)
	if !ok {
		return worker.KV{}, SkipNoKey
	}
	return worker.KV{Key: key, Value: unit}, Counted
}

// Map runs MapLine over every line of contents. Blank lines are ignored and
// malformed ones are dropped without failing the task.
func (j Job) Map(filename string, contents string, ctx worker.MrContext) {
	var mapped, badFields, noKey int
	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		kv, reason := j.MapLine(line)
		switch reason {
		case Counted:
			ctx.EmitIntermediate(kv.Key, kv.Value)
			mapped++
		case SkipFieldCount:
			badFields++
		case SkipNoKey:
			noKey++
		}
	}
	metrics.RecordsMapped.WithLabelValues(j.Name).Add(float64(mapped))
	metrics.RecordsSkipped.WithLabelValues(j.Name, string(SkipFieldCount)).Add(float64(badFields))
	metrics.RecordsSkipped.WithLabelValues(j.Name, string(SkipNoKey)).Add(float64(noKey))
	log.WithFields(log.Fields{
		"job":         j.Name,
		"file":        filename,
		"mapped":      mapped,
		"field_count": badFields,
		"no_key":      noKey,
	}).Trace("[Mapper] chunk done")
}

// Reduce emits the total of values for key.
func (j Job) Reduce(key string, values []string, ctx worker.MrContext) error {
	kv, err := Sum(key, values)
	if err != nil {
		return err
	}
	ctx.Emit(kv.Key, kv.Value)
	return nil
}

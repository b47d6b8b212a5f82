package worker

import "sync"

type KV struct {
	Key   string
	Value string
}

type byKey []KV

func (a byKey) Len() int           { return len(a) }
func (a byKey) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byKey) Less(i, j int) bool { return a[i].Key < a[j].Key }

// MrContext receives the pairs emitted by Map and Reduce functions.
type MrContext interface {
	EmitIntermediate(key, value string)
	Emit(key, value string)
}

type MapFormat func(string, string, MrContext)
type ReduceFormat func(string, []string, MrContext) error

// Resolver returns the Map and Reduce functions of a named job.
type Resolver func(job string) (MapFormat, ReduceFormat, error)

type chanContext struct {
	Chan chan KV
}

func newMrContext() chanContext {
	return chanContext{Chan: make(chan KV, 100)}
}

func (c chanContext) EmitIntermediate(key, value string) {
	c.Chan <- KV{Key: key, Value: value}
}

func (c chanContext) Emit(key, value string) {
	c.Chan <- KV{Key: key, Value: value}
}

// Collector keeps emitted pairs in memory.
type Collector struct {
	mu  sync.Mutex
	KVs []KV
}

func (c *Collector) EmitIntermediate(key, value string) {
	c.Emit(key, value)
}

func (c *Collector) Emit(key, value string) {
	c.mu.Lock()
	c.KVs = append(c.KVs, KV{Key: key, Value: value})
	c.mu.Unlock()
}

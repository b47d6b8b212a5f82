package worker

import (
	"sort"
	"strings"
)

func encodeIMDKVs(kvs []KV) string {
	if len(kvs) == 0 {
		return ""
	}
	var b strings.Builder
	// Rough pre-size to reduce reallocations for hot path.
	b.Grow(len(kvs) * 24)
	for i := range kvs {
		b.WriteString(kvs[i].Key)
		b.WriteByte('\t')
		b.WriteString(kvs[i].Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// decodeIMDKVs splits on the last tab of each line, so keys may hold tabs.
func decodeIMDKVs(raw string) []KV {
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	out := make([]KV, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		i := strings.LastIndexByte(line, '\t')
		if i < 0 {
			continue
		}
		out = append(out, KV{
			Key:   line[:i],
			Value: line[i+1:],
		})
	}
	return out
}

// groupByKey sorts kvs and calls fn once per distinct key with all its values.
func groupByKey(kvs []KV, fn func(key string, values []string) error) error {
	sort.Sort(byKey(kvs))
	i := 0
	for i < len(kvs) {
		j := i + 1
		for j < len(kvs) && kvs[j].Key == kvs[i].Key {
			j++
		}
		values := make([]string, 0, j-i)
		for k := i; k < j; k++ {
			values = append(values, kvs[k].Value)
		}
		if err := fn(kvs[i].Key, values); err != nil {
			return err
		}
		i = j
	}
	return nil
}

package batch

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// KeyCount is one line of a job result.
type KeyCount struct {
	Key   string
	Count int64
}

// ReadReduceOutputs merges "key\tcount" reduce output files into one map.
// The key ends at the last tab of a line.
func ReadReduceOutputs(files []string) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, file := range files {
		if err := readReduceOutput(file, counts); err != nil {
			return nil, err
		}
	}
	return counts, nil
}

func readReduceOutput(file string, counts map[string]int64) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		i := strings.LastIndexByte(line, '\t')
		if i < 0 {
			return fmt.Errorf("%s:%d: missing tab", file, lineNo)
		}
		n, err := strconv.ParseInt(line[i+1:], 10, 64)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", file, lineNo, err)
		}
		counts[line[:i]] += n
	}
	return scanner.Err()
}

// TopCounts orders counts by count descending then key ascending and keeps
// the first n. n <= 0 keeps everything.
func TopCounts(counts map[string]int64, n int) []KeyCount {
	out := make([]KeyCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, KeyCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

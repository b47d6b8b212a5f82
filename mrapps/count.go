package mrapps

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/emptyOVO/crimecount/worker"
)

// ErrBadCount is returned when a value reaching the reducer is not a decimal
// integer. Mappers only emit counts, so this means the map side is broken.
var ErrBadCount = errors.New("value is not a count")

// Sum adds up every count emitted for key. It serves as both combiner and
// reducer since addition does not care how values are grouped.
func Sum(key string, values []string) (worker.KV, error) {
	var total int64
	for _, s := range values {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return worker.KV{}, fmt.Errorf("key %q: %q: %w", key, s, ErrBadCount)
		}
		total += n
	}
	return worker.KV{Key: key, Value: strconv.FormatInt(total, 10)}, nil
}

package mrapps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emptyOVO/crimecount/worker"
)

var builtinJobs = map[string]Job{
	CategoryCount.Name: CategoryCount,
	LocationCount.Name: LocationCount,
}

func normalizeBuiltinName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "")
	n = strings.ReplaceAll(n, "_", "")
	return n
}

// Lookup returns the builtin job called name.
func Lookup(name string) (Job, error) {
	job, ok := builtinJobs[normalizeBuiltinName(name)]
	if !ok {
		return Job{}, fmt.Errorf("unsupported job: %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return job, nil
}

// Resolve adapts a builtin job to the worker function types.
func Resolve(name string) (worker.MapFormat, worker.ReduceFormat, error) {
	job, err := Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	return job.Map, job.Reduce, nil
}

// Names lists the builtin jobs.
func Names() []string {
	names := make([]string, 0, len(builtinJobs))
	for n := range builtinJobs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

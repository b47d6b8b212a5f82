package crimecount

import (
	"fmt"
	"net"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/emptyOVO/crimecount/mrapps"
	"github.com/emptyOVO/crimecount/worker"
	log "github.com/sirupsen/logrus"
)

// ExpandInputs expands every glob and returns the absolute, de-duplicated
// list of matching files.
func ExpandInputs(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	files := []string{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no input matches %q", p)
		}
		sort.Strings(matches)
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, err
			}
			if !seen[abs] {
				seen[abs] = true
				files = append(files, abs)
			}
		}
	}
	return files, nil
}

// SetLogLevel sets the logrus level by name, e.g. "info" or "trace".
func SetLogLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}

func resolverFor(job string, pluginPath string) (worker.Resolver, error) {
	if pluginPath != "" {
		pluginFile, err := filepath.Abs(pluginPath)
		if err != nil {
			return nil, err
		}
		return worker.PluginResolver(pluginFile)
	}
	if job != "" {
		if _, err := mrapps.Lookup(job); err != nil {
			return nil, err
		}
	}
	return mrapps.Resolve, nil
}

// listenWithRetry listens on addr. When the port is taken it walks forward
// by step until a free one is found.
func listenWithRetry(addr string, step int) (net.Listener, error) {
	const maxAttempts = 128
	if step <= 0 {
		step = 1
	}
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	startPort, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("bad port in %q: %w", addr, err)
	}
	if startPort == 0 {
		return net.Listen("tcp", addr)
	}
	for i := 0; i < maxAttempts; i++ {
		candidate := net.JoinHostPort(host, strconv.Itoa(startPort+i*step))
		lis, err := net.Listen("tcp", candidate)
		if err != nil {
			if strings.Contains(err.Error(), "address already in use") {
				log.Warnf("[Worker] listen %s occupied, trying next port", candidate)
				continue
			}
			return nil, err
		}
		return lis, nil
	}
	return nil, fmt.Errorf("unable to find available worker port from %d after %d attempts", startPort, maxAttempts)
}

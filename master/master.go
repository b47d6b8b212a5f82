// Package master drives a job across a fixed set of workers: it cuts the
// input into line-aligned ranges, deals them out as map tasks, then hands
// every reducer the intermediate files of its partition.
package master

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/emptyOVO/crimecount/rpc"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Config struct {
	JobID     string
	Job       string
	Files     []string
	Workers   []string
	NReduce   int
	ChunkSize int64
	Combine   bool
	OutputDir string
}

type workerConn struct {
	addr   string
	conn   *grpc.ClientConn
	client rpc.WorkerClient
}

type Master struct {
	cfg     Config
	workers []*workerConn
}

func New(cfg Config) (*Master, error) {
	if cfg.Job == "" {
		return nil, fmt.Errorf("job is required")
	}
	if cfg.NReduce <= 0 {
		return nil, fmt.Errorf("reducers must be > 0")
	}
	if len(cfg.Workers) == 0 {
		return nil, fmt.Errorf("at least one worker address is required")
	}
	if cfg.JobID == "" {
		cfg.JobID = uuid.New().String()
	}
	m := &Master{cfg: cfg}
	for _, addr := range cfg.Workers {
		conn, client, err := rpc.Dial(addr)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("dial worker %s: %w", addr, err)
		}
		m.workers = append(m.workers, &workerConn{addr: addr, conn: conn, client: client})
	}
	return m, nil
}

// Run executes the job and returns the reduce output files, one per reducer.
func (m *Master) Run(ctx context.Context) ([]string, error) {
	log.Infof("[Master] Start job %s (%s) workers=%d reducers=%d", m.cfg.JobID, m.cfg.Job, len(m.workers), m.cfg.NReduce)
	if err := m.waitReady(ctx); err != nil {
		return nil, err
	}

	ranges, err := SplitFiles(m.cfg.Files, m.cfg.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("split input: %w", err)
	}
	log.Infof("[Master] %d map ranges from %d files", len(ranges), len(m.cfg.Files))

	locations, err := m.runMapPhase(ctx, ranges)
	if err != nil {
		return nil, err
	}
	outputs, err := m.runReducePhase(ctx, locations)
	if err != nil {
		return nil, err
	}
	log.Infof("[Master] Finish job %s", m.cfg.JobID)
	return outputs, nil
}

func (m *Master) waitReady(ctx context.Context) error {
	const (
		maxAttempts = 40
		backoff     = 200 * time.Millisecond
	)
	for _, w := range m.workers {
		var lastErr error
		for i := 0; i < maxAttempts; i++ {
			hctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			state, err := w.client.Health(hctx, &rpc.Empty{})
			cancel()
			if err == nil {
				log.Tracef("[Master] worker %s (%s) is %s", w.addr, state.Uuid, state.State)
				lastErr = nil
				break
			}
			lastErr = err
			if respErr, ok := status.FromError(err); ok && respErr.Code() != codes.Unavailable && respErr.Code() != codes.DeadlineExceeded {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		if lastErr != nil {
			return fmt.Errorf("worker %s not ready: %w", w.addr, lastErr)
		}
	}
	return nil
}

func (m *Master) runMapPhase(ctx context.Context, ranges []rpc.MapFileInfo) ([][]rpc.ReduceFileInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	assigned := make([][]rpc.MapFileInfo, len(m.workers))
	for i, r := range ranges {
		assigned[i%len(m.workers)] = append(assigned[i%len(m.workers)], r)
	}

	locations := make([][]rpc.ReduceFileInfo, m.cfg.NReduce)
	var mu sync.Mutex
	var wg sync.WaitGroup
	errCh := make(chan error, len(m.workers))

	for i, w := range m.workers {
		if len(assigned[i]) == 0 {
			continue
		}
		wg.Add(1)
		go func(w0 *workerConn, files []rpc.MapFileInfo) {
			defer wg.Done()
			res, err := w0.client.Map(ctx, &rpc.MapInfo{
				JobID:   m.cfg.JobID,
				Job:     m.cfg.Job,
				Files:   files,
				NReduce: m.cfg.NReduce,
				Combine: m.cfg.Combine,
			})
			if err != nil {
				errCh <- fmt.Errorf("map on %s: %w", w0.addr, err)
				cancel()
				return
			}
			if len(res.Filenames) != m.cfg.NReduce {
				errCh <- fmt.Errorf("map on %s: got %d partitions, want %d", w0.addr, len(res.Filenames), m.cfg.NReduce)
				cancel()
				return
			}
			log.Tracef("[Master] worker %s mapped %d ranges, %d pairs", w0.addr, len(files), res.Emitted)
			mu.Lock()
			for r, f := range res.Filenames {
				locations[r] = append(locations[r], rpc.ReduceFileInfo{Ip: w0.addr, Filename: f})
			}
			mu.Unlock()
		}(w, assigned[i])
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		return nil, err
	}
	return locations, nil
}

func (m *Master) runReducePhase(ctx context.Context, locations [][]rpc.ReduceFileInfo) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outputs := make([]string, m.cfg.NReduce)
	var wg sync.WaitGroup
	errCh := make(chan error, len(m.workers))

	for i, w := range m.workers {
		wg.Add(1)
		go func(i0 int, w0 *workerConn) {
			defer wg.Done()
			for r := i0; r < m.cfg.NReduce; r += len(m.workers) {
				res, err := w0.client.Reduce(ctx, &rpc.ReduceInfo{
					JobID:     m.cfg.JobID,
					Job:       m.cfg.Job,
					ID:        r,
					Files:     locations[r],
					OutputDir: m.cfg.OutputDir,
				})
				if err != nil {
					errCh <- fmt.Errorf("reduce %d on %s: %w", r, w0.addr, err)
					cancel()
					return
				}
				outputs[r] = res.OutputFile
			}
		}(i, w)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		return nil, err
	}
	return outputs, nil
}

// Shutdown asks every worker to stop.
func (m *Master) Shutdown(ctx context.Context) {
	for _, w := range m.workers {
		ectx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if _, err := w.client.End(ectx, &rpc.Empty{}); err != nil {
			log.Warnf("[Master] end worker %s: %v", w.addr, err)
		}
		cancel()
	}
}

func (m *Master) Close() error {
	for _, w := range m.workers {
		if err := w.conn.Close(); err != nil {
			log.Warnf("[Master] close connection to %s: %v", w.addr, err)
		}
	}
	return nil
}

package worker

import (
	"bufio"
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/emptyOVO/crimecount/metrics"
	"github.com/emptyOVO/crimecount/rpc"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Worker struct {
	UUID       string
	resolve    Resolver
	storeInRAM bool
	imdDir     string
	Client     RpcClient
	EndChan    chan struct{}
	endOnce    sync.Once
	State      string
	mux        sync.Mutex
	imdFiles   map[string]bool
	rpc.UnimplementedWorkerServer
}

// NewWorker builds a worker running the jobs returned by resolve.
// Intermediate files go to /dev/shm when inRAM is set, to imdDir otherwise.
func NewWorker(resolve Resolver, inRAM bool, imdDir string) *Worker {
	return &Worker{
		UUID:       uuid.New().String(),
		resolve:    resolve,
		storeInRAM: inRAM,
		imdDir:     imdDir,
		Client:     newPeerClient(),
		EndChan:    make(chan struct{}),
		State:      rpc.WorkerIdle,
		imdFiles:   make(map[string]bool),
	}
}

// gRPC functions

func (wr *Worker) Map(ctx context.Context, in *rpc.MapInfo) (*rpc.MapResult, error) {
	log.Infof("[Worker] Start Map job=%s files=%d", in.Job, len(in.Files))
	started := time.Now()
	defer metrics.ObserveTask("map", started)

	wr.setWorkerState(rpc.WorkerBusy)
	defer wr.setWorkerState(rpc.WorkerIdle)

	if in.NReduce <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "nReduce must be > 0, got %d", in.NReduce)
	}
	mapf, reducef, err := wr.resolve(in.Job)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	log.Trace("[Worker] Start Mapping")
	done := make(chan error, len(in.Files))
	mapChan := newMrContext()
	for _, fInfo := range in.Files {
		go func(f0 rpc.MapFileInfo) {
			content, err := partialContent(f0)
			if err == nil {
				mapf(f0.FileName, content, mapChan)
			}
			done <- err
		}(fInfo)
	}

	imdKV := make([][]KV, in.NReduce)

	// Partition result into R piece
	log.Trace("[Worker] Start partition intermediate kv")
	count := 0
	var emitted int64
	var readErr error
	if len(in.Files) == 0 {
		close(mapChan.Chan)
	}

LOOP:
	for {
		select {
		case mapKV, haveKV := <-mapChan.Chan:
			if !haveKV {
				break LOOP
			}
			reducerID := reducerForKey(mapKV.Key, in.NReduce)
			imdKV[reducerID] = append(imdKV[reducerID], mapKV)
			emitted++

		case err := <-done:
			if err != nil && readErr == nil {
				readErr = err
			}
			count++
			if count == len(in.Files) {
				close(mapChan.Chan)
			}
		}
	}
	log.Trace("[Worker] End partition intermediate kv")
	if readErr != nil {
		return nil, status.Errorf(codes.Internal, "read input: %v", readErr)
	}

	if in.Combine {
		log.Trace("[Worker] Combine intermediate kv")
		for r := range imdKV {
			combined, err := combine(imdKV[r], reducef)
			if err != nil {
				return nil, status.Errorf(codes.Internal, "combine partition %d: %v", r, err)
			}
			imdKV[r] = combined
		}
	}

	log.Trace("[Worker] Write intermediate kv to file")
	filenames, err := wr.writeIMDToLocalFile(imdKV)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "write intermediate: %v", err)
	}
	log.Infof("[Worker] Finish Map Task emitted=%d in %s", emitted, time.Since(started))

	return &rpc.MapResult{
		Uuid:      wr.UUID,
		Filenames: filenames,
		Emitted:   emitted,
	}, nil
}

func partialContent(fInfo rpc.MapFileInfo) (string, error) {
	start := fInfo.From
	end := fInfo.To
	if end <= start {
		return "", nil
	}
	f, err := os.Open(fInfo.FileName)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return "", err
	}
	buf := make([]byte, end-start)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	return string(buf[:n]), nil
}

func reducerForKey(key string, nReduce int) int {
	if nReduce <= 0 {
		panic("nReduce must be > 0")
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()&0x7fffffff) % nReduce
}

// combine folds the pairs of one partition with the job's reducer.
func combine(kvs []KV, reducef ReduceFormat) ([]KV, error) {
	if len(kvs) == 0 {
		return kvs, nil
	}
	out := &Collector{}
	err := groupByKey(kvs, func(key string, values []string) error {
		return reducef(key, values, out)
	})
	return out.KVs, err
}

func (wr *Worker) imdBaseDir() string {
	if wr.storeInRAM {
		baseDir := "/dev/shm"
		if info, err := os.Stat(baseDir); err != nil || !info.IsDir() {
			baseDir = os.TempDir()
		}
		return baseDir
	}
	if wr.imdDir != "" {
		return wr.imdDir
	}
	return "output"
}

func (wr *Worker) writeIMDToLocalFile(imdKV [][]KV) ([]string, error) {
	// Filenames must stay aligned with reducer index, otherwise master will
	// dispatch wrong partitions to reducers and produce duplicate outputs.
	baseDir := wr.imdBaseDir()
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	taskID := uuid.New().String()
	filenames := make([]string, len(imdKV))
	errs := make([]error, len(imdKV))
	var wg sync.WaitGroup
	for r, kvs := range imdKV {
		wg.Add(1)
		go func(r0 int, s []KV) {
			defer wg.Done()
			fname := filepath.Join(baseDir, fmt.Sprintf("imd-%v-%v.txt", taskID, r0))
			filenames[r0] = fname
			errs[r0] = os.WriteFile(fname, []byte(encodeIMDKVs(s)), 0o644)
		}(r, kvs)
	}
	wg.Wait()

	wr.mux.Lock()
	for _, f := range filenames {
		wr.imdFiles[f] = true
	}
	wr.mux.Unlock()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return filenames, nil
}

func (wr *Worker) Reduce(ctx context.Context, in *rpc.ReduceInfo) (*rpc.ReduceResult, error) {
	log.Infof("[Worker] Start Reduce job=%s id=%d", in.Job, in.ID)
	started := time.Now()
	defer metrics.ObserveTask("reduce", started)

	wr.setWorkerState(rpc.WorkerBusy)
	defer wr.setWorkerState(rpc.WorkerIdle)

	_, reducef, err := wr.resolve(in.Job)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	log.Trace("[Worker] Get intermediate file")
	var imdKVs []KV
	for _, fInfo := range in.Files {
		kvs, err := wr.Client.GetIMDData(ctx, fInfo.Ip, fInfo.Filename)
		if err != nil {
			return nil, status.Errorf(codes.Unavailable, "fetch %s from %s: %v", fInfo.Filename, fInfo.Ip, err)
		}
		imdKVs = append(imdKVs, kvs...)
	}

	outputDir := in.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	outputFile := filepath.Join(outputDir, fmt.Sprintf("mr-out-%v.txt", in.ID))
	ofile, err := os.Create(outputFile)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	defer ofile.Close()
	out := &fileContext{w: bufio.NewWriter(ofile)}

	log.Trace("[Worker] Start Reducing")
	// Reduce all the intermediate KV
	if err := groupByKey(imdKVs, func(key string, values []string) error {
		return reducef(key, values, out)
	}); err != nil {
		return nil, status.Errorf(codes.Internal, "reduce %d: %v", in.ID, err)
	}
	if err := out.w.Flush(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	metrics.KeysReduced.WithLabelValues(in.Job).Add(float64(out.n))
	log.Infof("[Worker] End Reduce id=%d keys=%d", in.ID, out.n)

	return &rpc.ReduceResult{OutputFile: outputFile, Keys: out.n}, nil
}

type fileContext struct {
	w *bufio.Writer
	n int64
}

func (c *fileContext) EmitIntermediate(key, value string) {
	c.Emit(key, value)
}

func (c *fileContext) Emit(key, value string) {
	c.w.WriteString(key)
	c.w.WriteByte('\t')
	c.w.WriteString(value)
	c.w.WriteByte('\n')
	c.n++
}

func (wr *Worker) GetIMDData(ctx context.Context, in *rpc.IMDLoc) (*rpc.KVs, error) {
	log.Trace("[Worker] RPC Get intermediate file")
	wr.mux.Lock()
	known := wr.imdFiles[in.Filename]
	wr.mux.Unlock()
	if !known {
		return nil, status.Errorf(codes.NotFound, "unknown intermediate file %s", in.Filename)
	}
	b, err := os.ReadFile(in.Filename)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &rpc.KVs{Kvs: string(b)}, nil
}

func (wr *Worker) End(ctx context.Context, in *rpc.Empty) (*rpc.Empty, error) {
	log.Info("[Worker] End worker")
	wr.endOnce.Do(func() { close(wr.EndChan) })
	return &rpc.Empty{}, nil
}

func (wr *Worker) Health(ctx context.Context, in *rpc.Empty) (*rpc.WorkerState, error) {
	log.Trace("[Worker] Health Check")

	wr.mux.Lock()
	state := wr.State
	wr.mux.Unlock()

	return &rpc.WorkerState{Uuid: wr.UUID, State: state}, nil
}

func (wr *Worker) setWorkerState(state string) {
	wr.mux.Lock()
	wr.State = state
	wr.mux.Unlock()
}

// removeIMDFiles deletes every intermediate file this worker wrote.
func (wr *Worker) removeIMDFiles() {
	wr.mux.Lock()
	defer wr.mux.Unlock()
	for f := range wr.imdFiles {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			log.Warnf("[Worker] remove %s: %v", f, err)
		}
		delete(wr.imdFiles, f)
	}
}

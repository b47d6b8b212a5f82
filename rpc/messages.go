// Package rpc holds the worker service contract shared by masters and
// workers. Messages are plain Go structs; on the wire they travel as
// google.protobuf.Struct values.
package rpc

// Worker states reported by Health.
const (
	WorkerIdle = "IDLE"
	WorkerBusy = "BUSY"
)

type Empty struct{}

// MapFileInfo is a line-aligned byte range [From, To) of one input file.
type MapFileInfo struct {
	FileName string `json:"file_name"`
	From     int64  `json:"from"`
	To       int64  `json:"to"`
}

type MapInfo struct {
	JobID   string        `json:"job_id"`
	Job     string        `json:"job"`
	Files   []MapFileInfo `json:"files"`
	NReduce int           `json:"n_reduce"`
	Combine bool          `json:"combine"`
}

// MapResult lists the intermediate files of a map task. Filenames[i] holds
// the pairs of reducer i.
type MapResult struct {
	Uuid      string   `json:"uuid"`
	Filenames []string `json:"filenames"`
	Emitted   int64    `json:"emitted"`
}

type ReduceFileInfo struct {
	Ip       string `json:"ip"`
	Filename string `json:"filename"`
}

type ReduceInfo struct {
	JobID     string           `json:"job_id"`
	Job       string           `json:"job"`
	ID        int              `json:"id"`
	Files     []ReduceFileInfo `json:"files"`
	OutputDir string           `json:"output_dir"`
}

type ReduceResult struct {
	OutputFile string `json:"output_file"`
	Keys       int64  `json:"keys"`
}

type IMDLoc struct {
	Filename string `json:"filename"`
}

// KVs carries intermediate pairs as key\tvalue lines.
type KVs struct {
	Kvs string `json:"kvs"`
}

type WorkerState struct {
	Uuid  string `json:"uuid"`
	State string `json:"state"`
}

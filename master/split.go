package master

import (
	"bufio"
	"io"
	"os"

	"github.com/emptyOVO/crimecount/rpc"
)

// DefaultChunkSize is the target size of one map range.
const DefaultChunkSize int64 = 64 << 20

// SplitFiles cuts every file into ranges of roughly chunkSize bytes. A range
// always ends right after a newline (or at the end of the file), so no line
// is shared by two ranges.
func SplitFiles(files []string, chunkSize int64) ([]rpc.MapFileInfo, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	var out []rpc.MapFileInfo
	for _, name := range files {
		ranges, err := splitFile(name, chunkSize)
		if err != nil {
			return nil, err
		}
		out = append(out, ranges...)
	}
	return out, nil
}

func splitFile(name string, chunkSize int64) ([]rpc.MapFileInfo, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()

	var out []rpc.MapFileInfo
	br := bufio.NewReader(f)
	start := int64(0)
	for start < size {
		end := start + chunkSize
		if end >= size {
			end = size
		} else {
			if _, err := f.Seek(end, io.SeekStart); err != nil {
				return nil, err
			}
			br.Reset(f)
			rest, err := br.ReadBytes('\n')
			if err != nil && err != io.EOF {
				return nil, err
			}
			end += int64(len(rest))
		}
		out = append(out, rpc.MapFileInfo{FileName: name, From: start, To: end})
		start = end
	}
	return out, nil
}

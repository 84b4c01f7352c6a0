package ingest

import (
	"bufio"
	"io"
	"os"
)

// File is a Reader over an opened trace file.
type File struct {
	Reader
	Format Format
	f      *os.File
}

// Open opens path with the given format; FormatAuto detects it from the
// extension. "-" reads stdin as NDJSON unless a format is given.
func Open(path string, format Format) (*File, error) {
	var src io.Reader
	var f *os.File
	if path == "-" {
		src = os.Stdin
		if format == FormatAuto {
			format = FormatNDJSON
		}
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		src = f
	}
	if format == FormatAuto {
		format = DetectFormat(path)
	}
	buffered := bufio.NewReaderSize(src, 256*1024)

	out := &File{Format: format, f: f}
	if format == FormatMsgpack {
		out.Reader = NewMsgpackReader(buffered)
	} else {
		out.Reader = NewNDJSONReader(buffered)
	}
	return out, nil
}

// Close closes the underlying file; stdin is left open.
func (f *File) Close() error {
	if f.f == nil {
		return nil
	}
	return f.f.Close()
}

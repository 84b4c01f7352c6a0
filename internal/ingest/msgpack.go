package ingest

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Record encoding changes
const msgpackSchemaVersion uint16 = 1

const msgpackMagic = "wtfi"

// Header opens every msgpack trace stream.
type Header struct {
	Magic  string `msgpack:"magic"`
	Schema uint16 `msgpack:"schema"`
}

// MsgpackReader reads a msgpack trace stream.
type MsgpackReader struct {
	dec    *msgpack.Decoder
	header bool
	count  int
}

// NewMsgpackReader wraps r. The header is validated on the first Next.
func NewMsgpackReader(r io.Reader) *MsgpackReader {
	return &MsgpackReader{dec: msgpack.NewDecoder(r)}
}

// Next returns the next record or io.EOF.
func (r *MsgpackReader) Next() (Record, error) {
	if !r.header {
		var h Header
		if err := r.dec.Decode(&h); err != nil {
			if errors.Is(err, io.EOF) {
				return Record{}, fmt.Errorf("%w: empty msgpack stream", ErrMalformedRecord)
			}
			return Record{}, fmt.Errorf("%w: header: %v", ErrMalformedRecord, err)
		}
		if h.Magic != msgpackMagic {
			return Record{}, fmt.Errorf("%w: bad magic %q", ErrMalformedRecord, h.Magic)
		}
		if h.Schema != msgpackSchemaVersion {
			return Record{}, fmt.Errorf("%w: unsupported schema %d (want %d)", ErrMalformedRecord, h.Schema, msgpackSchemaVersion)
		}
		r.header = true
	}
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("record %d: %w: %v", r.count+1, ErrMalformedRecord, err)
	}
	r.count++
	return rec, nil
}

// MsgpackWriter writes a msgpack trace stream.
type MsgpackWriter struct {
	enc    *msgpack.Encoder
	header bool
}

// NewMsgpackWriter wraps w. The header is written with the first record.
func NewMsgpackWriter(w io.Writer) *MsgpackWriter {
	return &MsgpackWriter{enc: msgpack.NewEncoder(w)}
}

// Write encodes one record.
func (w *MsgpackWriter) Write(rec *Record) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	return w.enc.Encode(rec)
}

// Close writes the header if no record was written, so empty traces stay valid.
func (w *MsgpackWriter) Close() error {
	return w.writeHeader()
}

func (w *MsgpackWriter) writeHeader() error {
	if w.header {
		return nil
	}
	w.header = true
	return w.enc.Encode(&Header{Magic: msgpackMagic, Schema: msgpackSchemaVersion})
}

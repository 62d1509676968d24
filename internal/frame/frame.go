package frame

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/brokkr-rpc/brokkr/internal/rpc"
)

const (
	headerSize = 4
	// maxFrameSize bounds a single message so a corrupt header cannot make
	// the reader allocate gigabytes.
	maxFrameSize = 16 * 1024 * 1024
)

// Writer serializes messages onto a byte stream as length-prefixed JSON
// frames: a 4-byte big-endian body length followed by the body.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w. The caller keeps ownership of the underlying stream.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Send writes one complete message frame.
func (fw *Writer) Send(msg *rpc.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("frame: encode message: %w", err)
	}
	if len(body) > maxFrameSize {
		return fmt.Errorf("frame: message of %d bytes exceeds frame limit", len(body))
	}
	var header [headerSize]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(body)))
	if _, err := fw.w.Write(header[:]); err != nil {
		return fmt.Errorf("frame: write header: %w", err)
	}
	if _, err := fw.w.Write(body); err != nil {
		return fmt.Errorf("frame: write body: %w", err)
	}
	return nil
}

// Reader turns a byte stream into complete messages.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r. The caller keeps ownership of the underlying stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Receive reads the next complete message. A clean end of stream before any
// header byte yields (nil, nil); a stream that ends mid-frame is an error.
func (fr *Reader) Receive() (*rpc.Message, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(fr.r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("frame: read header: %w", err)
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > maxFrameSize {
		return nil, fmt.Errorf("frame: frame of %d bytes exceeds frame limit", size)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(fr.r, body); err != nil {
		return nil, fmt.Errorf("frame: read body: %w", err)
	}
	var msg rpc.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("frame: decode message: %w", err)
	}
	return &msg, nil
}

// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto

import (
	"errors"
	"fmt"
	"io"

	"github.com/pk910/go-sproto/sprotoutils"
)

// DefaultMaxFrameSize is the frame size limit of a StreamReader created with a zero limit.
const DefaultMaxFrameSize = 16 * 1024 * 1024

// Sproto messages are not self-delimiting, so streams carry each message in a
// frame: a little endian uint32 payload length followed by the payload.

// StreamReader reads framed messages from an io.Reader.
type StreamReader struct {
	r            io.Reader
	maxFrameSize int
	bytesRead    int64
}

// NewStreamReader creates a frame reader. Frames larger than maxFrameSize are
// rejected with ErrFrameTooBig before their payload is read.
func NewStreamReader(r io.Reader, maxFrameSize int) *StreamReader {
	if maxFrameSize <= 0 {
		maxFrameSize = DefaultMaxFrameSize
	}
	return &StreamReader{
		r:            r,
		maxFrameSize: maxFrameSize,
	}
}

// ReadFrame returns the payload of the next frame.
// io.EOF is returned when the stream ends cleanly between two frames.
// Each call allocates a new buffer, so decoded views of earlier frames stay valid.
func (sr *StreamReader) ReadFrame() ([]byte, error) {
	var header [sprotoutils.SizeofLength]byte
	n, err := io.ReadFull(sr.r, header[:])
	sr.bytesRead += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated frame header", sprotoutils.ErrUnexpectedEOF)
		}
		return nil, err
	}

	size, err := sprotoutils.NewBufferReader(header[:]).ReadUint32()
	if err != nil {
		return nil, err
	}
	if int64(size) > int64(sr.maxFrameSize) {
		return nil, fmt.Errorf("%w: %v bytes, max %v", sprotoutils.ErrFrameTooBig, size, sr.maxFrameSize)
	}

	payload := make([]byte, size)
	n, err = io.ReadFull(sr.r, payload)
	sr.bytesRead += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: frame of %v bytes truncated at %v", sprotoutils.ErrUnexpectedEOF, size, n)
		}
		return nil, err
	}

	return payload, nil
}

// ReadMessage decodes the next frame into obj.
func (sr *StreamReader) ReadMessage(obj Message) error {
	payload, err := sr.ReadFrame()
	if err != nil {
		return err
	}
	return Decode(payload, obj)
}

// BytesRead returns the number of bytes consumed from the underlying reader.
func (sr *StreamReader) BytesRead() int64 {
	return sr.bytesRead
}

// StreamWriter writes framed messages to an io.Writer.
type StreamWriter struct {
	w            io.Writer
	bytesWritten int64
}

// NewStreamWriter creates a frame writer.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{
		w: w,
	}
}

// WriteFrame writes payload as one frame.
func (sw *StreamWriter) WriteFrame(payload []byte) error {
	if int64(len(payload)) > int64(^uint32(0)) {
		return fmt.Errorf("%w: %v bytes", sprotoutils.ErrFrameTooBig, len(payload))
	}

	frame := sprotoutils.NewBufferWriter(make([]byte, 0, sprotoutils.SizeofLength+len(payload)))
	frame.WriteUint32(uint32(len(payload)))
	frame.WriteBytes(payload)

	n, err := sw.w.Write(frame.GetBuffer())
	sw.bytesWritten += int64(n)
	return err
}

// WriteMessage encodes obj and writes it as one frame.
func (sw *StreamWriter) WriteMessage(obj Marshaler) error {
	payload, err := Encode(obj)
	if err != nil {
		return err
	}
	return sw.WriteFrame(payload)
}

// BytesWritten returns the number of bytes written to the underlying writer.
func (sw *StreamWriter) BytesWritten() int64 {
	return sw.bytesWritten
}

// MarshalWriter encodes source with the reflection codec and writes it as one frame.
func (s *Sproto) MarshalWriter(source any, w *StreamWriter) error {
	payload, err := s.Marshal(source)
	if err != nil {
		return err
	}
	return w.WriteFrame(payload)
}

// UnmarshalReader reads the next frame from r and decodes it into target.
func (s *Sproto) UnmarshalReader(target any, r *StreamReader) error {
	payload, err := r.ReadFrame()
	if err != nil {
		return err
	}
	return s.Unmarshal(target, payload)
}

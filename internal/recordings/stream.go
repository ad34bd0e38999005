package recordings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"mime"
	"net/http"
	"path"
	"strings"
)

// DefaultChunkSize is the maximum size of a chunk returned by Stream.Next.
const DefaultChunkSize = 4096

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("stream closed")

// Stream yields recording bytes in chunks as they arrive. The signed-URL
// request is issued on the first Open or Next call. A Stream is finite, not
// restartable and not safe for concurrent use.
type Stream struct {
	open      func() (*http.Response, error)
	kind      string
	chunkSize int

	body     io.ReadCloser
	buf      []byte
	opened   bool
	openErr  error
	done     bool
	err      error
	filename string
	size     int64
}

func newStream(kind string, chunkSize int, open func() (*http.Response, error)) *Stream {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Stream{open: open, kind: kind, chunkSize: chunkSize, size: -1}
}

// Open issues the signed-URL request if it has not been issued yet.
func (s *Stream) Open() error {
	if s.opened {
		return s.openErr
	}
	s.opened = true

	resp, err := s.open()
	if err != nil {
		s.openErr = err
		s.done = true
		s.err = err
		return err
	}
	s.body = resp.Body
	s.buf = make([]byte, s.chunkSize)
	s.size = resp.ContentLength
	s.filename = dispositionFilename(resp.Header.Get("Content-Disposition"))
	return nil
}

// Next returns the next chunk of at most the configured chunk size. It returns
// io.EOF once the body is drained; the connection is released at that point
// or on the first error.
func (s *Stream) Next() ([]byte, error) {
	if !s.opened {
		if err := s.Open(); err != nil {
			return nil, err
		}
	}
	if s.done {
		return nil, s.err
	}
	for {
		n, err := s.body.Read(s.buf)
		if err != nil {
			s.finish(err)
		}
		if n > 0 {
			downloadBytes.WithLabelValues(s.kind).Add(float64(n))
			return bytes.Clone(s.buf[:n]), nil
		}
		if err != nil {
			return nil, s.err
		}
	}
}

// Chunks ranges over the remaining chunks. Leaving the loop early closes the
// stream. A read error is yielded once as the final element.
func (s *Stream) Chunks() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		defer s.Close()
		for {
			chunk, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(chunk, err) || err != nil {
				return
			}
		}
	}
}

// WriteTo drains the stream into w.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	defer s.Close()
	var total int64
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		n, werr := w.Write(chunk)
		total += int64(n)
		if werr != nil {
			return total, fmt.Errorf("write chunk: %w", werr)
		}
	}
}

// Close releases the underlying connection. It is safe to call more than once
// and before Open.
func (s *Stream) Close() error {
	if !s.opened {
		s.opened = true
		s.openErr = ErrClosed
	}
	if !s.done {
		s.done = true
		s.err = ErrClosed
	}
	if s.body == nil {
		return nil
	}
	body := s.body
	s.body = nil
	return body.Close()
}

// Filename is the server-suggested file name, or "" when none was sent or the
// stream is not open yet.
func (s *Stream) Filename() string { return s.filename }

// Size is the announced body length, or -1 when unknown.
func (s *Stream) Size() int64 { return s.size }

func (s *Stream) finish(err error) {
	if err == io.EOF {
		s.err = io.EOF
	} else {
		s.err = fmt.Errorf("read recording body: %w", err)
	}
	s.done = true
	if s.body != nil {
		_ = s.body.Close()
		s.body = nil
	}
}

func dispositionFilename(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := path.Base(strings.ReplaceAll(params["filename"], `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

package mbox

import (
	"io"
	"os"

	"github.com/emersion/go-mbox"
	"github.com/pkg/errors"
)

// Reader streams messages out of one mbox container. Each message reader
// returned by Next is valid until the following Next call.
type Reader struct {
	file   *os.File
	reader *mbox.Reader
}

func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open mbox")
	}
	return &Reader{file: file, reader: mbox.NewReader(file)}, nil
}

// Next returns a reader over the next message's raw RFC 822 bytes, or
// io.EOF once the container is exhausted. Any other error means the
// container structure cannot be trusted past this point.
func (r *Reader) Next() (io.Reader, error) {
	msg, err := r.reader.NextMessage()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.Wrap(err, "read mbox message")
	}
	return msg, nil
}

func (r *Reader) Close() error {
	return r.file.Close()
}

// Count scans the whole container and returns the number of messages it
// holds. The container is read twice per run (count, then convert); the
// second pass is the expensive one.
func Count(path string) (int, error) {
	r, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	count := 0
	for {
		msg, err := r.Next()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		if _, err := io.Copy(io.Discard, msg); err != nil {
			return count, errors.Wrap(err, "scan mbox message")
		}
		count++
	}
}

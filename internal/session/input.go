package session

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// lineReader delivers input lines while honouring context cancellation.
// The scanning goroutine exits at end of input or after close.
type lineReader struct {
	lines  chan string
	errc   chan error
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		lines:  make(chan string),
		errc:   make(chan error, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go func() {
		defer close(lr.exited)
		defer close(lr.lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lr.lines <- scanner.Text():
			case <-lr.done:
				lr.errc <- io.EOF
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		lr.errc <- err
	}()
	return lr
}

func (lr *lineReader) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lr.lines:
		if !ok {
			return "", <-lr.errc
		}
		return strings.TrimSpace(line), nil
	}
}

// close stops delivering lines. A goroutine blocked inside the underlying
// Read (an idle terminal) exits once that Read returns.
func (lr *lineReader) close() {
	lr.once.Do(func() { close(lr.done) })
}

package task

import (
	"fmt"
	"io"
	"sync"
)

// LineWriter serializes status lines written from cron jobs and the cache
// watcher. i3blocks in persist mode shows the last line it reads.
type LineWriter struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

func (l *LineWriter) WriteLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = line
	_, err := fmt.Fprintln(l.w, line)
	return err
}

func (l *LineWriter) Last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogRotator is a file writer that keeps only the last maxLines lines on disk.
// The file is compacted once twice the limit has been written since the last
// compaction.
type LogRotator struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	buffer *RingBuffer
}

// OpenLogRotator opens or creates the log file at path.
func OpenLogRotator(path string, maxLines int) (*LogRotator, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	return &LogRotator{
		file:   file,
		path:   path,
		buffer: NewRingBuffer(maxLines),
	}, nil
}

// Write implements io.Writer.
func (w *LogRotator) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}

	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}

		w.buffer.Push(line)

		if w.buffer.pushedSinceReset() >= w.buffer.Cap()*2 {
			if err := w.compact(); err != nil {
				return n, fmt.Errorf("failed to rotate log file: %w", err)
			}
			w.buffer.resetPushed()
		}
	}

	return n, nil
}

// Sync flushes the file to disk.
func (w *LogRotator) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Sync()
}

// Close closes the underlying file.
func (w *LogRotator) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Close()
}

// compact replaces the file with the buffered lines.
func (w *LogRotator) compact() error {
	temp, err := os.CreateTemp(filepath.Dir(w.path), "rotate-*.log")
	if err != nil {
		return err
	}

	tempPath := temp.Name()
	if err := writeLines(temp, w.buffer.Lines()); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return err
	}

	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	w.file.Close()
	// Windows refuses to rename over an existing file
	os.Remove(w.path)

	if err := os.Rename(tempPath, w.path); err != nil {
		return err
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.file = file

	return nil
}

func writeLines(f *os.File, lines []string) error {
	if len(lines) == 0 {
		return nil
	}

	if _, err := io.WriteString(f, strings.Join(lines, "\n")+"\n"); err != nil {
		return err
	}
	return f.Sync()
}

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultMaxLogLines is the number of lines kept when none is configured.
const DefaultMaxLogLines = 10000

// Rotator writes to a log file and keeps only its most recent lines. Once
// twice the limit was written, the file is rewritten with the last maxLines.
type Rotator struct {
	writer   io.Writer
	buffer   *ringBuffer
	filePath string
	mu       sync.Mutex
}

// NewRotator creates a Rotator for the file at filePath, already opened as
// writer. A non-positive maxLines keeps DefaultMaxLogLines lines.
func NewRotator(writer io.Writer, maxLines int, filePath string) *Rotator {
	if maxLines <= 0 {
		maxLines = DefaultMaxLogLines
	}
	return &Rotator{
		writer:   writer,
		buffer:   newRingBuffer(maxLines),
		filePath: filePath,
	}
}

// Write implements io.Writer. Every non-empty line is remembered so the
// file can be trimmed later.
func (w *Rotator) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// The file always receives the full entry first
	n, err := w.writer.Write(p)
	if err != nil {
		return n, err
	}

	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		w.buffer.add(line)

		if !w.buffer.full() {
			continue
		}
		if err := w.rotate(); err != nil {
			return n, fmt.Errorf("failed to rotate log file: %w", err)
		}
		w.buffer.flushed()
	}

	return n, nil
}

// Close closes the underlying writer if it is closable.
func (w *Rotator) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if closer, ok := w.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// rotate replaces the file with the buffered lines and reopens it.
func (w *Rotator) rotate() error {
	lines := w.buffer.getLines()
	if len(lines) == 0 {
		return nil
	}

	tempPath, err := writeSnapshot(filepath.Dir(w.filePath), lines)
	if err != nil {
		return err
	}

	// The old handle would keep writing to the unlinked file
	if closer, ok := w.writer.(io.Closer); ok {
		closer.Close()
	}

	// Windows cannot rename over an existing file
	os.Remove(w.filePath)

	if err := os.Rename(tempPath, w.filePath); err != nil {
		return err
	}

	file, err := os.OpenFile(w.filePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w.writer = file
	return nil
}

// writeSnapshot writes lines to a new temporary file in dir and returns its
// path. The file is removed again on failure.
func writeSnapshot(dir string, lines []string) (string, error) {
	temp, err := os.CreateTemp(dir, "temp-log-")
	if err != nil {
		return "", err
	}
	tempPath := temp.Name()

	// One write for the whole snapshot
	content := strings.Join(lines, "\n") + "\n"
	if _, err := temp.WriteString(content); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return "", err
	}

	if err := temp.Sync(); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return "", err
	}

	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return "", err
	}
	return tempPath, nil
}

// Package sink is where rendered G-code lines go: a file, any io.Writer,
// or memory.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cjeanneret/GcodeGo/internal/debug"
)

// Sink accepts G-code lines in order. A non-nil error means the
// destination rejected the line and generation must stop.
type Sink interface {
	WriteLine(line string) error
}

// WriteError is returned when the destination rejects a write.
type WriteError struct {
	Line int // 1-based number of the line being written or flushed
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write gcode line %d: %v", e.Line, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer is a buffered Sink over an io.Writer. Underlying write errors
// may only surface on a later WriteLine or on Flush; once one happens,
// every further call returns it.
type Writer struct {
	w     *bufio.Writer
	lines int
	err   error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) WriteLine(line string) error {
	if w.err != nil {
		return w.err
	}
	w.lines++
	if _, err := w.w.WriteString(line); err != nil {
		w.err = &WriteError{Line: w.lines, Err: err}
		return w.err
	}
	debug.Line(w.lines, line)
	return nil
}

// Lines returns how many lines were accepted.
func (w *Writer) Lines() int {
	return w.lines
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.w.Flush(); err != nil {
		w.err = &WriteError{Line: w.lines, Err: err}
	}
	return w.err
}

// File is a Writer backed by a file it owns.
type File struct {
	*Writer
	f *os.File
}

// Create creates (or truncates) the file at path.
func Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	debug.Verbose("Opened output file %s", path)
	return &File{Writer: NewWriter(f), f: f}, nil
}

// Close flushes and closes the file. The file is closed even when the
// flush fails.
func (f *File) Close() error {
	flushErr := f.Flush()
	closeErr := f.f.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("close output file: %w", closeErr)
	}
	return errors.Join(flushErr, closeErr)
}

// Memory collects lines in memory. The zero value is ready to use.
type Memory struct {
	lines []string
}

func (m *Memory) WriteLine(line string) error {
	m.lines = append(m.lines, line)
	debug.Line(len(m.lines), line)
	return nil
}

// Lines returns the collected lines, each still ending in "\n".
func (m *Memory) Lines() []string {
	return m.lines
}

// String returns the collected output as one text.
func (m *Memory) String() string {
	return strings.Join(m.lines, "")
}

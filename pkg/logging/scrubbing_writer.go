// Package logging provides log output helpers shared across the framework.
package logging

import (
	"io"
	"strings"
	"sync"
)

const redactMask string = "***"

// ScrubbingWriter is an io.Writer that masks registered secret terms before forwarding the output.
// The session token is registered here so it never ends up in logs.
type ScrubbingWriter interface {
	io.Writer
	AddTerm(term string)
	RemoveTerm(term string)
}

type scrubbingIoWriter struct {
	m      sync.RWMutex
	writer io.Writer
	terms  map[string]struct{}
}

func NewScrubbingWriter(writer io.Writer, terms ...string) ScrubbingWriter {
	w := &scrubbingIoWriter{
		writer: writer,
		terms:  map[string]struct{}{},
	}
	for _, term := range terms {
		w.AddTerm(term)
	}
	return w
}

func (w *scrubbingIoWriter) AddTerm(term string) {
	if term == "" {
		return
	}
	w.m.Lock()
	defer w.m.Unlock()
	w.terms[term] = struct{}{}
}

func (w *scrubbingIoWriter) RemoveTerm(term string) {
	w.m.Lock()
	defer w.m.Unlock()
	delete(w.terms, term)
}

func (w *scrubbingIoWriter) Write(p []byte) (int, error) {
	w.m.RLock()
	scrubbed := string(p)
	for term := range w.terms {
		scrubbed = strings.ReplaceAll(scrubbed, term, redactMask)
	}
	w.m.RUnlock()

	if _, err := w.writer.Write([]byte(scrubbed)); err != nil {
		return 0, err
	}

	// report the original length, callers must not see a short write because of masking
	return len(p), nil
}

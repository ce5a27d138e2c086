package fhirparser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

// maxLineSize bounds a single NDJSON line. Bulk exports of large Bundles or
// Binary resources can exceed bufio's 64KiB default.
const maxLineSize = 16 << 20

// Result is one line of an NDJSON stream.
type Result struct {
	Line     int
	Resource fhirmodels.Resource
	Err      error
}

// ReadNDJSON parses one resource per line from r and sends the results on
// the returned channel, which is closed at end of input, on a read error or
// when ctx is done. Blank lines are skipped. A line that fails to parse is
// reported with its error and reading continues.
func (p *Parser) ReadNDJSON(ctx context.Context, r io.Reader) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		line := 0
		for scanner.Scan() {
			line++
			data := bytes.TrimSpace(scanner.Bytes())
			if len(data) == 0 {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			res := Result{Line: line}
			res.Resource, res.Err = p.Parse(data)
			select {
			case out <- res:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case out <- Result{Line: line + 1, Err: fmt.Errorf("read ndjson: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()
	return out
}

// NDJSONWriter writes resources in NDJSON format, one compact JSON resource
// per line, as used by FHIR Bulk Data.
type NDJSONWriter struct {
	w *bufio.Writer
	p *Parser
}

// NewNDJSONWriter creates a new NDJSONWriter that writes to w.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{
		w: bufio.NewWriter(w),
		p: New(),
	}
}

// WriteResource serialises r as a single JSON line followed by a newline.
func (n *NDJSONWriter) WriteResource(r fhirmodels.Resource) error {
	data, err := n.p.FromFhir(r)
	if err != nil {
		return err
	}
	if _, err := n.w.Write(data); err != nil {
		return err
	}
	return n.w.WriteByte('\n')
}

// Flush flushes any buffered data to the underlying writer.
func (n *NDJSONWriter) Flush() error {
	return n.w.Flush()
}

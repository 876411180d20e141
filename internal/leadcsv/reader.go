// Package leadcsv reads and writes the CSV layout used for bulk lead import
// and export. It knows nothing about validation or persistence: the reader
// yields header-keyed string maps, the writer renders stored leads.
package leadcsv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMalformed wraps structural CSV failures (bad quoting, ragged rows).
	ErrMalformed = errors.New("leadcsv: malformed csv")
	// ErrTooManyRows is returned as soon as the data row cap is exceeded.
	ErrTooManyRows = errors.New("leadcsv: too many rows")
	// ErrNoHeader is returned for an empty document.
	ErrNoHeader = errors.New("leadcsv: missing header row")
)

const utf8BOM = "\uFEFF"

// Row is one data record keyed by trimmed header name. Num is the 1-based
// position counting the header as row 1, so the first data row is 2.
type Row struct {
	Num    int
	Values map[string]string
}

// Table is a parsed upload.
type Table struct {
	Header []string
	Rows   []Row
}

// Read parses r with a header row. Blank lines and rows whose cells are all
// whitespace are skipped and do not count toward maxRows. Every record must
// have as many fields as the header. A maxRows <= 0 disables the cap.
func Read(r io.Reader, maxRows int) (*Table, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && string(b) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, malformed(err)
	}
	header := make([]string, len(head))
	for i, h := range head {
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(err)
		}
		if blank(rec) {
			continue
		}
		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: expected %d fields, got %d", ErrMalformed, line, len(header), len(rec))
		}
		if maxRows > 0 && len(t.Rows) >= maxRows {
			return nil, ErrTooManyRows
		}
		vals := make(map[string]string, len(header))
		for i, h := range header {
			if h != "" {
				vals[h] = rec[i]
			}
		}
		t.Rows = append(t.Rows, Row{Num: len(t.Rows) + 2, Values: vals})
	}
	return t, nil
}

func malformed(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: line %d: %v", ErrMalformed, pe.Line, pe.Err)
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

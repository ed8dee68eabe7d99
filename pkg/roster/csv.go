package roster

import (
	"bufio"
	"encoding/csv"
	stderrors "errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Default header names.
const (
	HeaderID            = "Employee ID"
	HeaderSupervisor    = "Supervisor ID"
	HeaderName          = "Name"
	HeaderRole          = "Role"
	HeaderLeftImageURL  = "Image URL left"
	HeaderRightImageURL = "Image URL right"
)

// Columns maps record fields to header names and sets the field delimiter.
// The first four columns are required; the image columns are optional.
type Columns struct {
	ID            string
	Supervisor    string
	Name          string
	Role          string
	LeftImageURL  string
	RightImageURL string
	Comma         rune
}

// DefaultColumns returns the standard comma-separated layout.
func DefaultColumns() Columns {
	return Columns{
		ID:            HeaderID,
		Supervisor:    HeaderSupervisor,
		Name:          HeaderName,
		Role:          HeaderRole,
		LeftImageURL:  HeaderLeftImageURL,
		RightImageURL: HeaderRightImageURL,
		Comma:         ',',
	}
}

// Read parses a delimited roster. A leading UTF-8 byte order mark is
// ignored, blank lines are skipped and short rows are padded with empty
// fields. Unknown columns are ignored.
func Read(r io.Reader, cols Columns) (*Roster, error) {
	if cols.Comma == 0 {
		cols.Comma = ','
	}

	cr := csv.NewReader(stripBOM(bufio.NewReader(r)))
	cr.Comma = cols.Comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	for _, req := range []string{cols.ID, cols.Supervisor, cols.Name, cols.Role} {
		if _, ok := idx[req]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidRoster, "missing required column %q", req)
		}
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []Record
	for {
		row, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRoster, err, "read roster")
		}
		records = append(records, Record{
			ID:            field(row, cols.ID),
			SupervisorID:  field(row, cols.Supervisor),
			Name:          field(row, cols.Name),
			Role:          field(row, cols.Role),
			LeftImageURL:  field(row, cols.LeftImageURL),
			RightImageURL: field(row, cols.RightImageURL),
		})
	}
	return New(records), nil
}

// Parse is Read over an in-memory body.
func Parse(data []byte, cols Columns) (*Roster, error) {
	return Read(strings.NewReader(string(data)), cols)
}

func stripBOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

func readHeader(r *csv.Reader) ([]string, error) {
	h, err := r.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, errors.New(errors.ErrCodeInvalidRoster, "roster is empty: missing header row")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRoster, err, "read header")
	}
	for i := range h {
		h[i] = strings.TrimSpace(h[i])
		if !utf8.ValidString(h[i]) {
			return nil, errors.New(errors.ErrCodeInvalidRoster, "invalid header encoding")
		}
	}
	return h, nil
}

func headerIndex(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := m[name]; !seen {
			m[name] = i
		}
	}
	return m
}

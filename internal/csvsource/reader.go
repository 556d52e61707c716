// Package csvsource streams product rows from the benchmark CSV file.
package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vvka-141/loadbench/pkg/loadbench"
)

// Header lists the expected CSV columns in order.
var Header = []string{
	"Id", "Name", "Description", "Brand", "Category", "Price", "Currency",
	"Stock", "EAN", "Color", "Size", "Availability", "InternalID",
}

// Product is one CSV row with its numeric columns converted.
type Product struct {
	ID           int64
	Name         string
	Description  string
	Brand        string
	Category     string
	Price        float64
	Currency     string
	Stock        int32
	EAN          string
	Color        string
	Size         string
	Availability string
	InternalID   int64
}

// Values returns the insert arguments in column order.
func (p Product) Values() []any {
	return []any{
		p.ID, p.Name, p.Description, p.Brand, p.Category, p.Price, p.Currency,
		p.Stock, p.EAN, p.Color, p.Size, p.Availability, p.InternalID,
	}
}

// Reader yields Products from a CSV file. Not safe for concurrent use.
type Reader struct {
	file *os.File
	csv  *csv.Reader
	line int
}

// Open opens path and validates its header row.
// A missing file yields an error matching loadbench.ErrCSVNotFound.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: expected input at %s", loadbench.ErrCSVNotFound, path)
		}
		return nil, fmt.Errorf("failed to open csv %s: %w", path, err)
	}

	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.file = f
	return r, nil
}

// NewReader reads products from src, which must start with the header row.
func NewReader(src io.Reader) (*Reader, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = len(Header)
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv is empty, header row required")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	for i, want := range Header {
		got := strings.TrimSpace(strings.TrimPrefix(head[i], "\uFEFF"))
		if !strings.EqualFold(got, want) {
			return nil, fmt.Errorf("unexpected csv header column %d: got %q, want %q", i+1, got, want)
		}
	}

	return &Reader{csv: cr, line: 1}, nil
}

// Next returns the next product, or io.EOF after the last row.
func (r *Reader) Next() (Product, error) {
	rec, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Product{}, io.EOF
		}
		return Product{}, fmt.Errorf("csv line %d: %w", r.line+1, err)
	}
	r.line++

	return Product{
		ID:           parseInt(rec[0], 64),
		Name:         rec[1],
		Description:  rec[2],
		Brand:        rec[3],
		Category:     rec[4],
		Price:        parseFloat(rec[5]),
		Currency:     rec[6],
		Stock:        int32(parseInt(rec[7], 32)),
		EAN:          rec[8],
		Color:        rec[9],
		Size:         rec[10],
		Availability: rec[11],
		InternalID:   parseInt(rec[12], 64),
	}, nil
}

// Rows returns the number of data rows read so far.
func (r *Reader) Rows() int {
	return r.line - 1
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// Unparsable numbers become 0.
// parseInt reads a base-10 integer that fits in bits; anything else is 0.
func parseInt(s string, bits int) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, bits)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

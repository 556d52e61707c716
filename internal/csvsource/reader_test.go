package csvsource

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

const header = "Id,Name,Description,Brand,Category,Price,Currency,Stock,EAN,Color,Size,Availability,InternalID\n"

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func readAll(t *testing.T, r *Reader) []Product {
	t.Helper()
	var out []Product
	for {
		p, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, p)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	_, err := Open(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, loadbench.ErrCSVNotFound)
	assert.Contains(t, err.Error(), path)
	assert.Equal(t, loadbench.ExitCSVMissing, loadbench.ExitCodeForError(err))
}

func TestReader_ParsesRows(t *testing.T) {
	path := writeCSV(t, header+
		`1,Desk Lamp,"Warm, dimmable",Lumo,Lighting,24.50,EUR,12,4006381333931,black,M,in_stock,9001`+"\n"+
		`2,Chair,Plain,Sitz,Furniture,79.99,USD,3,4006381333948,red,L,backorder,9002`+"\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	rows := readAll(t, r)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, r.Rows())

	assert.Equal(t, Product{
		ID: 1, Name: "Desk Lamp", Description: "Warm, dimmable", Brand: "Lumo", Category: "Lighting",
		Price: 24.50, Currency: "EUR", Stock: 12, EAN: "4006381333931", Color: "black", Size: "M",
		Availability: "in_stock", InternalID: 9001,
	}, rows[0])
	assert.Equal(t, int64(2), rows[1].ID)
}

func TestReader_UnparsableNumbersBecomeZero(t *testing.T) {
	path := writeCSV(t, header+"x,Name,D,B,C,abc,EUR,lots,E,c,s,a,\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	rows := readAll(t, r)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].ID)
	assert.Zero(t, rows[0].Price)
	assert.Zero(t, rows[0].Stock)
	assert.Zero(t, rows[0].InternalID)
}

func TestReader_OutOfRangeStockBecomesZero(t *testing.T) {
	path := writeCSV(t, header+
		"1,A,D,B,C,1.0,EUR,3000000000,E,c,s,a,9000000000\n"+
		"2,B,D,B,C,1.0,EUR,2147483647,E,c,s,a,1\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	rows := readAll(t, r)
	require.Len(t, rows, 2)
	assert.Zero(t, rows[0].Stock)
	assert.Equal(t, int64(9000000000), rows[0].InternalID)
	assert.Equal(t, int32(2147483647), rows[1].Stock)
}

func TestReader_WrongFieldCountIsError(t *testing.T) {
	path := writeCSV(t, header+"1,only,three\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv line 2")
}

func TestOpen_HeaderValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty file", "", "header row required"},
		{"wrong column", strings.Replace(header, "Brand", "Maker", 1), `got "Maker", want "Brand"`},
		{"header only is fine", header, ""},
		{"BOM and case are tolerated", "\uFEFF" + strings.ToLower(header), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(writeCSV(t, tt.body))
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Empty(t, readAll(t, r))
				require.NoError(t, r.Close())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProduct_Values(t *testing.T) {
	p := Product{ID: 7, Name: "n", Price: 1.5, Stock: 4, InternalID: 70}

	v := p.Values()

	require.Len(t, v, len(Header))
	assert.Equal(t, int64(7), v[0])
	assert.Equal(t, 1.5, v[5])
	assert.Equal(t, int32(4), v[7])
	assert.Equal(t, int64(70), v[12])
}

package importer

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"shoppingcart/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads a product CSV with an "id,name,price" header and upserts
// every row into the catalogue.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr, productRepo: repo}
}

var requiredColumns = []string{"name", "price"}

// Run imports all rows and returns how many were written. It stops at the
// first bad row; earlier rows stay imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, errors.Wrap(err, "read headers")
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return 0, errors.Errorf("missing %q column", col)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, errors.Wrap(err, "read row")
		}
		if blank(record) {
			continue
		}
		line, _ := i.reader.FieldPos(0)

		p, err := parseRow(record, index)
		if err != nil {
			return imported, errors.Wrapf(err, "line %d", line)
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, errors.Wrapf(err, "line %d", line)
		}
		imported++
	}

	return imported, nil
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	var p domain.Product

	if raw := pick(record, index, "id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return p, errors.Errorf("invalid id %q", raw)
		}
		p.ID = id
	}

	p.Name = pick(record, index, "name")
	if p.Name == "" {
		return p, errors.New("name required")
	}

	raw := pick(record, index, "price")
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return p, errors.Errorf("invalid price %q", raw)
	}
	if price.IsNegative() {
		return p, errors.Errorf("negative price %s", raw)
	}
	p.Price = price
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

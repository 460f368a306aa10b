// Package dataset persists transaction collections as UTF-8 CSV (with BOM) and
// bootstraps a synthetic collection when none exists yet.
package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

const (
	batchSize  = 2000
	maxWorkers = 8

	// DateLayout is the layout timestamps are written with (always UTC).
	DateLayout = "2006-01-02 15:04:05.999999999"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Columns is the exact header row of the persisted format.
var Columns = []string{
	"ID", "Date", "Category", "Product", "Region", "City",
	"UnitPrice", "Quantity", "GrossTotal", "DiscountPercent", "NetTotal",
	"Status", "PaymentMethod", "Seller", "CustomerID",
	"Month", "Year", "Quarter", "Weekday", "MonthName",
}

// calendarColumns may be absent on load; they are then derived from Date.
var calendarColumns = map[string]bool{
	"Month": true, "Year": true, "Quarter": true, "Weekday": true, "MonthName": true,
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Save writes records to path, creating intermediate directories. The file is
// written to a temporary sibling first and renamed into place.
func Save(records []models.Transaction, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}

	if err := writeCSV(f, records); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close dataset file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move dataset into place: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, records []models.Transaction) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(bom); err != nil {
		return fmt.Errorf("write byte-order mark: %w", err)
	}

	cw := csv.NewWriter(bw)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(formatRecord(r)); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return bw.Flush()
}

func formatRecord(r models.Transaction) []string {
	return []string{
		r.ID,
		r.Date.UTC().Format(DateLayout),
		r.Category,
		r.Product,
		r.Region,
		r.City,
		formatFloat(r.UnitPrice),
		strconv.Itoa(r.Quantity),
		formatFloat(r.GrossTotal),
		strconv.Itoa(r.DiscountPercent),
		formatFloat(r.NetTotal),
		string(r.Status),
		string(r.PaymentMethod),
		r.Seller,
		r.CustomerID,
		r.Month,
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Quarter),
		r.Weekday,
		r.MonthName,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Load parses the collection stored at path. Every failure is a DATA_LOAD_ERROR.
func Load(ctx context.Context, path string) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.DataLoadWrap(err, "open dataset").WithDetail("path", path)
	}
	defer f.Close()

	records, err := Parse(ctx, f)
	if err != nil {
		if errors.HasCode(err, errors.CodeDataLoad) {
			return nil, err
		}
		return nil, errors.DataLoadWrap(err, "parse dataset").WithDetail("path", path)
	}
	return records, nil
}

// Parse reads a persisted collection from r. Rows are parsed in parallel
// batches; the result keeps file order.
func Parse(ctx context.Context, r io.Reader) ([]models.Transaction, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		br.Discard(len(bom))
	}

	reader := csv.NewReader(br)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.DataLoad("dataset is empty")
	}
	if err != nil {
		return nil, errors.DataLoadWrap(err, "read header")
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.DataLoadWrap(err, "read rows")
	}
	if len(rows) == 0 {
		return []models.Transaction{}, nil
	}

	out := make([]models.Transaction, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				tx, err := parseRecord(rows[i], index)
				if err != nil {
					// +2: one for the header, one for 1-based line numbers.
					return errors.DataLoadWrap(err, "malformed record").WithDetail("line", i+2)
				}
				out[i] = tx
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range Columns {
		if _, ok := index[name]; !ok && !calendarColumns[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.DataLoad("dataset is missing required columns").
			WithDetail("missing", missing)
	}
	return index, nil
}

func parseRecord(row []string, index map[string]int) (models.Transaction, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := parseDate(field("Date"))
	if err != nil {
		return models.Transaction{}, err
	}
	unitPrice, err := strconv.ParseFloat(field("UnitPrice"), 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("UnitPrice: %w", err)
	}
	quantity, err := strconv.Atoi(field("Quantity"))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("Quantity: %w", err)
	}
	gross, err := strconv.ParseFloat(field("GrossTotal"), 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("GrossTotal: %w", err)
	}
	discount, err := strconv.Atoi(field("DiscountPercent"))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("DiscountPercent: %w", err)
	}
	net, err := strconv.ParseFloat(field("NetTotal"), 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("NetTotal: %w", err)
	}

	tx := models.Transaction{
		ID:              field("ID"),
		Date:            date,
		Category:        field("Category"),
		Product:         field("Product"),
		Region:          field("Region"),
		City:            field("City"),
		UnitPrice:       unitPrice,
		Quantity:        quantity,
		GrossTotal:      gross,
		DiscountPercent: discount,
		NetTotal:        net,
		Status:          models.Status(field("Status")),
		PaymentMethod:   models.PaymentMethod(field("PaymentMethod")),
		Seller:          field("Seller"),
		CustomerID:      field("CustomerID"),
	}

	for name := range calendarColumns {
		if _, ok := index[name]; !ok {
			return tx.WithCalendar(), nil
		}
	}

	tx.Month = field("Month")
	tx.Weekday = field("Weekday")
	tx.MonthName = field("MonthName")
	if tx.Year, err = strconv.Atoi(field("Year")); err != nil {
		return models.Transaction{}, fmt.Errorf("Year: %w", err)
	}
	if tx.Quarter, err = strconv.Atoi(field("Quarter")); err != nil {
		return models.Transaction{}, fmt.Errorf("Quarter: %w", err)
	}
	return tx, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("Date: cannot parse %q", value)
}

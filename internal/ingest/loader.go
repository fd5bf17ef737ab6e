// Package ingest loads the categorized transaction ledger from CSV into
// the pipeline's input records, validating each field at the boundary.
package ingest

import (
	"fmt"
	"os"
	"strings"
	"time"

	"fjacquet/spendcast/internal/logging"
	"fjacquet/spendcast/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Row maps one CSV line of the ledger. Columns are addressed by name, not
// position, so upstream column reordering cannot silently misalign fields.
type Row struct {
	Date      string          `csv:"Date"`
	Category  string          `csv:"Category"`
	NetAmount decimal.Decimal `csv:"NetAmount"`
}

// Loader reads ledger CSV files.
type Loader struct {
	dateFormat string
	logger     logging.Logger
}

// NewLoader creates a Loader. dateFormat is a Go reference layout, e.g.
// "2006-01-02".
func NewLoader(dateFormat string, logger logging.Logger) *Loader {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Loader{dateFormat: dateFormat, logger: logger}
}

// LoadFile reads and validates the ledger at path.
func (l *Loader) LoadFile(path string) ([]models.TransactionRecord, error) {
	l.logger.Info("Reading ledger CSV", logging.Field{Key: logging.FieldFile, Value: path})

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening ledger file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			l.logger.WithError(cerr).Warn("Failed to close ledger file")
		}
	}()

	var rows []Row
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing ledger file: %w", err)
	}

	records, err := l.Convert(rows)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loaded ledger",
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: logging.FieldFile, Value: path})
	return records, nil
}

// Convert validates raw rows and turns them into pipeline records. The
// upstream contract requires resolved dates, category labels and amounts
// on every row, in ascending date order.
func (l *Loader) Convert(rows []Row) ([]models.TransactionRecord, error) {
	records := make([]models.TransactionRecord, 0, len(rows))
	var prev time.Time

	for i, row := range rows {
		date, err := time.Parse(l.dateFormat, strings.TrimSpace(row.Date))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q: %w", i+1, row.Date, err)
		}
		category := strings.TrimSpace(row.Category)
		if category == "" {
			return nil, fmt.Errorf("row %d: missing category", i+1)
		}
		if !prev.IsZero() && date.Before(prev) {
			return nil, fmt.Errorf("row %d: dates not ascending (%s after %s)",
				i+1, date.Format(l.dateFormat), prev.Format(l.dateFormat))
		}
		prev = date

		records = append(records, models.TransactionRecord{
			Date:      date,
			Category:  category,
			NetAmount: row.NetAmount,
		})
	}

	return records, nil
}

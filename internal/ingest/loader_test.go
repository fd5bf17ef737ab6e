package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/spendcast/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader() *Loader {
	return NewLoader("2006-01-02", &logging.MockLogger{})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	content := `Date,Category,NetAmount
2024-01-05,Groceries,-120.50
2024-01-20,Transport,-45.00
2024-02-01,Salary,5000.00
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := newTestLoader().LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, "Groceries", records[0].Category)
	assert.True(t, records[0].NetAmount.Equal(decimal.RequireFromString("-120.50")))

	assert.Equal(t, "Salary", records[2].Category)
	assert.True(t, records[2].NetAmount.IsPositive())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := newTestLoader().LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestConvertValidation(t *testing.T) {
	tests := []struct {
		name    string
		rows    []Row
		wantErr string
	}{
		{
			name: "invalid date",
			rows: []Row{
				{Date: "05.01.2024", Category: "Groceries", NetAmount: decimal.NewFromInt(-10)},
			},
			wantErr: "invalid date",
		},
		{
			name: "missing category",
			rows: []Row{
				{Date: "2024-01-05", Category: "   ", NetAmount: decimal.NewFromInt(-10)},
			},
			wantErr: "missing category",
		},
		{
			name: "descending dates",
			rows: []Row{
				{Date: "2024-02-01", Category: "Groceries", NetAmount: decimal.NewFromInt(-10)},
				{Date: "2024-01-01", Category: "Groceries", NetAmount: decimal.NewFromInt(-10)},
			},
			wantErr: "not ascending",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestLoader().Convert(tc.rows)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConvertTrimsWhitespace(t *testing.T) {
	records, err := newTestLoader().Convert([]Row{
		{Date: " 2024-01-05 ", Category: " Groceries ", NetAmount: decimal.NewFromInt(-10)},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Groceries", records[0].Category)
}

func TestConvertAllowsEqualDates(t *testing.T) {
	records, err := newTestLoader().Convert([]Row{
		{Date: "2024-01-05", Category: "Groceries", NetAmount: decimal.NewFromInt(-10)},
		{Date: "2024-01-05", Category: "Transport", NetAmount: decimal.NewFromInt(-20)},
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestConvertEmpty(t *testing.T) {
	records, err := newTestLoader().Convert(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/beatfindr/leadscout/internal/model"
)

func testLead(url string) model.Lead {
	return model.Lead{
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Source:    "Reddit",
		Author:    "u/beatbuyer9",
		Title:     "Looking for trap instrumental, budget $200",
		URL:       url,
		Tags:      []string{"reddit", "buying beats"},
	}
}

func TestXLSXInitCreatesWorkbook(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	st := NewXLSX(path, "Leads")

	require.NoError(t, st.Init(ctx))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet["Leads"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, model.LedgerHeader, rowToStrings(sheet.Rows[0]))
}

func TestXLSXAppendAndLeads(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	st := NewXLSX(path, "Leads")
	require.NoError(t, st.Init(ctx))

	require.NoError(t, st.Append(ctx, []model.Lead{testLead("https://x/1"), testLead("https://x/2")}))

	leads, err := st.Leads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "https://x/1", leads[0].URL)
	assert.Equal(t, "u/beatbuyer9", leads[0].Author)
	assert.Equal(t, []string{"reddit", "buying beats"}, leads[0].Tags)

	// Appends accumulate across store instances.
	st2 := NewXLSX(path, "Leads")
	require.NoError(t, st2.Init(ctx))
	require.NoError(t, st2.Append(ctx, []model.Lead{testLead("https://x/3")}))

	leads, err = st2.Leads(ctx)
	require.NoError(t, err)
	assert.Len(t, leads, 3)
}

func TestXLSXInitResetsOnHeaderMismatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leads.xlsx")

	// Workbook with a stale schema and old rows.
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	require.NoError(t, err)
	row := sheet.AddRow()
	row.AddCell().SetString("Date")
	row.AddCell().SetString("Who")
	row.AddCell().SetString("Link")
	old := sheet.AddRow()
	old.AddCell().SetString("2025-01-01")
	old.AddCell().SetString("someone")
	old.AddCell().SetString("https://old/1")
	require.NoError(t, f.Save(path))

	st := NewXLSX(path, "Leads")
	require.NoError(t, st.Init(ctx))

	// Fresh header is the sole surviving row.
	leads, err := st.Leads(ctx)
	require.NoError(t, err)
	assert.Empty(t, leads)

	reopened, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet2 := reopened.Sheet["Leads"]
	require.NotNil(t, sheet2)
	require.Len(t, sheet2.Rows, 1)
	assert.Equal(t, model.LedgerHeader, rowToStrings(sheet2.Rows[0]))
}

func TestXLSXRenamedSheetFallback(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leads.xlsx")

	// Hand-renamed sheet with a valid header.
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Renamed")
	require.NoError(t, err)
	row := sheet.AddRow()
	for _, h := range model.LedgerHeader {
		row.AddCell().SetString(h)
	}
	require.NoError(t, f.Save(path))

	st := NewXLSX(path, "Leads")
	require.NoError(t, st.Init(ctx))

	// Every operation resolves to the same fallback sheet.
	require.NoError(t, st.Append(ctx, []model.Lead{testLead("https://x/1")}))
	leads, err := st.Leads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "https://x/1", leads[0].URL)
}

func TestXLSXAppendEmptyBatchIsNoop(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	st := NewXLSX(path, "Leads")
	require.NoError(t, st.Init(ctx))

	require.NoError(t, st.Append(ctx, nil))

	leads, err := st.Leads(ctx)
	require.NoError(t, err)
	assert.Empty(t, leads)
}

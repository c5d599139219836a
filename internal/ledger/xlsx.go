package ledger

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/beatfindr/leadscout/internal/model"
)

// XLSXStore keeps the ledger in a local spreadsheet workbook. The header row
// is the schema contract. Default driver: the ledger is operator-facing and
// a workbook is what gets opened and eyeballed.
type XLSXStore struct {
	path  string
	sheet string
}

// NewXLSX creates an XLSXStore at the given path. The file is created on
// first Init if it doesn't exist.
func NewXLSX(path, sheet string) *XLSXStore {
	if sheet == "" {
		sheet = "Leads"
	}
	return &XLSXStore{path: path, sheet: sheet}
}

func (s *XLSXStore) Init(_ context.Context) error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		zap.L().Info("ledger: creating workbook", zap.String("path", s.path))
		return s.reset()
	}

	_, sheet, err := s.open()
	if err != nil {
		return err
	}

	if len(sheet.Rows) == 0 || !headerMatches(rowToStrings(sheet.Rows[0])) {
		zap.L().Warn("ledger: header mismatch, resetting workbook",
			zap.String("path", s.path),
			zap.Strings("expected", model.LedgerHeader),
		)
		return s.reset()
	}

	return nil
}

func (s *XLSXStore) Leads(_ context.Context) ([]model.Lead, error) {
	_, sheet, err := s.open()
	if err != nil {
		return nil, err
	}

	var leads []model.Lead
	for i, row := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		cells := rowToStrings(row)
		lead := model.LeadFromRow(cells)
		if lead.URL == "" {
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func (s *XLSXStore) Append(_ context.Context, leads []model.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	f, sheet, err := s.open()
	if err != nil {
		return err
	}

	for _, lead := range leads {
		row := sheet.AddRow()
		for _, cell := range lead.Row() {
			row.AddCell().SetString(cell)
		}
	}

	if err := f.Save(s.path); err != nil {
		return eris.Wrapf(err, "ledger: save workbook %s", s.path)
	}
	return nil
}

// Close is a no-op; the workbook is opened and saved per operation.
func (s *XLSXStore) Close() error {
	return nil
}

func (s *XLSXStore) open() (*xlsx.File, *xlsx.Sheet, error) {
	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "ledger: open workbook %s", s.path)
	}
	sheet, ok := f.Sheet[s.sheet]
	if !ok {
		if len(f.Sheets) == 0 {
			return nil, nil, eris.Errorf("ledger: workbook %s has no sheets", s.path)
		}
		// A hand-renamed sheet still loads; Init rewrites it on reset.
		sheet = f.Sheets[0]
	}
	return f, sheet, nil
}

// reset writes a fresh workbook holding only the header row, discarding any
// prior rows.
func (s *XLSXStore) reset() error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(s.sheet)
	if err != nil {
		return eris.Wrapf(err, "ledger: add sheet %q", s.sheet)
	}

	row := sheet.AddRow()
	for _, h := range model.LedgerHeader {
		row.AddCell().SetString(h)
	}

	if err := f.Save(s.path); err != nil {
		return eris.Wrapf(err, "ledger: save workbook %s", s.path)
	}
	return nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}

// Package notify delivers the end-of-run summary: a plaintext email with the
// new leads attached as CSV.
package notify

import (
	"bytes"
	"encoding/csv"

	"github.com/rotisserie/eris"

	"github.com/beatfindr/leadscout/internal/model"
)

// AttachmentName is the filename of the CSV attached to the summary email.
const AttachmentName = "beatfindr_leads.csv"

// Summary holds per-source counts of newly persisted leads.
type Summary map[string]int

// Total sums the per-source counts.
func (s Summary) Total() int {
	n := 0
	for _, v := range s {
		n += v
	}
	return n
}

// BuildCSV renders the leads as a CSV attachment, header row included.
func BuildCSV(leads []model.Lead) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(model.LedgerHeader); err != nil {
		return nil, eris.Wrap(err, "notify: write csv header")
	}
	for _, lead := range leads {
		if err := w.Write(lead.Row()); err != nil {
			return nil, eris.Wrap(err, "notify: write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, eris.Wrap(err, "notify: flush csv")
	}

	return buf.Bytes(), nil
}

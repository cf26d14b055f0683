package services

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

type InspectionRow struct {
	QuestionID   string
	QuestionName string
	State        ItemState
	Notes        string
}

// ExportInspectionCSV renders the resolved per-item states of an inspection
// checklist as CSV.
func ExportInspectionCSV(rows []InspectionRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"question_id", "question", "state", "notes"})
	for _, r := range rows {
		if err := w.Write([]string{r.QuestionID, r.QuestionName, string(r.State), r.Notes}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

type CostRow struct {
	QuestionID   string
	QuestionName string
	Charge       decimal.Decimal
	Pending      bool
}

// ExportCostCSV renders a cost reconciliation as CSV: one line per question
// charge (pending questions show an empty charge), then the overage line and
// the grand total. Rows are sorted by question id for stable output.
func ExportCostCSV(rows []CostRow, result *CostResult) ([]byte, error) {
	sorted := make([]CostRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].QuestionID < sorted[j].QuestionID })

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"question_id", "question", "charge", "pending"})
	for _, r := range sorted {
		charge := r.Charge.StringFixed(2)
		if r.Pending {
			charge = ""
		}
		if err := w.Write([]string{r.QuestionID, r.QuestionName, charge, strconv.FormatBool(r.Pending)}); err != nil {
			return nil, err
		}
	}
	if result != nil {
		_ = w.Write([]string{"", "overage", result.OverageCost.StringFixed(2), ""})
		_ = w.Write([]string{"", "grand_total", result.GrandTotal.StringFixed(2), ""})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

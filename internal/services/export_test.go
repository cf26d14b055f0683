package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestExportInspectionCSV(t *testing.T) {
	b, err := ExportInspectionCSV([]InspectionRow{
		{QuestionID: "Q1", QuestionName: "Tires", State: ItemRentalReady},
		{QuestionID: "Q2", QuestionName: "Hydraulics", State: ItemDamaged, Notes: "hose burst"},
	})
	if err != nil {
		t.Fatalf("ExportInspectionCSV returned error: %v", err)
	}
	got := string(b)
	want := "question_id,question,state,notes\nQ1,Tires,rental_ready,\nQ2,Hydraulics,damaged,hose burst\n"
	if got != want {
		t.Fatalf("csv = %q, want %q", got, want)
	}
}

func TestExportCostCSV(t *testing.T) {
	result := &CostResult{
		OverageCost: decimal.NewFromInt(150),
		GrandTotal:  decimal.NewFromInt(300),
	}
	b, err := ExportCostCSV([]CostRow{
		{QuestionID: "C2", QuestionName: "Fuel level", Pending: true},
		{QuestionID: "C1", QuestionName: "Bucket teeth", Charge: decimal.NewFromInt(150)},
	}, result)
	if err != nil {
		t.Fatalf("ExportCostCSV returned error: %v", err)
	}
	got := string(b)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 5 {
		t.Fatalf("csv has %d lines, want 5:\n%s", len(lines), got)
	}
	if lines[1] != "C1,Bucket teeth,150.00,false" {
		t.Fatalf("charge line = %q", lines[1])
	}
	if lines[2] != "C2,Fuel level,,true" {
		t.Fatalf("pending line = %q", lines[2])
	}
	if lines[4] != ",grand_total,300.00," {
		t.Fatalf("grand total line = %q", lines[4])
	}
}

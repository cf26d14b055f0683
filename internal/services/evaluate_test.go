package services

import (
	"reflect"
	"testing"
)

func inspectionCatalog() []*InspectionQuestion {
	return []*InspectionQuestion{
		{ID: "Q1", Name: "Tires", Required: true, Options: []*AnswerOption{
			{ID: "Q1A1", QuestionID: "Q1", Description: "Good tread", Readiness: ReadinessRentalReady},
			{ID: "Q1A2", QuestionID: "Q1", Description: "Worn", Readiness: ReadinessMaintenanceHold},
			{ID: "Q1A3", QuestionID: "Q1", Description: "Flat or damaged", Readiness: ReadinessDamaged},
		}},
		{ID: "Q2", Name: "Hydraulics", Required: true, Options: []*AnswerOption{
			{ID: "Q2A1", QuestionID: "Q2", Description: "No leaks", Readiness: ReadinessRentalReady},
			{ID: "Q2A2", QuestionID: "Q2", Description: "Leaking", Readiness: ReadinessDamaged},
		}},
		{ID: "Q3", Name: "Decals", Required: false, Options: []*AnswerOption{
			{ID: "Q3A1", QuestionID: "Q3", Description: "Present", Readiness: ReadinessRentalReady},
		}},
	}
}

func TestEvaluateResolvesStates(t *testing.T) {
	catalog := inspectionCatalog()
	responses := []*InspectionResponse{
		{QuestionID: "Q1", SelectedOptionID: "Q1A2", Notes: "rotate before next rental"},
		{QuestionID: "Q2", SelectedOptionID: "Q2A1"},
	}

	res := Evaluate(catalog, responses)

	want := map[string]ItemState{
		"Q1": ItemMaintenanceHold,
		"Q2": ItemRentalReady,
		"Q3": ItemUnanswered,
	}
	if !reflect.DeepEqual(res.PerItemState, want) {
		t.Fatalf("per-item state = %v, want %v", res.PerItemState, want)
	}
	if res.Counts.RequiredTotal != 2 || res.Counts.RequiredCompleted != 2 {
		t.Fatalf("required = %d/%d, want 2/2", res.Counts.RequiredCompleted, res.Counts.RequiredTotal)
	}
	if res.Counts.MaintenanceHoldCount != 1 || res.Counts.DamagedCount != 0 {
		t.Fatalf("hold/damaged = %d/%d, want 1/0", res.Counts.MaintenanceHoldCount, res.Counts.DamagedCount)
	}
	if res.Counts.TotalItems != 3 || res.Counts.CompletedItems != 2 {
		t.Fatalf("completed = %d/%d, want 2/3", res.Counts.CompletedItems, res.Counts.TotalItems)
	}
	if len(res.CatalogErrors) != 0 {
		t.Fatalf("catalog errors = %v, want none", res.CatalogErrors)
	}
}

func TestEvaluateDanglingReferenceIsUnanswered(t *testing.T) {
	catalog := inspectionCatalog()
	responses := []*InspectionResponse{
		{QuestionID: "Q1", SelectedOptionID: "REMOVED"},
	}

	res := Evaluate(catalog, responses)

	if got := res.PerItemState["Q1"]; got != ItemUnanswered {
		t.Fatalf("dangling reference state = %q, want %q", got, ItemUnanswered)
	}
	if res.Counts.RequiredCompleted != 0 {
		t.Fatalf("required completed = %d, want 0", res.Counts.RequiredCompleted)
	}
	if len(res.CatalogErrors) != 0 {
		t.Fatalf("dangling reference reported as catalog error: %v", res.CatalogErrors)
	}
}

func TestEvaluateZeroOptionQuestionIsCatalogError(t *testing.T) {
	catalog := []*InspectionQuestion{
		{ID: "Q1", Name: "Empty", Required: true},
	}

	res := Evaluate(catalog, nil)

	if len(res.CatalogErrors) != 1 || res.CatalogErrors[0].QuestionID != "Q1" {
		t.Fatalf("catalog errors = %v, want one for Q1", res.CatalogErrors)
	}
	if got := res.PerItemState["Q1"]; got != ItemUnanswered {
		t.Fatalf("zero-option question state = %q, want %q", got, ItemUnanswered)
	}
}

func TestEvaluateAbsentResponseIsNotDefaultOption(t *testing.T) {
	catalog := inspectionCatalog()

	res := Evaluate(catalog, nil)

	for id, state := range res.PerItemState {
		if state != ItemUnanswered {
			t.Fatalf("question %s resolved to %q with no responses", id, state)
		}
	}
	if res.Counts.CompletedItems != 0 {
		t.Fatalf("completed = %d, want 0", res.Counts.CompletedItems)
	}
}

func TestEvaluateLastResponseWins(t *testing.T) {
	catalog := inspectionCatalog()
	responses := []*InspectionResponse{
		{QuestionID: "Q2", SelectedOptionID: "Q2A2"},
		{QuestionID: "Q2", SelectedOptionID: "Q2A1"},
	}

	res := Evaluate(catalog, responses)

	if got := res.PerItemState["Q2"]; got != ItemRentalReady {
		t.Fatalf("state = %q, want %q", got, ItemRentalReady)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	catalog := inspectionCatalog()
	responses := []*InspectionResponse{
		{QuestionID: "Q1", SelectedOptionID: "Q1A3"},
		{QuestionID: "Q2", SelectedOptionID: "Q2A2"},
	}

	first := Evaluate(catalog, responses)
	second := Evaluate(catalog, responses)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated evaluation differs:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestEvaluateScenarioThreeRequiredTwoAnswered(t *testing.T) {
	catalog := inspectionCatalog()
	// Q3 is optional in the shared fixture; make it required for this scenario.
	catalog[2].Required = true
	responses := []*InspectionResponse{
		{QuestionID: "Q1", SelectedOptionID: "Q1A1"},
		{QuestionID: "Q2", SelectedOptionID: "Q2A1"},
	}

	res := Evaluate(catalog, responses)

	if res.Counts.RequiredCompleted != 2 || res.Counts.RequiredTotal != 3 {
		t.Fatalf("required = %d/%d, want 2/3", res.Counts.RequiredCompleted, res.Counts.RequiredTotal)
	}

	decision := CanFinalize(ModeRentalReady, res, nil, "J. Ortega", HoursReading{})
	if decision.Allowed {
		t.Fatal("finalize allowed with a required item unanswered")
	}
	if !hasReason(decision, ReasonRequiredIncomplete) {
		t.Fatalf("blocking reasons = %v, want %s", decision.BlockingReasons, ReasonRequiredIncomplete)
	}
}

func hasReason(d FinalizeDecision, want BlockReason) bool {
	for _, r := range d.BlockingReasons {
		if r == want {
			return true
		}
	}
	return false
}

package services

import (
	"reflect"
	"testing"
)

func TestCanFinalizeRentalReady(t *testing.T) {
	cases := []struct {
		name      string
		counts    OverallCounts
		inspector string
		want      []BlockReason
	}{
		{
			name:      "all clear",
			counts:    OverallCounts{RequiredTotal: 3, RequiredCompleted: 3},
			inspector: "M. Reyes",
			want:      nil,
		},
		{
			name:      "required incomplete",
			counts:    OverallCounts{RequiredTotal: 3, RequiredCompleted: 2},
			inspector: "M. Reyes",
			want:      []BlockReason{ReasonRequiredIncomplete},
		},
		{
			name:      "damaged item blocks regardless of completion",
			counts:    OverallCounts{RequiredTotal: 3, RequiredCompleted: 3, DamagedCount: 1},
			inspector: "M. Reyes",
			want:      []BlockReason{ReasonItemsNotReady},
		},
		{
			name:      "maintenance hold blocks",
			counts:    OverallCounts{RequiredTotal: 1, RequiredCompleted: 1, MaintenanceHoldCount: 1},
			inspector: "M. Reyes",
			want:      []BlockReason{ReasonItemsNotReady},
		},
		{
			name:      "blank inspector",
			counts:    OverallCounts{RequiredTotal: 1, RequiredCompleted: 1},
			inspector: "",
			want:      []BlockReason{ReasonInspectorMissing},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			eval := &EvaluationResult{Counts: c.counts}
			got := CanFinalize(ModeRentalReady, eval, nil, c.inspector, HoursReading{})
			if got.Allowed != (len(c.want) == 0) {
				t.Fatalf("allowed = %v, want %v", got.Allowed, len(c.want) == 0)
			}
			if !reflect.DeepEqual(got.BlockingReasons, c.want) {
				t.Fatalf("reasons = %v, want %v", got.BlockingReasons, c.want)
			}
		})
	}
}

func TestCanFinalizeDamagedRequiresDamagedItem(t *testing.T) {
	eval := &EvaluationResult{Counts: OverallCounts{RequiredTotal: 2, RequiredCompleted: 1}}
	got := CanFinalize(ModeDamaged, eval, nil, "M. Reyes", HoursReading{})
	if got.Allowed {
		t.Fatal("damaged finalize allowed with zero damaged items")
	}
	if !hasReason(got, ReasonNoDamagedItems) {
		t.Fatalf("reasons = %v, want %s", got.BlockingReasons, ReasonNoDamagedItems)
	}

	eval.Counts.DamagedCount = 1
	got = CanFinalize(ModeDamaged, eval, nil, "M. Reyes", HoursReading{})
	if !got.Allowed {
		t.Fatalf("damaged finalize blocked: %v", got.BlockingReasons)
	}
}

func TestCanFinalizeDelivery(t *testing.T) {
	cost := &CostResult{RequiredMissingDelivery: []string{"C2"}}
	got := CanFinalize(ModeDelivery, nil, cost, "M. Reyes", HoursReading{})
	if got.Allowed || !hasReason(got, ReasonDeliveryIncomplete) {
		t.Fatalf("decision = %+v, want blocked by %s", got, ReasonDeliveryIncomplete)
	}

	got = CanFinalize(ModeDelivery, nil, &CostResult{}, "M. Reyes", HoursReading{})
	if !got.Allowed {
		t.Fatalf("delivery finalize blocked: %v", got.BlockingReasons)
	}
}

func TestCanFinalizeReturn(t *testing.T) {
	end := 1300.0
	badEnd := 1200.0
	full := HoursReading{Start: 1250, End: &end}

	cases := []struct {
		name  string
		cost  *CostResult
		hours HoursReading
		want  []BlockReason
	}{
		{"complete", &CostResult{}, full, nil},
		{"missing return answers", &CostResult{RequiredMissingReturn: []string{"C1"}}, full, []BlockReason{ReasonReturnIncomplete}},
		{"missing delivery answers too", &CostResult{RequiredMissingDelivery: []string{"C1"}}, full, []BlockReason{ReasonDeliveryIncomplete}},
		{"no end hours", &CostResult{}, HoursReading{Start: 1250}, []BlockReason{ReasonHoursMissing}},
		{"end before start", &CostResult{}, HoursReading{Start: 1250, End: &badEnd}, []BlockReason{ReasonHoursInvalid}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := CanFinalize(ModeReturn, nil, c.cost, "M. Reyes", c.hours)
			if !reflect.DeepEqual(got.BlockingReasons, c.want) {
				t.Fatalf("reasons = %v, want %v", got.BlockingReasons, c.want)
			}
		})
	}
}

func TestCanFinalizeCatalogErrorsBlockEveryMode(t *testing.T) {
	// DamagedCount is nonzero so ModeDamaged has no other reason to block.
	eval := &EvaluationResult{
		Counts:        OverallCounts{DamagedCount: 1},
		CatalogErrors: []CatalogError{{QuestionID: "Q9", Reason: "question has no answer options"}},
	}
	end := 10.0
	cost := &CostResult{CatalogErrors: []CatalogError{{QuestionID: "C9", Reason: "question is missing delivery or return answer options"}}}
	hours := HoursReading{Start: 0, End: &end}

	cases := []struct {
		mode FinalizeMode
		eval *EvaluationResult
		cost *CostResult
	}{
		{ModeRentalReady, eval, nil},
		{ModeDamaged, eval, nil},
		{ModeDelivery, nil, cost},
		{ModeReturn, nil, cost},
	}
	for _, c := range cases {
		t.Run(string(c.mode), func(t *testing.T) {
			got := CanFinalize(c.mode, c.eval, c.cost, "M. Reyes", hours)
			if got.Allowed || !hasReason(got, ReasonCatalogInvalid) {
				t.Fatalf("decision = %+v, want blocked by %s", got, ReasonCatalogInvalid)
			}
		})
	}
}

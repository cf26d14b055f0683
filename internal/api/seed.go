package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rentalworks/gearcheck/internal/services"
)

// POST /api/seed — create a sample inspection template, customer template
// and rental policy with fixed IDs so the demo flows are scriptable.
func (rt *Router) handleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	now := time.Now().UTC()

	insp := &Template{ID: "SAMPLE-INSP", Name: "Excavator Pre-Rental Inspection", Kind: string(services.KindInspection), CreatedAt: now}
	rt.store.AddTemplate(insp)
	engine := &Category{ID: "CAT-ENGINE", Name: "Engine"}
	rt.store.AddCategory(engine)
	questions := []*InspectionQuestion{
		{
			ID: "Q-OIL", TemplateID: insp.ID, CategoryID: engine.ID, Name: "Engine oil level", Required: true,
			Options: []*AnswerOption{
				{ID: "Q-OIL-OK", QuestionID: "Q-OIL", Description: "Full, clean", Readiness: string(services.ReadinessRentalReady), SortOrder: 0},
				{ID: "Q-OIL-LOW", QuestionID: "Q-OIL", Description: "Low, top up before rental", Readiness: string(services.ReadinessMaintenanceHold), SortOrder: 1},
				{ID: "Q-OIL-CONT", QuestionID: "Q-OIL", Description: "Contaminated", Readiness: string(services.ReadinessDamaged), SortOrder: 2},
			},
		},
		{
			ID: "Q-TRACKS", TemplateID: insp.ID, Name: "Track condition", Required: true,
			Options: []*AnswerOption{
				{ID: "Q-TRACKS-OK", QuestionID: "Q-TRACKS", Description: "No visible wear", Readiness: string(services.ReadinessRentalReady), SortOrder: 0},
				{ID: "Q-TRACKS-DMG", QuestionID: "Q-TRACKS", Description: "Cracked or missing pads", Readiness: string(services.ReadinessDamaged), SortOrder: 1},
			},
		},
		{
			ID: "Q-LIGHTS", TemplateID: insp.ID, Name: "Work lights", Required: false,
			Options: []*AnswerOption{
				{ID: "Q-LIGHTS-OK", QuestionID: "Q-LIGHTS", Description: "All functional", Readiness: string(services.ReadinessRentalReady), SortOrder: 0},
				{ID: "Q-LIGHTS-OUT", QuestionID: "Q-LIGHTS", Description: "One or more out", Readiness: string(services.ReadinessMaintenanceHold), SortOrder: 1},
			},
		},
	}
	for _, q := range questions {
		rt.store.AddInspectionQuestion(q)
	}

	cust := &Template{ID: "SAMPLE-CUST", Name: "Excavator Delivery & Return", Kind: string(services.KindCustomer), CreatedAt: now}
	rt.store.AddTemplate(cust)
	fuel := &CustomerQuestion{
		ID: "CQ-FUEL", TemplateID: cust.ID, Name: "Fuel level", Required: true,
		DeliveryText: "Record the fuel level at handoff.",
		ReturnText:   "Record the fuel level on return.",
		DeliveryAnswers: []*CustomerAnswerOption{
			{ID: "CQ-FUEL-D-FULL", QuestionID: "CQ-FUEL", Description: "Full tank", Value: decimal.NewFromInt(0), SortOrder: 0},
			{ID: "CQ-FUEL-D-HALF", QuestionID: "CQ-FUEL", Description: "Half tank", Value: decimal.NewFromInt(60), SortOrder: 1},
		},
		ReturnAnswers: []*CustomerAnswerOption{
			{ID: "CQ-FUEL-R-FULL", QuestionID: "CQ-FUEL", Description: "Full tank", Value: decimal.NewFromInt(0), SortOrder: 0, PairedAnswerID: "CQ-FUEL-D-FULL"},
			{ID: "CQ-FUEL-R-HALF", QuestionID: "CQ-FUEL", Description: "Half tank", Value: decimal.NewFromInt(60), SortOrder: 1, PairedAnswerID: "CQ-FUEL-D-HALF"},
			{ID: "CQ-FUEL-R-EMPTY", QuestionID: "CQ-FUEL", Description: "Near empty", Value: decimal.NewFromInt(150), SortOrder: 2},
		},
		AnswerSyncMap: map[string]bool{"CQ-FUEL-D-FULL": true, "CQ-FUEL-D-HALF": true},
	}
	clean := &CustomerQuestion{
		ID: "CQ-CLEAN", TemplateID: cust.ID, Name: "Cab cleanliness", Required: false,
		DeliveryAnswers: []*CustomerAnswerOption{
			{ID: "CQ-CLEAN-D-OK", QuestionID: "CQ-CLEAN", Description: "Clean", Value: decimal.NewFromInt(0), SortOrder: 0},
		},
		ReturnAnswers: []*CustomerAnswerOption{
			{ID: "CQ-CLEAN-R-OK", QuestionID: "CQ-CLEAN", Description: "Clean", Value: decimal.NewFromInt(0), SortOrder: 0, PairedAnswerID: "CQ-CLEAN-D-OK"},
			{ID: "CQ-CLEAN-R-DIRTY", QuestionID: "CQ-CLEAN", Description: "Needs cleaning", Value: decimal.NewFromInt(75), SortOrder: 1},
		},
	}
	rt.store.AddCustomerQuestion(fuel)
	rt.store.AddCustomerQuestion(clean)

	policy := &RentalPolicy{ID: "POL-STD", Name: "Standard 40h week", AllowedHours: 40, OverageRatePerHour: decimal.NewFromInt(15)}
	rt.store.AddPolicy(policy)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":                   true,
		"inspection_template":  insp.ID,
		"customer_template":    cust.ID,
		"policy_id":            policy.ID,
		"inspection_questions": len(questions),
		"customer_questions":   2,
	})
}

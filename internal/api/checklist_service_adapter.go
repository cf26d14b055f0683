package api

import "github.com/rentalworks/gearcheck/internal/services"

type checklistStoreAdapter struct {
	store Store
}

func newChecklistStoreAdapter(store Store) services.ChecklistStore {
	return &checklistStoreAdapter{store: store}
}

func (a *checklistStoreAdapter) GetTemplate(id string) (*services.Template, error) {
	return toServiceTemplate(a.store.GetTemplate(id)), nil
}

func (a *checklistStoreAdapter) ListInspectionQuestions(templateID string) ([]*services.InspectionQuestion, error) {
	qs := a.store.ListInspectionQuestions(templateID)
	out := make([]*services.InspectionQuestion, 0, len(qs))
	for _, q := range qs {
		out = append(out, toServiceInspectionQuestion(q))
	}
	return out, nil
}

func (a *checklistStoreAdapter) ListCustomerQuestions(templateID string) ([]*services.CustomerQuestion, error) {
	qs := a.store.ListCustomerQuestions(templateID)
	out := make([]*services.CustomerQuestion, 0, len(qs))
	for _, q := range qs {
		out = append(out, toServiceCustomerQuestion(q))
	}
	return out, nil
}

func (a *checklistStoreAdapter) GetPolicy(id string) (*services.RentalPolicy, error) {
	return toServicePolicy(a.store.GetPolicy(id)), nil
}

func (a *checklistStoreAdapter) InsertChecklist(c *services.Checklist) error {
	a.store.AddChecklist(fromServiceChecklist(c))
	return nil
}

func (a *checklistStoreAdapter) GetChecklist(id string) (*services.Checklist, error) {
	return toServiceChecklist(a.store.GetChecklist(id)), nil
}

func (a *checklistStoreAdapter) UpdateChecklist(c *services.Checklist) error {
	if !a.store.UpdateChecklist(fromServiceChecklist(c)) {
		return services.NewNotFoundError("checklist not found")
	}
	return nil
}

func (a *checklistStoreAdapter) UpsertInspectionResponse(checklistID string, r *services.InspectionResponse) error {
	a.store.UpsertInspectionResponse(checklistID, &InspectionResponse{
		QuestionID:       r.QuestionID,
		SelectedOptionID: r.SelectedOptionID,
		Notes:            r.Notes,
	})
	return nil
}

func (a *checklistStoreAdapter) UpsertCustomerResponse(checklistID string, r *services.CustomerResponse) error {
	a.store.UpsertCustomerResponse(checklistID, &CustomerResponse{
		QuestionID:       r.QuestionID,
		DeliveryOptionID: r.DeliveryOptionID,
		ReturnOptionID:   r.ReturnOptionID,
		DeliveryNotes:    r.DeliveryNotes,
		ReturnNotes:      r.ReturnNotes,
	})
	return nil
}

func (a *checklistStoreAdapter) ListInspectionResponses(checklistID string) ([]*services.InspectionResponse, error) {
	rs := a.store.ListInspectionResponses(checklistID)
	out := make([]*services.InspectionResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, &services.InspectionResponse{
			QuestionID:       r.QuestionID,
			SelectedOptionID: r.SelectedOptionID,
			Notes:            r.Notes,
		})
	}
	return out, nil
}

func (a *checklistStoreAdapter) ListCustomerResponses(checklistID string) ([]*services.CustomerResponse, error) {
	rs := a.store.ListCustomerResponses(checklistID)
	out := make([]*services.CustomerResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, &services.CustomerResponse{
			QuestionID:       r.QuestionID,
			DeliveryOptionID: r.DeliveryOptionID,
			ReturnOptionID:   r.ReturnOptionID,
			DeliveryNotes:    r.DeliveryNotes,
			ReturnNotes:      r.ReturnNotes,
		})
	}
	return out, nil
}

func (a *checklistStoreAdapter) AddAudit(entry services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: entry.Time, Actor: entry.Actor, Action: entry.Action, Target: entry.Target, Note: entry.Note})
}

var _ services.ChecklistStore = (*checklistStoreAdapter)(nil)

func toServiceChecklist(c *Checklist) *services.Checklist {
	if c == nil {
		return nil
	}
	return &services.Checklist{
		ID:            c.ID,
		TemplateID:    c.TemplateID,
		EquipmentID:   c.EquipmentID,
		Kind:          services.ChecklistKind(c.Kind),
		Status:        services.ChecklistStatus(c.Status),
		PolicyID:      c.PolicyID,
		InspectorName: c.InspectorName,
		Hours:         services.HoursReading{Start: c.HoursStart, End: c.HoursEnd},
		PreviousID:    c.PreviousID,
		CreatedAt:     c.CreatedAt,
		FinalizedAt:   c.FinalizedAt,
	}
}

func fromServiceChecklist(c *services.Checklist) *Checklist {
	return &Checklist{
		ID:            c.ID,
		TemplateID:    c.TemplateID,
		EquipmentID:   c.EquipmentID,
		Kind:          string(c.Kind),
		Status:        string(c.Status),
		PolicyID:      c.PolicyID,
		InspectorName: c.InspectorName,
		HoursStart:    c.Hours.Start,
		HoursEnd:      c.Hours.End,
		PreviousID:    c.PreviousID,
		CreatedAt:     c.CreatedAt,
		FinalizedAt:   c.FinalizedAt,
	}
}

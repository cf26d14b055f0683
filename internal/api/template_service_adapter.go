package api

import "github.com/rentalworks/gearcheck/internal/services"

type templateStoreAdapter struct {
	store Store
}

func newTemplateStoreAdapter(store Store) services.TemplateStore {
	return &templateStoreAdapter{store: store}
}

func (a *templateStoreAdapter) InsertTemplate(t *services.Template) error {
	a.store.AddTemplate(fromServiceTemplate(t))
	return nil
}

func (a *templateStoreAdapter) GetTemplate(id string) (*services.Template, error) {
	return toServiceTemplate(a.store.GetTemplate(id)), nil
}

func (a *templateStoreAdapter) InsertCategory(c *services.Category) error {
	a.store.AddCategory(&Category{ID: c.ID, Name: c.Name})
	return nil
}

func (a *templateStoreAdapter) GetCategory(id string) (*services.Category, error) {
	c := a.store.GetCategory(id)
	if c == nil {
		return nil, nil
	}
	return &services.Category{ID: c.ID, Name: c.Name}, nil
}

func (a *templateStoreAdapter) InsertInspectionQuestion(q *services.InspectionQuestion) error {
	a.store.AddInspectionQuestion(fromServiceInspectionQuestion(q))
	return nil
}

func (a *templateStoreAdapter) GetInspectionQuestion(id string) (*services.InspectionQuestion, error) {
	return toServiceInspectionQuestion(a.store.GetInspectionQuestion(id)), nil
}

func (a *templateStoreAdapter) UpdateInspectionQuestion(q *services.InspectionQuestion) error {
	if !a.store.UpdateInspectionQuestion(fromServiceInspectionQuestion(q)) {
		return services.NewNotFoundError("question not found")
	}
	return nil
}

func (a *templateStoreAdapter) InsertCustomerQuestion(q *services.CustomerQuestion) error {
	a.store.AddCustomerQuestion(fromServiceCustomerQuestion(q))
	return nil
}

func (a *templateStoreAdapter) GetCustomerQuestion(id string) (*services.CustomerQuestion, error) {
	return toServiceCustomerQuestion(a.store.GetCustomerQuestion(id)), nil
}

func (a *templateStoreAdapter) UpdateCustomerQuestion(q *services.CustomerQuestion) error {
	if !a.store.UpdateCustomerQuestion(fromServiceCustomerQuestion(q)) {
		return services.NewNotFoundError("question not found")
	}
	return nil
}

func (a *templateStoreAdapter) AddAudit(entry services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: entry.Time, Actor: entry.Actor, Action: entry.Action, Target: entry.Target, Note: entry.Note})
}

var _ services.TemplateStore = (*templateStoreAdapter)(nil)

func toServiceTemplate(t *Template) *services.Template {
	if t == nil {
		return nil
	}
	return &services.Template{ID: t.ID, Name: t.Name, Kind: services.ChecklistKind(t.Kind), CreatedAt: t.CreatedAt}
}

func fromServiceTemplate(t *services.Template) *Template {
	return &Template{ID: t.ID, Name: t.Name, Kind: string(t.Kind), CreatedAt: t.CreatedAt}
}

func toServiceInspectionQuestion(q *InspectionQuestion) *services.InspectionQuestion {
	if q == nil {
		return nil
	}
	opts := make([]*services.AnswerOption, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, &services.AnswerOption{
			ID:          o.ID,
			QuestionID:  o.QuestionID,
			Description: o.Description,
			Readiness:   services.ReadinessState(o.Readiness),
			SortOrder:   o.SortOrder,
		})
	}
	return &services.InspectionQuestion{
		ID:         q.ID,
		TemplateID: q.TemplateID,
		CategoryID: q.CategoryID,
		Name:       q.Name,
		Required:   q.Required,
		Options:    opts,
	}
}

func fromServiceInspectionQuestion(q *services.InspectionQuestion) *InspectionQuestion {
	opts := make([]*AnswerOption, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, &AnswerOption{
			ID:          o.ID,
			QuestionID:  o.QuestionID,
			Description: o.Description,
			Readiness:   string(o.Readiness),
			SortOrder:   o.SortOrder,
		})
	}
	return &InspectionQuestion{
		ID:         q.ID,
		TemplateID: q.TemplateID,
		CategoryID: q.CategoryID,
		Name:       q.Name,
		Required:   q.Required,
		Options:    opts,
	}
}

func toServiceCustomerOptions(opts []*CustomerAnswerOption) []*services.CustomerAnswerOption {
	out := make([]*services.CustomerAnswerOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, &services.CustomerAnswerOption{
			ID:             o.ID,
			QuestionID:     o.QuestionID,
			Description:    o.Description,
			Value:          o.Value,
			SortOrder:      o.SortOrder,
			PairedAnswerID: o.PairedAnswerID,
		})
	}
	return out
}

func fromServiceCustomerOptions(opts []*services.CustomerAnswerOption) []*CustomerAnswerOption {
	out := make([]*CustomerAnswerOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, &CustomerAnswerOption{
			ID:             o.ID,
			QuestionID:     o.QuestionID,
			Description:    o.Description,
			Value:          o.Value,
			SortOrder:      o.SortOrder,
			PairedAnswerID: o.PairedAnswerID,
		})
	}
	return out
}

func toServiceCustomerQuestion(q *CustomerQuestion) *services.CustomerQuestion {
	if q == nil {
		return nil
	}
	return &services.CustomerQuestion{
		ID:              q.ID,
		TemplateID:      q.TemplateID,
		CategoryID:      q.CategoryID,
		Name:            q.Name,
		DeliveryText:    q.DeliveryText,
		ReturnText:      q.ReturnText,
		Required:        q.Required,
		DeliveryAnswers: toServiceCustomerOptions(q.DeliveryAnswers),
		ReturnAnswers:   toServiceCustomerOptions(q.ReturnAnswers),
		AnswerSyncMap:   q.AnswerSyncMap,
	}
}

func fromServiceCustomerQuestion(q *services.CustomerQuestion) *CustomerQuestion {
	return &CustomerQuestion{
		ID:              q.ID,
		TemplateID:      q.TemplateID,
		CategoryID:      q.CategoryID,
		Name:            q.Name,
		DeliveryText:    q.DeliveryText,
		ReturnText:      q.ReturnText,
		Required:        q.Required,
		DeliveryAnswers: fromServiceCustomerOptions(q.DeliveryAnswers),
		ReturnAnswers:   fromServiceCustomerOptions(q.ReturnAnswers),
		AnswerSyncMap:   q.AnswerSyncMap,
	}
}

package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorForbidden    ErrorCode = "forbidden"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// TemplateStore abstracts persistence operations required by TemplateService.
type TemplateStore interface {
	InsertTemplate(t *Template) error
	GetTemplate(id string) (*Template, error)
	InsertCategory(c *Category) error
	GetCategory(id string) (*Category, error)
	InsertInspectionQuestion(q *InspectionQuestion) error
	GetInspectionQuestion(id string) (*InspectionQuestion, error)
	UpdateInspectionQuestion(q *InspectionQuestion) error
	InsertCustomerQuestion(q *CustomerQuestion) error
	GetCustomerQuestion(id string) (*CustomerQuestion, error)
	UpdateCustomerQuestion(q *CustomerQuestion) error
	AddAudit(entry AuditEntry)
}

// TemplateService owns the authoring side of the catalog: templates,
// categories, and both question families. Catalog records it produces are
// read-only inputs to the engines.
type TemplateService struct {
	store TemplateStore
	now   func() time.Time
	idGen func() string
}

func NewTemplateService(store TemplateStore) *TemplateService {
	return &TemplateService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return shortID(8) },
	}
}

func (s *TemplateService) CreateTemplate(name string, kind ChecklistKind) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidError("template name required")
	}
	if kind != KindInspection && kind != KindCustomer {
		return nil, NewInvalidError("template kind must be inspection or customer")
	}
	t := &Template{ID: s.idGen(), Name: name, Kind: kind, CreatedAt: s.now()}
	if err := s.store.InsertTemplate(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) CreateCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidError("category name required")
	}
	c := &Category{ID: s.idGen(), Name: name}
	if err := s.store.InsertCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateInspectionQuestion validates and stores an inspection question with
// its readiness-tagged options. Authoring rejects what the engine would later
// report as a catalog error.
func (s *TemplateService) CreateInspectionQuestion(q *InspectionQuestion) (*InspectionQuestion, error) {
	if q == nil || strings.TrimSpace(q.Name) == "" {
		return nil, NewInvalidError("question name required")
	}
	tmpl, err := s.requireTemplate(q.TemplateID, KindInspection)
	if err != nil {
		return nil, err
	}
	if len(q.Options) == 0 {
		return nil, NewInvalidError("question needs at least one answer option")
	}
	if err := s.requireCategory(q.CategoryID); err != nil {
		return nil, err
	}
	if q.ID == "" {
		q.ID = s.idGen()
	}
	for i, opt := range q.Options {
		if opt == nil || strings.TrimSpace(opt.Description) == "" {
			return nil, NewInvalidError("answer option description required")
		}
		if !opt.Readiness.Valid() {
			return nil, NewInvalidError("answer option readiness state is unknown")
		}
		if opt.ID == "" {
			opt.ID = s.idGen()
		}
		opt.QuestionID = q.ID
		opt.SortOrder = i
	}
	if err := s.store.InsertInspectionQuestion(q); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: "author", Action: "question_create", Target: tmpl.ID, Note: q.ID})
	return q, nil
}

// CreateCustomerQuestion validates and stores a customer question with its two
// independent answer lists. Return options may pair with a delivery option by
// id; positional pairing between the lists carries no meaning.
func (s *TemplateService) CreateCustomerQuestion(q *CustomerQuestion) (*CustomerQuestion, error) {
	if q == nil || strings.TrimSpace(q.Name) == "" {
		return nil, NewInvalidError("question name required")
	}
	tmpl, err := s.requireTemplate(q.TemplateID, KindCustomer)
	if err != nil {
		return nil, err
	}
	if len(q.DeliveryAnswers) == 0 || len(q.ReturnAnswers) == 0 {
		return nil, NewInvalidError("question needs delivery and return answer options")
	}
	if err := s.requireCategory(q.CategoryID); err != nil {
		return nil, err
	}
	if q.ID == "" {
		q.ID = s.idGen()
	}
	deliveryIDs := map[string]bool{}
	for i, opt := range q.DeliveryAnswers {
		if err := s.prepareCustomerOption(opt, q.ID, i); err != nil {
			return nil, err
		}
		if opt.PairedAnswerID != "" {
			return nil, NewInvalidError("delivery options cannot carry a pairing reference")
		}
		deliveryIDs[opt.ID] = true
	}
	for i, opt := range q.ReturnAnswers {
		if err := s.prepareCustomerOption(opt, q.ID, i); err != nil {
			return nil, err
		}
		if opt.PairedAnswerID != "" && !deliveryIDs[opt.PairedAnswerID] {
			return nil, NewInvalidError("paired answer id does not reference a delivery option")
		}
	}
	for id := range q.AnswerSyncMap {
		if !deliveryIDs[id] {
			return nil, NewInvalidError("sync map key does not reference a delivery option")
		}
	}
	if err := s.store.InsertCustomerQuestion(q); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: "author", Action: "customer_question_create", Target: tmpl.ID, Note: q.ID})
	return q, nil
}

func (s *TemplateService) prepareCustomerOption(opt *CustomerAnswerOption, questionID string, order int) error {
	if opt == nil || strings.TrimSpace(opt.Description) == "" {
		return NewInvalidError("answer option description required")
	}
	if opt.Value.IsNegative() {
		return NewInvalidError("answer option value must not be negative")
	}
	if opt.ID == "" {
		opt.ID = s.idGen()
	}
	opt.QuestionID = questionID
	opt.SortOrder = order
	return nil
}

// SyncReturnDescriptions copies the delivery-side description onto every
// paired return option whose delivery option is marked in the sync map.
// Monetary values are never synchronized: the same physical item keeps
// independent stated values at delivery versus return.
func (s *TemplateService) SyncReturnDescriptions(questionID string) (*CustomerQuestion, error) {
	q, err := s.store.GetCustomerQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, NewNotFoundError("question not found")
	}
	byID := make(map[string]*CustomerAnswerOption, len(q.DeliveryAnswers))
	for _, opt := range q.DeliveryAnswers {
		if opt != nil {
			byID[opt.ID] = opt
		}
	}
	changed := false
	for _, ret := range q.ReturnAnswers {
		if ret == nil || ret.PairedAnswerID == "" || !q.AnswerSyncMap[ret.PairedAnswerID] {
			continue
		}
		src := byID[ret.PairedAnswerID]
		if src == nil || src.Description == ret.Description {
			continue
		}
		ret.Description = src.Description
		changed = true
	}
	if changed {
		if err := s.store.UpdateCustomerQuestion(q); err != nil {
			return nil, err
		}
		s.store.AddAudit(AuditEntry{Time: s.now(), Actor: "author", Action: "answer_sync", Target: q.TemplateID, Note: q.ID})
	}
	return q, nil
}

func (s *TemplateService) requireTemplate(id string, kind ChecklistKind) (*Template, error) {
	if id == "" {
		return nil, NewInvalidError("template_id required")
	}
	t, err := s.store.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, NewNotFoundError("template not found")
	}
	if t.Kind != kind {
		return nil, NewInvalidError("question kind does not match template kind")
	}
	return t, nil
}

func (s *TemplateService) requireCategory(id string) error {
	if id == "" {
		return nil // uncategorized questions are allowed
	}
	c, err := s.store.GetCategory(id)
	if err != nil {
		return err
	}
	if c == nil {
		return NewNotFoundError("category not found")
	}
	return nil
}

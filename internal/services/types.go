package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReadinessState is the equipment state an inspection answer option resolves to.
type ReadinessState string

const (
	ReadinessRentalReady     ReadinessState = "rental_ready"
	ReadinessMaintenanceHold ReadinessState = "maintenance_hold"
	ReadinessDamaged         ReadinessState = "damaged"
)

// Valid reports whether s is one of the three authored readiness states.
func (s ReadinessState) Valid() bool {
	switch s {
	case ReadinessRentalReady, ReadinessMaintenanceHold, ReadinessDamaged:
		return true
	}
	return false
}

// ItemState is the resolved state of a single checklist item. It adds
// "unanswered" on top of the authored readiness states.
type ItemState string

const (
	ItemUnanswered      ItemState = "unanswered"
	ItemRentalReady     ItemState = "rental_ready"
	ItemMaintenanceHold ItemState = "maintenance_hold"
	ItemDamaged         ItemState = "damaged"
)

// AnswerOption is one selectable answer on an inspection question.
type AnswerOption struct {
	ID          string
	QuestionID  string
	Description string
	Readiness   ReadinessState
	SortOrder   int
}

// InspectionQuestion is a catalog entry on the inspection side.
// CategoryID groups questions for display only and never affects aggregation.
type InspectionQuestion struct {
	ID         string
	TemplateID string
	CategoryID string
	Name       string
	Required   bool
	Options    []*AnswerOption
}

// InspectionResponse is one recorded answer. SelectedOptionID may reference
// an option that no longer exists in the catalog; the engine treats that as
// unanswered rather than failing.
type InspectionResponse struct {
	QuestionID       string
	SelectedOptionID string
	Notes            string
}

// CustomerAnswerOption is one selectable answer on either side of a customer
// question. PairedAnswerID links a return option to its delivery counterpart
// by id; descriptions may be synchronized across that link, monetary values
// never are.
type CustomerAnswerOption struct {
	ID             string
	QuestionID     string
	Description    string
	Value          decimal.Decimal
	SortOrder      int
	PairedAnswerID string
}

// CustomerQuestion carries two independent answer lists: one presented at
// delivery time and one at return time. AnswerSyncMap is keyed by delivery
// option id and marks which paired descriptions are kept in sync.
type CustomerQuestion struct {
	ID              string
	TemplateID      string
	CategoryID      string
	Name            string
	DeliveryText    string
	ReturnText      string
	Required        bool
	DeliveryAnswers []*CustomerAnswerOption
	ReturnAnswers   []*CustomerAnswerOption
	AnswerSyncMap   map[string]bool
}

// CustomerResponse holds the delivery-time and return-time selections for one
// customer question. Either side may be empty while the session is open.
type CustomerResponse struct {
	QuestionID       string
	DeliveryOptionID string
	ReturnOptionID   string
	DeliveryNotes    string
	ReturnNotes      string
}

// RentalPolicy is the immutable rental-period configuration used for
// hour-overage billing.
type RentalPolicy struct {
	ID                 string
	Name               string
	AllowedHours       float64
	OverageRatePerHour decimal.Decimal
}

// HoursReading is a usage-hours meter pair. End is nil until the return
// reading is taken.
type HoursReading struct {
	Start float64
	End   *float64
}

// ChecklistKind selects which engine a checklist session feeds.
type ChecklistKind string

const (
	KindInspection ChecklistKind = "inspection"
	KindCustomer   ChecklistKind = "customer"
)

// ChecklistStatus is the session state machine. Finalized states are terminal.
type ChecklistStatus string

const (
	StatusDraft             ChecklistStatus = "draft"
	StatusFinalizedReady    ChecklistStatus = "finalized_ready"
	StatusFinalizedDamaged  ChecklistStatus = "finalized_damaged"
	StatusFinalizedDelivery ChecklistStatus = "finalized_delivery"
	StatusFinalizedReturn   ChecklistStatus = "finalized_return"
)

// Finalized reports whether the status is terminal.
func (s ChecklistStatus) Finalized() bool { return s != StatusDraft }

// Checklist is one inspection or handoff session against a template.
// PreviousID links a revision back to the finalized checklist it replaces.
type Checklist struct {
	ID            string
	TemplateID    string
	EquipmentID   string
	Kind          ChecklistKind
	Status        ChecklistStatus
	PolicyID      string
	InspectorName string
	Hours         HoursReading
	PreviousID    string
	CreatedAt     time.Time
	FinalizedAt   *time.Time
}

// Template is an authored checklist layout.
type Template struct {
	ID        string
	Name      string
	Kind      ChecklistKind
	CreatedAt time.Time
}

// Category is a display grouping for questions.
type Category struct {
	ID   string
	Name string
}

type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}

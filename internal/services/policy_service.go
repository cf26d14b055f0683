package services

import "strings"

// PolicyStore abstracts persistence operations required by PolicyService.
type PolicyStore interface {
	InsertPolicy(p *RentalPolicy) error
	GetPolicy(id string) (*RentalPolicy, error)
	ListPolicies() ([]*RentalPolicy, error)
}

// PolicyService manages rental period policies. Policies are configuration
// records, never derived, and are read-only inputs to the cost engine.
type PolicyService struct {
	store PolicyStore
	idGen func() string
}

func NewPolicyService(store PolicyStore) *PolicyService {
	return &PolicyService{store: store, idGen: func() string { return shortID(8) }}
}

func (s *PolicyService) CreatePolicy(p *RentalPolicy) (*RentalPolicy, error) {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return nil, NewInvalidError("policy name required")
	}
	if p.AllowedHours < 0 {
		return nil, NewInvalidError("allowed hours must not be negative")
	}
	if p.OverageRatePerHour.IsNegative() {
		return nil, NewInvalidError("overage rate must not be negative")
	}
	if p.ID == "" {
		p.ID = s.idGen()
	}
	if err := s.store.InsertPolicy(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PolicyService) GetPolicy(id string) (*RentalPolicy, error) {
	if id == "" {
		return nil, NewInvalidError("policy id required")
	}
	p, err := s.store.GetPolicy(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError("policy not found")
	}
	return p, nil
}

func (s *PolicyService) ListPolicies() ([]*RentalPolicy, error) {
	return s.store.ListPolicies()
}

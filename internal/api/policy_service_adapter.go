package api

import "github.com/rentalworks/gearcheck/internal/services"

type policyStoreAdapter struct {
	store Store
}

func newPolicyStoreAdapter(store Store) services.PolicyStore {
	return &policyStoreAdapter{store: store}
}

func (a *policyStoreAdapter) InsertPolicy(p *services.RentalPolicy) error {
	a.store.AddPolicy(fromServicePolicy(p))
	return nil
}

func (a *policyStoreAdapter) GetPolicy(id string) (*services.RentalPolicy, error) {
	return toServicePolicy(a.store.GetPolicy(id)), nil
}

func (a *policyStoreAdapter) ListPolicies() ([]*services.RentalPolicy, error) {
	ps := a.store.ListPolicies()
	out := make([]*services.RentalPolicy, 0, len(ps))
	for _, p := range ps {
		out = append(out, toServicePolicy(p))
	}
	return out, nil
}

var _ services.PolicyStore = (*policyStoreAdapter)(nil)

func toServicePolicy(p *RentalPolicy) *services.RentalPolicy {
	if p == nil {
		return nil
	}
	return &services.RentalPolicy{
		ID:                 p.ID,
		Name:               p.Name,
		AllowedHours:       p.AllowedHours,
		OverageRatePerHour: p.OverageRatePerHour,
	}
}

func fromServicePolicy(p *services.RentalPolicy) *RentalPolicy {
	return &RentalPolicy{
		ID:                 p.ID,
		Name:               p.Name,
		AllowedHours:       p.AllowedHours,
		OverageRatePerHour: p.OverageRatePerHour,
	}
}

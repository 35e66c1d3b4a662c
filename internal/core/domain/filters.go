package domain

// FilterSet holds the selection criteria for a revenue query. It is a value
// type compared by deep equality; cache keys are derived from its canonical
// JSON form, so all fields must marshal deterministically.
type FilterSet struct {
	DateRange            DateRange       `json:"date_range"`
	Companies            CompanyFilter   `json:"companies"`
	PaymentMethodIDs     []int64         `json:"payment_method_ids,omitempty"`
	RevenueSources       map[string]bool `json:"revenue_sources,omitempty"`
	CommissionTypes      map[string]bool `json:"commission_types,omitempty"`
	AmountRange          AmountRange     `json:"amount_range"`
	EmployeeIDs          []int64         `json:"employee_ids,omitempty"`
	ReferralPartnerIDs   []int64         `json:"referral_partner_ids,omitempty"`
	DisbursementStatuses []string        `json:"disbursement_statuses,omitempty"`
}

// DateRange bounds record creation time, inclusive. Empty strings mean
// unbounded. Dates are ISO YYYY-MM-DD.
type DateRange struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// CompanyFilter selects specific companies. An empty selection means all
// companies, which also switches the pie transform to payment-method
// grouping.
type CompanyFilter struct {
	SelectedCompanies []string `json:"selected_companies,omitempty"`
}

// HasSelection reports whether at least one company is selected.
func (f CompanyFilter) HasSelection() bool {
	return len(f.SelectedCompanies) > 0
}

// AmountRange bounds the transaction amount. Nil means unbounded.
type AmountRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

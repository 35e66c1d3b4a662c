package cache

import (
	"testing"

	"github.com/revlens/revlens/internal/core/domain"
)

func TestKeyIsOrderIndependent(t *testing.T) {
	// Same semantic filters, maps populated in different orders.
	a := domain.FilterSet{
		Companies:       domain.CompanyFilter{SelectedCompanies: []string{"Acme", "Globex"}},
		RevenueSources:  map[string]bool{"online": true, "retail": false},
		CommissionTypes: map[string]bool{"employee": true, "referral": true},
	}

	b := domain.FilterSet{
		CommissionTypes: map[string]bool{"referral": true, "employee": true},
		RevenueSources:  map[string]bool{"retail": false, "online": true},
		Companies:       domain.CompanyFilter{SelectedCompanies: []string{"Acme", "Globex"}},
	}

	keyA := Key("records", domain.FetchRequest{Filters: a, Page: 1, PageSize: 50})
	keyB := Key("records", domain.FetchRequest{Filters: b, Page: 1, PageSize: 50})
	if keyA != keyB {
		t.Errorf("keys differ for semantically equal requests:\n%s\n%s", keyA, keyB)
	}
}

func TestKeyDistinguishesRequests(t *testing.T) {
	base := domain.FetchRequest{Page: 1, PageSize: 50}

	variants := []domain.FetchRequest{
		{Page: 2, PageSize: 50},
		{Page: 1, PageSize: 25},
		{Page: 1, PageSize: 50, SortField: "amount"},
		{Page: 1, PageSize: 50, Chunked: true},
		{Page: 1, PageSize: 50, Filters: domain.FilterSet{
			Companies: domain.CompanyFilter{SelectedCompanies: []string{"Acme"}},
		}},
	}

	baseKey := Key("records", base)
	for i, v := range variants {
		if Key("records", v) == baseKey {
			t.Errorf("variant %d collides with base key", i)
		}
	}

	if Key("records", base) != Key("records", base) {
		t.Error("key is not deterministic")
	}
	if Key("records", base) == Key("summary", base) {
		t.Error("endpoint must be part of the key")
	}
}

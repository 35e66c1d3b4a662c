package transform

import (
	"reflect"
	"testing"
	"time"

	"github.com/revlens/revlens/internal/core/domain"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 10, 30, 0, 0, time.UTC)
}

func sampleRecords() []domain.RevenueRecord {
	return []domain.RevenueRecord{
		{ID: "1", Company: "A", PaymentMethod: "card", CombinedRevenue: 100, VendorCost: 20, EmployeeCommission: 10, ReferralCommission: 5, NetProfit: 65, CreatedAt: day(1)},
		{ID: "2", Company: "A", PaymentMethod: "ach", CombinedRevenue: 50, VendorCost: 10, EmployeeCommission: 5, ReferralCommission: 0, NetProfit: 35, CreatedAt: day(2)},
		{ID: "3", Company: "B", PaymentMethod: "card", CombinedRevenue: 30, VendorCost: 5, EmployeeCommission: 2, ReferralCommission: 3, NetProfit: 20, CreatedAt: day(1)},
	}
}

func TestPieGroupsByPaymentMethodWithoutCompanyFilter(t *testing.T) {
	got := Pie(sampleRecords(), domain.FilterSet{})

	want := []PieSlice{
		{Name: "card", Value: 130, Revenue: 130, Transactions: 2},
		{Name: "ach", Value: 50, Revenue: 50, Transactions: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pie = %+v, want %+v", got, want)
	}
}

func TestPieGroupsByCompanyWhenSelected(t *testing.T) {
	filters := domain.FilterSet{
		Companies: domain.CompanyFilter{SelectedCompanies: []string{"A"}},
	}
	got := Pie(sampleRecords(), filters)

	want := []PieSlice{
		{Name: "A", Value: 150, Revenue: 150, Transactions: 2},
		{Name: "B", Value: 30, Revenue: 30, Transactions: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pie = %+v, want %+v", got, want)
	}
}

func TestBarBucketsByDateAscending(t *testing.T) {
	got := Bar(sampleRecords())

	want := []BarBucket{
		{Date: "2026-03-01", Revenue: 130, Transactions: 2, Commission: 20},
		{Date: "2026-03-02", Revenue: 50, Transactions: 1, Commission: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("bar = %+v, want %+v", got, want)
	}
}

func TestLineTracksNetProfit(t *testing.T) {
	got := Line(sampleRecords())

	if len(got) != 2 {
		t.Fatalf("buckets = %d, want 2", len(got))
	}
	if got[0].Date != "2026-03-01" || got[1].Date != "2026-03-02" {
		t.Errorf("dates = %s, %s", got[0].Date, got[1].Date)
	}
	if got[0].NetProfit != 85 {
		t.Errorf("net profit day1 = %v, want 85", got[0].NetProfit)
	}
}

func TestWaterfallFixedShape(t *testing.T) {
	records := sampleRecords()
	got := Waterfall(records)

	if len(got) != 5 {
		t.Fatalf("steps = %d, want exactly 5", len(got))
	}

	wantNames := []string{"Gross Revenue", "Vendor Cost", "Employee Commission", "Referral Commission", "Net Profit"}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("step %d = %q, want %q", i, got[i].Name, name)
		}
	}

	if got[0].Value != 180 {
		t.Errorf("gross = %v, want 180", got[0].Value)
	}
	for i := 1; i <= 3; i++ {
		if got[i].Value > 0 {
			t.Errorf("step %d = %v, want a non-positive delta", i, got[i].Value)
		}
	}

	// Start plus the three deltas sums algebraically to net profit.
	sum := got[0].Value + got[1].Value + got[2].Value + got[3].Value
	if sum != got[4].Value {
		t.Errorf("algebraic sum = %v, end value = %v", sum, got[4].Value)
	}
	if got[4].Value != 120 {
		t.Errorf("net = %v, want 120", got[4].Value)
	}
}

func TestWaterfallEmptyInput(t *testing.T) {
	got := Waterfall(nil)
	if len(got) != 5 {
		t.Fatalf("steps = %d, want 5 even for empty input", len(got))
	}
	for _, step := range got {
		if step.Value != 0 {
			t.Errorf("step %s = %v, want 0", step.Name, step.Value)
		}
	}
}

func TestTableProjection(t *testing.T) {
	got := Table(sampleRecords())

	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3 (1:1 projection)", len(got))
	}
	first := got[0]
	if first.ID != "1" || first.Company != "A" || first.PaymentMethod != "card" {
		t.Errorf("row = %+v", first)
	}
	if first.Commission != 15 {
		t.Errorf("commission = %v, want employee+referral = 15", first.Commission)
	}
	if first.Profit != 65 || first.Revenue != 100 {
		t.Errorf("row = %+v", first)
	}
}

func TestTransformDispatchAndFallback(t *testing.T) {
	records := sampleRecords()

	if _, ok := Transform(KindPie, records, domain.FilterSet{}).([]PieSlice); !ok {
		t.Error("pie dispatch broken")
	}
	if _, ok := Transform(KindWaterfall, records, domain.FilterSet{}).([]WaterfallStep); !ok {
		t.Error("waterfall dispatch broken")
	}

	// Unknown kinds are an identity fallback, not an error.
	out, ok := Transform("sankey", records, domain.FilterSet{}).([]domain.RevenueRecord)
	if !ok {
		t.Fatal("unknown kind must return the input records")
	}
	if !reflect.DeepEqual(out, records) {
		t.Error("identity fallback altered the records")
	}
}

func TestTransformersArePure(t *testing.T) {
	records := sampleRecords()
	snapshot := make([]domain.RevenueRecord, len(records))
	copy(snapshot, records)

	Pie(records, domain.FilterSet{})
	Bar(records)
	Line(records)
	Waterfall(records)
	Table(records)

	if !reflect.DeepEqual(records, snapshot) {
		t.Error("a transformer mutated its input")
	}

	a := Pie(records, domain.FilterSet{})
	b := Pie(records, domain.FilterSet{})
	if !reflect.DeepEqual(a, b) {
		t.Error("pie transform is not deterministic")
	}
}

func TestTransformersEmptyInput(t *testing.T) {
	if got := Pie(nil, domain.FilterSet{}); len(got) != 0 {
		t.Errorf("pie(nil) = %+v", got)
	}
	if got := Bar(nil); len(got) != 0 {
		t.Errorf("bar(nil) = %+v", got)
	}
	if got := Line(nil); len(got) != 0 {
		t.Errorf("line(nil) = %+v", got)
	}
	if got := Table(nil); len(got) != 0 {
		t.Errorf("table(nil) = %+v", got)
	}
}

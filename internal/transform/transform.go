// Package transform reshapes flat record lists into chart-ready series.
//
// Every function here is pure: the input slice is never mutated and the
// same records always produce the same output. Empty input produces an
// empty (non-nil) result, never an error.
package transform

import (
	"sort"
	"time"

	"github.com/revlens/revlens/internal/core/domain"
)

// Kind selects a target visualization shape.
type Kind string

const (
	KindPie       Kind = "pie"
	KindBar       Kind = "bar"
	KindLine      Kind = "line"
	KindWaterfall Kind = "waterfall"
	KindTable     Kind = "table"
)

// PieSlice is one wedge of a pie chart, grouped by company or payment
// method.
type PieSlice struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

// BarBucket is one calendar-date bucket of a bar chart.
type BarBucket struct {
	Date         string  `json:"date"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
	Commission   float64 `json:"commission"`
}

// LinePoint is one date bucket of a line chart, additionally tracking net
// profit.
type LinePoint struct {
	Date         string  `json:"date"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
	Commission   float64 `json:"commission"`
	NetProfit    float64 `json:"net_profit"`
}

// WaterfallStep is one row of the fixed five-step revenue decomposition.
type WaterfallStep struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// TableRow is the tabular projection of a record, no aggregation.
type TableRow struct {
	ID            string    `json:"id"`
	Company       string    `json:"company"`
	PaymentMethod string    `json:"payment_method"`
	Amount        float64   `json:"amount"`
	Revenue       float64   `json:"revenue"`
	Commission    float64   `json:"commission"`
	Profit        float64   `json:"profit"`
	CreatedAt     time.Time `json:"created_at"`
	Status        string    `json:"status"`
}

// Transform dispatches to the shape for kind. Unknown kinds return the
// input records unchanged (identity fallback), never an error.
func Transform(kind Kind, records []domain.RevenueRecord, filters domain.FilterSet) any {
	switch kind {
	case KindPie:
		return Pie(records, filters)
	case KindBar:
		return Bar(records)
	case KindLine:
		return Line(records)
	case KindWaterfall:
		return Waterfall(records)
	case KindTable:
		return Table(records)
	default:
		return records
	}
}

// Pie groups records by company when at least one company is selected in
// the filters, otherwise by payment method. Slices are sorted descending
// by value, ties broken by name for determinism.
func Pie(records []domain.RevenueRecord, filters domain.FilterSet) []PieSlice {
	byCompany := filters.Companies.HasSelection()

	groups := make(map[string]*PieSlice)
	order := make([]string, 0)

	for _, r := range records {
		name := r.PaymentMethod
		if byCompany {
			name = r.Company
		}

		g, ok := groups[name]
		if !ok {
			g = &PieSlice{Name: name}
			groups[name] = g
			order = append(order, name)
		}
		g.Value += r.CombinedRevenue
		g.Revenue += r.CombinedRevenue
		g.Transactions++
	}

	out := make([]PieSlice, 0, len(order))
	for _, name := range order {
		out = append(out, *groups[name])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Bar groups records by calendar date of creation, ascending. Dates are
// bucketed by ISO date (UTC) so buckets sort correctly and do not depend
// on the host locale.
func Bar(records []domain.RevenueRecord) []BarBucket {
	groups := make(map[string]*BarBucket)

	for _, r := range records {
		date := isoDate(r.CreatedAt)
		g, ok := groups[date]
		if !ok {
			g = &BarBucket{Date: date}
			groups[date] = g
		}
		g.Revenue += r.CombinedRevenue
		g.Transactions++
		g.Commission += r.Commission()
	}

	out := make([]BarBucket, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Line groups records by ISO date ascending, additionally summing net
// profit per bucket.
func Line(records []domain.RevenueRecord) []LinePoint {
	groups := make(map[string]*LinePoint)

	for _, r := range records {
		date := isoDate(r.CreatedAt)
		g, ok := groups[date]
		if !ok {
			g = &LinePoint{Date: date}
			groups[date] = g
		}
		g.Revenue += r.CombinedRevenue
		g.Transactions++
		g.Commission += r.Commission()
		g.NetProfit += r.NetProfit
	}

	out := make([]LinePoint, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Waterfall decomposes gross revenue into cost and commission deductions
// ending at net profit. The result always has exactly five rows in fixed
// order regardless of input size; each value is a sum over the whole
// record set.
func Waterfall(records []domain.RevenueRecord) []WaterfallStep {
	var gross, vendor, employee, referral, net float64
	for _, r := range records {
		gross += r.CombinedRevenue
		vendor += r.VendorCost
		employee += r.EmployeeCommission
		referral += r.ReferralCommission
		net += r.NetProfit
	}

	return []WaterfallStep{
		{Name: "Gross Revenue", Value: gross},
		{Name: "Vendor Cost", Value: -vendor},
		{Name: "Employee Commission", Value: -employee},
		{Name: "Referral Commission", Value: -referral},
		{Name: "Net Profit", Value: net},
	}
}

// Table projects records 1:1 into the fixed tabular field subset.
func Table(records []domain.RevenueRecord) []TableRow {
	out := make([]TableRow, 0, len(records))
	for _, r := range records {
		out = append(out, TableRow{
			ID:            r.ID,
			Company:       r.Company,
			PaymentMethod: r.PaymentMethod,
			Amount:        r.Amount,
			Revenue:       r.CombinedRevenue,
			Commission:    r.Commission(),
			Profit:        r.NetProfit,
			CreatedAt:     r.CreatedAt,
			Status:        r.Status,
		})
	}
	return out
}

// isoDate buckets a timestamp by UTC calendar day.
func isoDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

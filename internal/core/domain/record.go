package domain

import "time"

// RevenueRecord represents one row of revenue analytics data as returned
// by the reporting endpoint.
type RevenueRecord struct {
	ID                 string    `json:"id"`
	Company            string    `json:"company"`
	PaymentMethod      string    `json:"payment_method"`
	Status             string    `json:"status"`
	Amount             float64   `json:"amount"`
	CombinedRevenue    float64   `json:"Total_Combined_Revenue"`
	VendorCost         float64   `json:"Total_Vendor_Cost"`
	EmployeeCommission float64   `json:"Total_Employee_Commission"`
	ReferralCommission float64   `json:"Total_Referral_Commission"`
	NetProfit          float64   `json:"Net_Profit"`
	CreatedAt          time.Time `json:"created_at"`
}

// Commission returns the total commission paid out for the record.
func (r RevenueRecord) Commission() float64 {
	return r.EmployeeCommission + r.ReferralCommission
}

// Pagination describes the page window the endpoint returned.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalRows  int `json:"total_rows"`
	TotalPages int `json:"total_pages"`
}

// CloneRecords returns an independent copy of a record slice. Records are
// value types, so copying the slice is enough.
func CloneRecords(records []RevenueRecord) []RevenueRecord {
	if records == nil {
		return nil
	}
	out := make([]RevenueRecord, len(records))
	copy(out, records)
	return out
}

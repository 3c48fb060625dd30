package dto

import (
	"time"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
)

// ChargeInputDTO is one fixed-category charge line on a billing request.
// Rate is a string parsed leniently (unparseable means zero, which drops the
// category); Days overrides the stay-wide default duration when set.
type ChargeInputDTO struct {
	Rate string `json:"rate"`
	Days *int   `json:"days,omitempty"`
}

// CustomChargeInputDTO is one ad-hoc operator-entered charge line.
type CustomChargeInputDTO struct {
	Description string `json:"description"`
	Rate        string `json:"rate"`
	Days        *int   `json:"days,omitempty"`
}

// CreateOPDReceiptRequest bills an outpatient visit. DiscountPercent is
// converted to an absolute amount here in the OPD flow before the calculator
// sees it.
type CreateOPDReceiptRequest struct {
	DoctorName      string `json:"doctorName"`
	ConsultationFee string `json:"consultationFee" binding:"required"`
	DiscountPercent string `json:"discountPercent"`
	AmountPaid      string `json:"amountPaid" binding:"required"`
	Notes           string `json:"notes"`
}

// CreateIPDBillRequest produces the itemized discharge bill for the patient's
// current admission. Discount is an absolute amount in the IPD flow. The
// advance is not supplied: it is the live total of the admission's active
// deposits.
type CreateIPDBillRequest struct {
	Charges       map[string]ChargeInputDTO `json:"charges"`
	CustomCharges []CustomChargeInputDTO    `json:"customCharges"`
	Discount      string                    `json:"discount"`
	AmountPaid    string                    `json:"amountPaid" binding:"required"`
}

// CreateFinalReceiptRequest settles an outstanding balance with no new charges.
type CreateFinalReceiptRequest struct {
	AmountPaid string `json:"amountPaid" binding:"required"`
	Notes      string `json:"notes"`
}

// ListBillsParams defines query parameters for listing bills.
type ListBillsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ChargeCategoryResponse is the API representation of one computed charge line.
type ChargeCategoryResponse struct {
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Rate        string `json:"rate"`
	Days        int    `json:"days"`
	Total       string `json:"total"`
	IsCustom    bool   `json:"isCustom"`
}

// BillResponse is the API representation of a bill.
type BillResponse struct {
	BillID       string                            `json:"billID"`
	BillNo       int64                             `json:"billNo"`
	BillNumber   string                            `json:"billNumber"`
	BillType     string                            `json:"billType"`
	PatientID    string                            `json:"patientID"`
	OPDNumber    *int64                            `json:"opdNumber,omitempty"`
	AdmissionID  *string                           `json:"admissionID,omitempty"`
	Charges      map[string]ChargeCategoryResponse `json:"charges"`
	TotalCharges string                            `json:"totalCharges"`
	Discount     string                            `json:"discount"`
	Advance      string                            `json:"advance"`
	FinalAmount  string                            `json:"finalAmount"`
	AmountPaid   string                            `json:"amountPaid"`
	DocumentLink *string                           `json:"documentLink,omitempty"`
	CreatedAt    time.Time                         `json:"createdAt"`
}

// ListBillsResponse wraps a paginated bill listing.
type ListBillsResponse struct {
	Bills     []BillResponse `json:"bills"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// BalanceAuditResponse reports drift between the stored running balance and
// the balance re-derived from the settlement history.
type BalanceAuditResponse struct {
	PatientID         string `json:"patientID"`
	StoredPending     string `json:"storedPending"`
	RecomputedPending string `json:"recomputedPending"`
	Drift             string `json:"drift"`
	Consistent        bool   `json:"consistent"`
}

// ToBillResponse converts a domain.Bill to its API representation.
func ToBillResponse(b *domain.Bill) BillResponse {
	charges := make(map[string]ChargeCategoryResponse, len(b.Charges))
	for key, c := range b.Charges {
		charges[key] = ChargeCategoryResponse{
			Description: c.Description,
			Kind:        string(c.Kind),
			Rate:        c.Rate.StringFixed(2),
			Days:        c.Days,
			Total:       c.Total.StringFixed(2),
			IsCustom:    c.IsCustom,
		}
	}
	return BillResponse{
		BillID:       b.BillID,
		BillNo:       b.BillNo,
		BillNumber:   b.BillNumber,
		BillType:     string(b.BillType),
		PatientID:    b.PatientID,
		OPDNumber:    b.OPDNumber,
		AdmissionID:  b.AdmissionID,
		Charges:      charges,
		TotalCharges: b.Calculation.TotalCharges.StringFixed(2),
		Discount:     b.Calculation.Discount.StringFixed(2),
		Advance:      b.Calculation.Advance.StringFixed(2),
		FinalAmount:  b.Calculation.FinalAmount.StringFixed(2),
		AmountPaid:   b.AmountPaid.StringFixed(2),
		DocumentLink: b.DocumentLink,
		CreatedAt:    b.CreatedAt,
	}
}

// ToListBillsResponse converts a bill slice plus pagination token to the list DTO.
func ToListBillsResponse(bills []domain.Bill, nextToken *string) ListBillsResponse {
	responses := make([]BillResponse, len(bills))
	for i := range bills {
		responses[i] = ToBillResponse(&bills[i])
	}
	return ListBillsResponse{Bills: responses, NextToken: nextToken}
}

package domain

import "github.com/shopspring/decimal"

// ChargeKind tags a charge category for grouping on rendered bills.
type ChargeKind string

const (
	KindAccommodation ChargeKind = "ACCOMMODATION"
	KindTreatment     ChargeKind = "TREATMENT"
	KindDiagnostic    ChargeKind = "DIAGNOSTIC"
	KindConsultation  ChargeKind = "CONSULTATION"
	KindOther         ChargeKind = "OTHER"
)

// ChargeInput is the caller-supplied rate and optional duration for one category.
// A nil Days means "bill for the stay-wide default duration"; an explicit value
// overrides it (e.g. a one-time surgeon fee billed for 1 day of a 5-day stay).
type ChargeInput struct {
	Rate decimal.Decimal `json:"rate"`
	Days *int            `json:"days,omitempty"`
}

// CustomChargeInput is an ad-hoc, operator-entered billable line item.
type CustomChargeInput struct {
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	Days        *int            `json:"days,omitempty"`
}

// ChargeCategory is one computed billable line item: Total = Rate * Days.
type ChargeCategory struct {
	Description string          `json:"description"`
	Kind        ChargeKind      `json:"kind"`
	Rate        decimal.Decimal `json:"rate"`
	Days        int             `json:"days"`
	Total       decimal.Decimal `json:"total"`
	IsCustom    bool            `json:"isCustom"`
}

// ChargeCategoryDef describes a known fixed charge category.
type ChargeCategoryDef struct {
	Description string
	Kind        ChargeKind
}

// KnownChargeCategories is the fixed charge-category table. Keys match the
// charge map keys accepted on billing requests; anything else must go through
// the custom-charge path.
var KnownChargeCategories = map[string]ChargeCategoryDef{
	"generalWard":      {Description: "General Ward Charges", Kind: KindAccommodation},
	"privateRoom":      {Description: "Private Room Charges", Kind: KindAccommodation},
	"icu":              {Description: "ICU Charges", Kind: KindAccommodation},
	"nursingCharges":   {Description: "Nursing Charges", Kind: KindTreatment},
	"doctorVisit":      {Description: "Doctor Visit Charges", Kind: KindConsultation},
	"consultation":     {Description: "Consultation Charges", Kind: KindConsultation},
	"surgeonFee":       {Description: "Surgeon Fee", Kind: KindTreatment},
	"operationTheatre": {Description: "Operation Theatre Charges", Kind: KindTreatment},
	"oxygen":           {Description: "Oxygen Charges", Kind: KindTreatment},
	"physiotherapy":    {Description: "Physiotherapy Charges", Kind: KindTreatment},
	"ecg":              {Description: "ECG Charges", Kind: KindDiagnostic},
	"xray":             {Description: "X-Ray Charges", Kind: KindDiagnostic},
	"labTests":         {Description: "Laboratory Tests", Kind: KindDiagnostic},
	"medicines":        {Description: "Medicine Charges", Kind: KindTreatment},
	"ambulance":        {Description: "Ambulance Charges", Kind: KindOther},
	"registration":     {Description: "Registration Charges", Kind: KindOther},
}

// BillCalculation is the derived money summary of a bill.
// FinalAmount is never negative, however large discount+advance is.
type BillCalculation struct {
	TotalCharges decimal.Decimal `json:"totalCharges"`
	Discount     decimal.Decimal `json:"discount"`
	Advance      decimal.Decimal `json:"advance"`
	FinalAmount  decimal.Decimal `json:"finalAmount"`
}

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
)

func testPatient() *domain.Patient {
	return &domain.Patient{
		PatientID:     "patient-1",
		PatientNumber: "PAT000042",
		Name:          "Asha Verma",
		Phone:         "9876543210",
	}
}

func TestRenderBill_FormatsMoneyAndDate(t *testing.T) {
	r := NewHTMLRenderer("City Hospital", "12 MG Road, Pune")

	bill := &domain.Bill{
		BillNumber: "IPD26030001",
		BillNo:     17,
		BillType:   domain.BillTypeIPD,
		PatientID:  "patient-1",
		Charges: map[string]domain.ChargeCategory{
			"bedCharges": {
				Description: "Bed Charges",
				Rate:        decimal.NewFromInt(1500),
				Days:        3,
				Total:       decimal.NewFromInt(4500),
			},
		},
		Calculation: domain.BillCalculation{
			TotalCharges: decimal.NewFromInt(4500),
			Discount:     decimal.NewFromInt(500),
			Advance:      decimal.NewFromInt(1000),
			FinalAmount:  decimal.NewFromInt(3000),
		},
		AmountPaid: decimal.RequireFromString("2999.50"),
	}
	bill.CreatedAt = time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)

	admission := &domain.Admission{
		AdmissionID: "admission-1",
		IPDNumber:   9,
		WardType:    "GENERAL",
	}

	out, err := r.RenderBill(bill, testPatient(), admission)
	assert.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "City Hospital")
	assert.Contains(t, html, "IPD26030001")
	assert.Contains(t, html, "Asha Verma")
	assert.Contains(t, html, "1500.00", "rates should render with two decimal places")
	assert.Contains(t, html, "2999.50")
	assert.Contains(t, html, "15 Mar 2026", "bill date should be human readable")
	assert.Contains(t, html, "Discharge Bill")
}

func TestRenderBill_OPDWithoutAdmission(t *testing.T) {
	r := NewHTMLRenderer("City Hospital", "12 MG Road, Pune")

	bill := &domain.Bill{
		BillNumber: "OPD26030001",
		BillNo:     3,
		BillType:   domain.BillTypeOPD,
		Calculation: domain.BillCalculation{
			TotalCharges: decimal.NewFromInt(300),
			FinalAmount:  decimal.NewFromInt(300),
		},
		AmountPaid: decimal.NewFromInt(300),
	}
	bill.CreatedAt = time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)

	out, err := r.RenderBill(bill, testPatient(), nil)
	assert.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "OPD Receipt")
	assert.NotContains(t, html, "IPD No.")
	assert.NotContains(t, html, "Discount", "zero discount should not render a row")
}

func TestRenderBill_OrdersCustomChargesLast(t *testing.T) {
	r := NewHTMLRenderer("City Hospital", "12 MG Road, Pune")

	bill := &domain.Bill{
		BillNumber: "IPD26030002",
		BillType:   domain.BillTypeIPD,
		Charges: map[string]domain.ChargeCategory{
			"custom_ambulance": {
				Description: "Ambulance",
				Total:       decimal.NewFromInt(800),
				IsCustom:    true,
			},
			"nursingCharges": {
				Description: "Nursing Charges",
				Total:       decimal.NewFromInt(1200),
			},
		},
	}

	out, err := r.RenderBill(bill, testPatient(), nil)
	assert.NoError(t, err)

	html := string(out)
	assert.Less(t, strings.Index(html, "Nursing Charges"), strings.Index(html, "Ambulance"),
		"fixed categories should render before custom ones")
}

func TestRenderDepositReceipt_FormatsMoneyAndDate(t *testing.T) {
	r := NewHTMLRenderer("City Hospital", "12 MG Road, Pune")

	deposit := &domain.DepositReceipt{
		ReceiptID:        "DEP-ABC123-02-4F2A1B",
		SequenceNumber:   2,
		Amount:           decimal.RequireFromString("2500.75"),
		CumulativeAmount: decimal.RequireFromString("4000.75"),
		PaymentMode:      "UPI",
	}
	deposit.CreatedAt = time.Date(2026, 4, 1, 9, 15, 0, 0, time.UTC)

	out, err := r.RenderDepositReceipt(deposit, testPatient())
	assert.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "DEP-ABC123-02-4F2A1B")
	assert.Contains(t, html, "2500.75")
	assert.Contains(t, html, "4000.75")
	assert.Contains(t, html, "01 Apr 2026")
	assert.Contains(t, html, "UPI")
}

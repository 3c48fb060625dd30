package billing

import (
	"github.com/hspware/hospital_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ParseAmount leniently parses an operator-entered amount string into a
// decimal, defaulting to zero when empty or unparseable. Discounts and
// advances arrive from free-form form fields; a bad value means "no discount",
// not an error.
func ParseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SumChargeTotals sums the Total of every charge category, fixed and custom.
func SumChargeTotals(charges map[string]domain.ChargeCategory) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range charges {
		sum = sum.Add(c.Total)
	}
	return sum
}

// CalculateBillTotals folds a discount and an advance into the charges total.
// Discount is an absolute amount here; percentage-to-amount conversion happens
// at the call site. FinalAmount is clamped at zero.
func CalculateBillTotals(charges map[string]domain.ChargeCategory, discount, advance decimal.Decimal) domain.BillCalculation {
	total := SumChargeTotals(charges)
	final := total.Sub(discount).Sub(advance)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return domain.BillCalculation{
		TotalCharges: total,
		Discount:     discount,
		Advance:      advance,
		FinalAmount:  final,
	}
}

// ComputeSettlement applies one payment event to the running balance. This is
// the single authoritative formula behind every pendingAmount update; any
// direct mutation of the patient balance elsewhere is a bug.
//
// Overpayment (amountPaid > totalDue) drives RawRemaining negative; the
// pending amount is clamped at zero and the excess is not tracked as credit.
func ComputeSettlement(previousRemaining, currentCharge, amountPaid decimal.Decimal) domain.Settlement {
	totalDue := previousRemaining.Add(currentCharge)
	rawRemaining := totalDue.Sub(amountPaid)
	pending := rawRemaining
	if pending.IsNegative() {
		pending = decimal.Zero
	}
	return domain.Settlement{
		PreviousRemaining: previousRemaining,
		CurrentCharge:     currentCharge,
		AmountPaid:        amountPaid,
		TotalDue:          totalDue,
		RawRemaining:      rawRemaining,
		PendingAmount:     pending,
		Discharged:        !rawRemaining.IsPositive(),
	}
}

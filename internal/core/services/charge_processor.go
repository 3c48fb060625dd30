package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

func decimalFromInt(i int) decimal.Decimal {
	return decimal.NewFromInt(int64(i))
}

var chargeKeySanitizer = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// ProcessCharges computes per-category totals for the fixed charge categories.
// Categories absent from the input, unknown to the category table, or with a
// non-positive rate are omitted from the output entirely; display policy for
// "N/A" rows belongs to the renderer, not here.
//
// defaultDuration (typically the length of stay in days) applies when a
// category carries no explicit day count, so a one-time surgeon fee can be
// billed for 1 day even when the stay-wide default is 5.
func ProcessCharges(inputs map[string]domain.ChargeInput, defaultDuration int) map[string]domain.ChargeCategory {
	if defaultDuration < 0 {
		defaultDuration = 0
	}

	out := make(map[string]domain.ChargeCategory)
	for key, input := range inputs {
		def, known := domain.KnownChargeCategories[key]
		if !known {
			continue
		}
		if !input.Rate.IsPositive() {
			continue
		}

		days := defaultDuration
		if input.Days != nil {
			days = *input.Days
			if days < 0 {
				days = 0
			}
		}

		out[key] = domain.ChargeCategory{
			Description: def.Description,
			Kind:        def.Kind,
			Rate:        input.Rate,
			Days:        days,
			Total:       input.Rate.Mul(decimalFromInt(days)),
		}
	}
	return out
}

// ProcessCustomCharges computes totals for ad-hoc operator-entered charges.
// Entries missing a description or a positive rate are silently skipped: this
// is a deliberately lenient contract for free-form operator input, not an
// error path. Days default to 1. Keys combine the list index with a sanitized
// description so duplicate descriptions cannot collide.
func ProcessCustomCharges(inputs []domain.CustomChargeInput) map[string]domain.ChargeCategory {
	out := make(map[string]domain.ChargeCategory)
	for i, input := range inputs {
		description := strings.TrimSpace(input.Description)
		if description == "" || !input.Rate.IsPositive() {
			continue
		}

		days := 1
		if input.Days != nil && *input.Days > 0 {
			days = *input.Days
		}

		key := customChargeKey(i, description)
		out[key] = domain.ChargeCategory{
			Description: description,
			Kind:        domain.KindOther,
			Rate:        input.Rate,
			Days:        days,
			Total:       input.Rate.Mul(decimalFromInt(days)),
			IsCustom:    true,
		}
	}
	return out
}

// MergeCharges combines fixed and custom charge maps into one. Custom keys are
// index-prefixed and cannot collide with the fixed category keys.
func MergeCharges(fixed, custom map[string]domain.ChargeCategory) map[string]domain.ChargeCategory {
	merged := make(map[string]domain.ChargeCategory, len(fixed)+len(custom))
	for k, v := range fixed {
		merged[k] = v
	}
	for k, v := range custom {
		merged[k] = v
	}
	return merged
}

func customChargeKey(index int, description string) string {
	sanitized := chargeKeySanitizer.ReplaceAllString(description, "_")
	sanitized = strings.Trim(sanitized, "_")
	return fmt.Sprintf("custom_%d_%s", index, sanitized)
}

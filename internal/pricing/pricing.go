// Package pricing derives what a booking costs and what is charged now.
//
// Every input is rounded to the cent before any arithmetic, so the charged
// amount and the amount due at the counter always add up to the total.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"bitbucket.org/crgw/agent-portal/internal/schema"
)

// ParseAmount reads a decimal typed by the agent. Blank or unparseable text
// is 0 so totals can be shown while the agent is still typing.
func ParseAmount(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}

// Compute does not reject negative values; they are passed through.
func Compute(supplierAmount string, agencyFee string, selection schema.PaymentType) schema.DerivedAmounts {
	supplier := schema.AmountFromFloat(ParseAmount(supplierAmount))
	fee := schema.AmountFromFloat(ParseAmount(agencyFee))
	total := supplier + fee

	if selection.OrDefault() == schema.PaymentTypePayAtCounter {
		return schema.DerivedAmounts{
			TotalTripCost:      total,
			AmountToChargeNow:  fee,
			AmountDueAtCounter: supplier,
		}
	}

	return schema.DerivedAmounts{
		TotalTripCost:      total,
		AmountToChargeNow:  total,
		AmountDueAtCounter: 0,
	}
}

func ComputeDraft(draft schema.BookingDraft, selection schema.PaymentType) schema.DerivedAmounts {
	return Compute(string(draft.SupplierAmount), string(draft.AgencyFee), selection)
}

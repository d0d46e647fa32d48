// Package vat holds the VAT arithmetic shared by business accounting,
// invoicing, and reports. Callers are responsible for supplying valid
// rates; amounts are minor units.
package vat

import (
	"errors"
	"math"
)

var ErrInvalidRate = errors.New("invalid_vat_rate")

// StandardRate is the UK standard VAT rate in percent.
const StandardRate = 20.0

type Breakdown struct {
	NetMinor   int64 `json:"net_minor"`
	VATMinor   int64 `json:"vat_minor"`
	GrossMinor int64 `json:"gross_minor"`
}

// Calculate splits an amount into net, VAT, and gross at the given
// percent rate. When inclusive, the amount already contains VAT and
// vat = amount - amount/(1+rate/100); otherwise VAT is added on top.
func Calculate(amountMinor int64, rate float64, inclusive bool) (Breakdown, error) {
	if rate < 0 || rate > 100 {
		return Breakdown{}, ErrInvalidRate
	}

	if inclusive {
		net := int64(math.Round(float64(amountMinor) / (1 + rate/100)))
		return Breakdown{
			NetMinor:   net,
			VATMinor:   amountMinor - net,
			GrossMinor: amountMinor,
		}, nil
	}

	vat := int64(math.Round(float64(amountMinor) * rate / 100))
	return Breakdown{
		NetMinor:   amountMinor,
		VATMinor:   vat,
		GrossMinor: amountMinor + vat,
	}, nil
}

type ReturnSummary struct {
	VATDueMinor       int64 `json:"vat_due_minor"`
	VATReclaimedMinor int64 `json:"vat_reclaimed_minor"`
	NetMinor          int64 `json:"net_minor"`
}

// Return computes a VAT return from gross income and expense totals.
// Both totals are treated as VAT-inclusive; net is due minus reclaimed
// and may go negative (a repayment).
func Return(incomeGrossMinor, expenseGrossMinor int64, rate float64) (ReturnSummary, error) {
	due, err := Calculate(incomeGrossMinor, rate, true)
	if err != nil {
		return ReturnSummary{}, err
	}
	reclaimed, err := Calculate(expenseGrossMinor, rate, true)
	if err != nil {
		return ReturnSummary{}, err
	}
	return ReturnSummary{
		VATDueMinor:       due.VATMinor,
		VATReclaimedMinor: reclaimed.VATMinor,
		NetMinor:          due.VATMinor - reclaimed.VATMinor,
	}, nil
}

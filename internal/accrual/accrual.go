// Package accrual computes simple daily interest on outstanding loan
// balances. Every function is pure: the reference time is an explicit
// parameter, never the wall clock.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"

	"lendbook-backend/internal/domain/ledger"
)

var (
	thirty  = decimal.NewFromInt(30)
	hundred = decimal.NewFromInt(100)
)

// ElapsedDays returns the whole-day difference between start and asOf,
// clamped to zero when asOf precedes start.
func ElapsedDays(start, asOf time.Time) int {
	d := int(asOf.Sub(start).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// DailyRate converts a monthly percentage rate to its flat daily
// approximation (monthly/30). The approximation does not compound day
// over day. The quotient truncates for repeating rates; Accrue never
// divides this early, so the truncation stays out of balances.
func DailyRate(monthlyRatePercent decimal.Decimal) decimal.Decimal {
	return monthlyRatePercent.Div(thirty)
}

// TotalPayments sums the amounts of payment entries, in any order.
func TotalPayments(history []ledger.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range history {
		if e.Kind == ledger.KindPayment {
			total = total.Add(e.Amount)
		}
	}
	return total
}

type Result struct {
	// Balance is clamped at zero.
	Balance decimal.Decimal
	// AccruedInterest is not clamped; an overpaid loan accrues
	// negative interest.
	AccruedInterest decimal.Decimal
	ElapsedDays     int
}

// Accrue computes the current balance of a loan from its parameters
// and cumulative payments.
//
// Interest accrues on the net-of-payments principal for the entire
// elapsed period, not prorated per payment date: a payment recorded
// yesterday reduces interest as if it had always been paid. Downstream
// reports assume exactly this behavior.
func Accrue(principal, monthlyRatePercent decimal.Decimal, start time.Time, totalPayments decimal.Decimal, asOf time.Time) Result {
	remaining := principal.Sub(totalPayments)
	days := ElapsedDays(start, asOf)
	// Multiply first, divide once. Dividing the rate up front would
	// truncate repeating quotients (10/30) and 1000 at 10% over 30
	// days would come out 99.999999999999 instead of 100.
	interest := remaining.
		Mul(monthlyRatePercent).
		Mul(decimal.NewFromInt(int64(days))).
		Div(thirty.Mul(hundred))
	balance := remaining.Add(interest)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return Result{Balance: balance, AccruedInterest: interest, ElapsedDays: days}
}

// AccrueLoan is the common call site: payments are taken from the
// loan's own history.
func AccrueLoan(l *ledger.Loan, asOf time.Time) Result {
	return Accrue(l.Principal, l.MonthlyRatePercent, l.StartAt, TotalPayments(l.History), asOf)
}

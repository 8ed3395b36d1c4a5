package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"lendbook-backend/internal/domain/ledger"
)

type CreateLoanInput struct {
	DebtorID           string          `json:"debtor_id"`
	Principal          decimal.Decimal `json:"principal"`
	MonthlyRatePercent decimal.Decimal `json:"monthly_rate_percent"`
	// StartAt defaults to now; backdated loans accrue from their
	// start date.
	StartAt *time.Time `json:"start_at,omitempty"`
	Note    string     `json:"note,omitempty"`
}

type PaymentInput struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// LoanDTO is a loan plus its computed accrual fields at read time.
type LoanDTO struct {
	ID                 string          `json:"id"`
	DebtorID           string          `json:"debtor_id"`
	Principal          decimal.Decimal `json:"principal"`
	MonthlyRatePercent decimal.Decimal `json:"monthly_rate_percent"`
	StartAt            time.Time       `json:"start_at"`
	Closed             bool            `json:"closed"`
	Balance            decimal.Decimal `json:"balance"`
	AccruedInterest    decimal.Decimal `json:"accrued_interest"`
	ElapsedDays        int             `json:"elapsed_days"`
	TotalPayments      decimal.Decimal `json:"total_payments"`
	History            []ledger.Entry  `json:"history"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// AggregateSummary rolls a set of loans up for the reports screen.
// Closed loans contribute their payments but neither interest nor
// outstanding balance.
type AggregateSummary struct {
	TotalDisbursed     decimal.Decimal `json:"total_disbursed"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
	TotalReceived      decimal.Decimal `json:"total_received"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	ActiveLoans        int             `json:"active_loans"`
	// Profit is received minus disbursed plus what is still owed.
	Profit decimal.Decimal `json:"profit"`
}

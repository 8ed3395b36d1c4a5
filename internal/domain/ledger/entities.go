package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection names shared by the cache store, the outbox and the
// remote document store.
const (
	CollectionDebtors = "debtors"
	CollectionLoans   = "loans"
)

type EntryKind string

const (
	KindDisbursement EntryKind = "disbursement"
	KindPayment      EntryKind = "payment"
	KindSettlement   EntryKind = "settlement"
	KindAdjustment   EntryKind = "adjustment"
)

type CloseMode string

const (
	CloseSettlement  CloseMode = "settlement"
	CloseForgiveness CloseMode = "forgiveness"
)

type Debtor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Entry is one immutable line of a loan's history. Entries are only
// ever appended; an existing entry is never edited or removed.
type Entry struct {
	ID            string          `json:"id"`
	At            time.Time       `json:"at"`
	Kind          EntryKind       `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note,omitempty"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalancePosted decimal.Decimal `json:"balance_posted"`
}

type Loan struct {
	ID                 string          `json:"id"`
	DebtorID           string          `json:"debtor_id"`
	Principal          decimal.Decimal `json:"principal"`
	MonthlyRatePercent decimal.Decimal `json:"monthly_rate_percent"`
	StartAt            time.Time       `json:"start_at"`
	// Closed is monotonic: once true it never reverts.
	Closed    bool      `json:"closed"`
	History   []Entry   `json:"history"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Disbursement returns the loan's single disbursement entry, or nil if
// the history is malformed.
func (l *Loan) Disbursement() *Entry {
	for i := range l.History {
		if l.History[i].Kind == KindDisbursement {
			return &l.History[i]
		}
	}
	return nil
}

// Append returns a copy of the loan with e appended to its history and
// UpdatedAt set to e.At. The receiver is left untouched.
func (l Loan) Append(e Entry) Loan {
	history := make([]Entry, 0, len(l.History)+1)
	history = append(history, l.History...)
	history = append(history, e)
	l.History = history
	l.UpdatedAt = e.At
	return l
}

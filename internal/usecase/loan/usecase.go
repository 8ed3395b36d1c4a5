package loan

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"lendbook-backend/internal/accrual"
	"lendbook-backend/internal/domain/ledger"
	"lendbook-backend/pkg/id"
)

// Usecase is the loan lifecycle manager. Loans move Active → Closed,
// never back; every successful mutation appends exactly one ledger
// entry and persists the loan as one document write.
type Usecase struct {
	loans   ledger.LoanRepository
	debtors ledger.DebtorRepository
	now     func() time.Time
}

func NewUsecase(loans ledger.LoanRepository, debtors ledger.DebtorRepository) *Usecase {
	return &Usecase{loans: loans, debtors: debtors, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source. Tests pin it.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if !in.Principal.IsPositive() {
		return nil, ledger.Invalid("principal", "must be positive")
	}
	if in.MonthlyRatePercent.IsNegative() {
		return nil, ledger.Invalid("monthly_rate_percent", "must not be negative")
	}
	if _, err := u.debtors.Get(ctx, in.DebtorID); err != nil {
		return nil, err
	}

	now := u.now()
	startAt := now
	if in.StartAt != nil {
		startAt = in.StartAt.UTC()
	}

	l := ledger.Loan{
		ID:                 id.NewID32(),
		DebtorID:           in.DebtorID,
		Principal:          in.Principal,
		MonthlyRatePercent: in.MonthlyRatePercent,
		StartAt:            startAt,
		CreatedAt:          now,
		UpdatedAt:          now,
		History: []ledger.Entry{{
			ID:            id.NewID32(),
			At:            startAt,
			Kind:          ledger.KindDisbursement,
			Amount:        in.Principal,
			Note:          in.Note,
			BalanceBefore: decimal.Zero,
			BalancePosted: in.Principal,
		}},
	}
	if err := u.loans.Put(ctx, &l); err != nil {
		return nil, err
	}
	return u.toDTO(&l), nil
}

// RecordPayment appends a payment entry. Paying the balance down to
// zero does not close the loan; closing is a separate explicit action.
func (u *Usecase) RecordPayment(ctx context.Context, loanID string, in PaymentInput) (*LoanDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, ledger.Invalid("amount", "must be positive")
	}
	l, err := u.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.Closed {
		return nil, ledger.InvalidState("loan %s is closed", loanID)
	}

	now := u.now()
	before := accrual.AccrueLoan(l, now).Balance
	after := before.Sub(in.Amount)
	if after.IsNegative() {
		after = decimal.Zero
	}

	updated := l.Append(ledger.Entry{
		ID:            id.NewID32(),
		At:            now,
		Kind:          ledger.KindPayment,
		Amount:        in.Amount,
		Note:          in.Note,
		BalanceBefore: before,
		BalancePosted: after,
	})
	if err := u.loans.Put(ctx, &updated); err != nil {
		return nil, err
	}
	return u.toDTO(&updated), nil
}

// Close settles or forgives a loan. Both modes write the terminal
// settlement entry and flip Closed; there is no reopen.
func (u *Usecase) Close(ctx context.Context, loanID string, mode ledger.CloseMode) (*LoanDTO, error) {
	if mode != ledger.CloseSettlement && mode != ledger.CloseForgiveness {
		return nil, ledger.Invalid("mode", "must be settlement or forgiveness")
	}
	l, err := u.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.Closed {
		return nil, ledger.InvalidState("loan %s is already closed", loanID)
	}

	now := u.now()
	balance := accrual.AccrueLoan(l, now).Balance

	amount := balance
	note := "settled in full"
	if mode == ledger.CloseForgiveness {
		amount = decimal.Zero
		note = "debt forgiven"
	}

	updated := l.Append(ledger.Entry{
		ID:            id.NewID32(),
		At:            now,
		Kind:          ledger.KindSettlement,
		Amount:        amount,
		Note:          note,
		BalanceBefore: balance,
		BalancePosted: decimal.Zero,
	})
	updated.Closed = true
	if err := u.loans.Put(ctx, &updated); err != nil {
		return nil, err
	}
	return u.toDTO(&updated), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return u.toDTO(l), nil
}

func (u *Usecase) List(ctx context.Context) ([]LoanDTO, error) {
	loans, err := u.loans.List(ctx)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(loans), nil
}

func (u *Usecase) ListByDebtor(ctx context.Context, debtorID string) ([]LoanDTO, error) {
	loans, err := u.loans.ListByDebtor(ctx, debtorID)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(loans), nil
}

// Summary aggregates every loan as of the given time. Closed loans
// count toward disbursed and received totals only; their outstanding
// balance is zero by definition.
func (u *Usecase) Summary(ctx context.Context, asOf time.Time) (*AggregateSummary, error) {
	loans, err := u.loans.List(ctx)
	if err != nil {
		return nil, err
	}
	sum := AggregateSummary{
		TotalDisbursed:     decimal.Zero,
		TotalInterest:      decimal.Zero,
		TotalReceived:      decimal.Zero,
		OutstandingBalance: decimal.Zero,
	}
	for i := range loans {
		l := &loans[i]
		sum.TotalDisbursed = sum.TotalDisbursed.Add(l.Principal)
		sum.TotalReceived = sum.TotalReceived.Add(accrual.TotalPayments(l.History))
		if l.Closed {
			continue
		}
		sum.ActiveLoans++
		res := accrual.AccrueLoan(l, asOf)
		sum.OutstandingBalance = sum.OutstandingBalance.Add(res.Balance)
		sum.TotalInterest = sum.TotalInterest.Add(res.AccruedInterest)
	}
	sum.Profit = sum.TotalReceived.Sub(sum.TotalDisbursed).Add(sum.OutstandingBalance)
	return &sum, nil
}

func (u *Usecase) toDTO(l *ledger.Loan) *LoanDTO {
	res := accrual.AccrueLoan(l, u.now())
	if l.Closed {
		// A closed loan owes nothing, whatever its history would
		// accrue to.
		res = accrual.Result{Balance: decimal.Zero, AccruedInterest: decimal.Zero, ElapsedDays: res.ElapsedDays}
	}
	return &LoanDTO{
		ID:                 l.ID,
		DebtorID:           l.DebtorID,
		Principal:          l.Principal,
		MonthlyRatePercent: l.MonthlyRatePercent,
		StartAt:            l.StartAt,
		Closed:             l.Closed,
		Balance:            res.Balance,
		AccruedInterest:    res.AccruedInterest,
		ElapsedDays:        res.ElapsedDays,
		TotalPayments:      accrual.TotalPayments(l.History),
		History:            l.History,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

func (u *Usecase) toDTOs(loans []ledger.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *u.toDTO(&loans[i]))
	}
	return out
}

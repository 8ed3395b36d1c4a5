package accrual

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"lendbook-backend/internal/domain/ledger"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestElapsedDays(t *testing.T) {
	cases := []struct {
		name string
		asOf time.Time
		want int
	}{
		{"same instant", t0, 0},
		{"thirty days", t0.AddDate(0, 0, 30), 30},
		{"partial day truncates", t0.Add(36 * time.Hour), 1},
		{"asOf before start clamps to zero", t0.AddDate(0, 0, -5), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ElapsedDays(t0, tc.asOf); got != tc.want {
				t.Fatalf("ElapsedDays = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAccrue_ThirtyDaysTenPercent(t *testing.T) {
	// principal=1000, rate=10%/month, 30 days, no payments:
	// interest = 1000 * (10/30/100) * 30 = 100, balance = 1100.
	res := Accrue(d("1000"), d("10"), t0, decimal.Zero, t0.AddDate(0, 0, 30))
	if !res.AccruedInterest.Equal(d("100")) {
		t.Fatalf("interest = %s, want 100", res.AccruedInterest)
	}
	if !res.Balance.Equal(d("1100")) {
		t.Fatalf("balance = %s, want 1100", res.Balance)
	}
	if res.ElapsedDays != 30 {
		t.Fatalf("days = %d, want 30", res.ElapsedDays)
	}
}

func TestAccrue_Idempotent(t *testing.T) {
	asOf := t0.AddDate(0, 0, 17)
	a := Accrue(d("1234.56"), d("7.5"), t0, d("200"), asOf)
	b := Accrue(d("1234.56"), d("7.5"), t0, d("200"), asOf)
	if !a.Balance.Equal(b.Balance) || !a.AccruedInterest.Equal(b.AccruedInterest) || a.ElapsedDays != b.ElapsedDays {
		t.Fatalf("same inputs gave different results: %+v vs %+v", a, b)
	}
}

func TestAccrue_MonotonicInDays(t *testing.T) {
	prev := decimal.Zero
	for days := 0; days <= 120; days += 7 {
		res := Accrue(d("1000"), d("10"), t0, decimal.Zero, t0.AddDate(0, 0, days))
		if res.Balance.LessThan(prev) {
			t.Fatalf("balance decreased at day %d: %s < %s", days, res.Balance, prev)
		}
		prev = res.Balance
	}
}

func TestAccrue_ZeroRate(t *testing.T) {
	res := Accrue(d("500"), decimal.Zero, t0, decimal.Zero, t0.AddDate(0, 0, 365))
	if !res.AccruedInterest.IsZero() {
		t.Fatalf("interest = %s, want 0", res.AccruedInterest)
	}
	if !res.Balance.Equal(d("500")) {
		t.Fatalf("balance = %s, want 500", res.Balance)
	}
}

func TestAccrue_OverpaidClampsBalanceNotInterest(t *testing.T) {
	// Payments above principal: interest goes negative (unclamped),
	// balance clamps at zero.
	res := Accrue(d("1000"), d("10"), t0, d("1500"), t0.AddDate(0, 0, 30))
	if !res.AccruedInterest.IsNegative() {
		t.Fatalf("interest = %s, want negative", res.AccruedInterest)
	}
	if !res.Balance.IsZero() {
		t.Fatalf("balance = %s, want 0", res.Balance)
	}
}

func TestAccrue_NotProratedPerPaymentDate(t *testing.T) {
	// A payment reduces interest for the whole elapsed period, as if
	// it had always been paid. 1000 at 10%, 30 days, 500 paid:
	// interest = (1000-500) * (10/30/100) * 30 = 50.
	res := Accrue(d("1000"), d("10"), t0, d("500"), t0.AddDate(0, 0, 30))
	if !res.AccruedInterest.Equal(d("50")) {
		t.Fatalf("interest = %s, want 50", res.AccruedInterest)
	}
}

func TestAccrue_ExactDecimalResult(t *testing.T) {
	// The division happens after all multiplications, so terminating
	// scenarios are exact: 1000*10*30/3000 is 100, not a repeating
	// decimal truncated at division precision.
	res := Accrue(d("1000"), d("10"), t0, decimal.Zero, t0.AddDate(0, 0, 30))
	if got := res.AccruedInterest.String(); got != "100" {
		t.Fatalf("interest = %s, want exactly 100", got)
	}
	if got := res.Balance.String(); got != "1100" {
		t.Fatalf("balance = %s, want exactly 1100", got)
	}

	res = Accrue(d("1000"), d("10"), t0, d("500"), t0.AddDate(0, 0, 30))
	if got := res.AccruedInterest.String(); got != "50" {
		t.Fatalf("interest with 500 paid = %s, want exactly 50", got)
	}
}

func TestTotalPayments_OrderIndependent(t *testing.T) {
	entries := []ledger.Entry{
		{Kind: ledger.KindPayment, Amount: d("100")},
		{Kind: ledger.KindDisbursement, Amount: d("1000")},
		{Kind: ledger.KindPayment, Amount: d("250.50")},
		{Kind: ledger.KindSettlement, Amount: d("700")},
	}
	want := d("350.50")
	if got := TotalPayments(entries); !got.Equal(want) {
		t.Fatalf("TotalPayments = %s, want %s", got, want)
	}
	// reversed order
	rev := []ledger.Entry{entries[3], entries[2], entries[1], entries[0]}
	if got := TotalPayments(rev); !got.Equal(want) {
		t.Fatalf("TotalPayments reversed = %s, want %s", got, want)
	}
}

func TestDailyRate(t *testing.T) {
	if got := DailyRate(d("30")); !got.Equal(d("1")) {
		t.Fatalf("DailyRate(30) = %s, want 1", got)
	}
}

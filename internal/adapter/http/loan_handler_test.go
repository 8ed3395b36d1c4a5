package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"lendbook-backend/internal/domain/ledger"
	"lendbook-backend/internal/testutil/ledgermock"
	uc "lendbook-backend/internal/usecase/loan"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	debtorID = strings.Repeat("d", 32)
	loanID   = strings.Repeat("a", 32)
)

func debtorsWith(id string) *ledgermock.DebtorRepo {
	return &ledgermock.DebtorRepo{
		GetFn: func(_ context.Context, got string) (*ledger.Debtor, error) {
			if got == id {
				return &ledger.Debtor{ID: id, Name: "debtor"}, nil
			}
			return nil, ledger.ErrDebtorNotFound
		},
	}
}

// -------- tests --------

func TestCreateLoan_Success(t *testing.T) {
	e := newEchoWithValidator()

	loans := &ledgermock.LoanRepo{
		PutFn: func(_ context.Context, l *ledger.Loan) error { return nil },
	}
	h := NewLoanHandler(uc.NewUsecase(loans, debtorsWith(debtorID)))

	reqBody := map[string]any{
		"debtor_id":            debtorID,
		"principal":            "1000",
		"monthly_rate_percent": "10",
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", rec.Code, rec.Body.String())
	}
	var got uc.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.DebtorID != debtorID || !got.Principal.Equal(d("1000")) {
		t.Fatalf("unexpected dto: %+v", got)
	}
	if got.Closed {
		t.Fatal("new loan must be active")
	}
}

func TestCreateLoan_BadDebtorID(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(uc.NewUsecase(&ledgermock.LoanRepo{}, debtorsWith(debtorID)))

	reqBody := map[string]any{
		"debtor_id":            "short",
		"principal":            "1000",
		"monthly_rate_percent": "10",
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !containsFieldMsg(resp.Details, "DebtorID", "hex") {
		t.Fatalf("details = %+v", resp.Details)
	}
}

func TestCreateLoan_NonPositivePrincipalIs400(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(uc.NewUsecase(&ledgermock.LoanRepo{}, debtorsWith(debtorID)))

	reqBody := map[string]any{
		"debtor_id":            debtorID,
		"principal":            "0",
		"monthly_rate_percent": "10",
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecordPayment_ClosedLoanIs409(t *testing.T) {
	e := newEchoWithValidator()

	loans := &ledgermock.LoanRepo{
		GetFn: func(_ context.Context, id string) (*ledger.Loan, error) {
			return &ledger.Loan{ID: id, DebtorID: debtorID, Principal: d("100"), Closed: true}, nil
		},
	}
	h := NewLoanHandler(uc.NewUsecase(loans, debtorsWith(debtorID)))

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans/"+loanID+"/payments",
		mustJSON(map[string]any{"amount": "10"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id/payments")
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)

	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("RecordPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestGetLoan_UnknownIs404(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(uc.NewUsecase(&ledgermock.LoanRepo{}, debtorsWith(debtorID)))

	req := httptest.NewRequest(stdhttp.MethodGet, "/loans/"+loanID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id")
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)

	if err := h.GetLoan(c); err != nil {
		t.Fatalf("GetLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCloseLoan_RejectsBadMode(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(uc.NewUsecase(&ledgermock.LoanRepo{}, debtorsWith(debtorID)))

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans/"+loanID+"/close",
		mustJSON(map[string]any{"mode": "writeoff"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id/close")
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)

	if err := h.CloseLoan(c); err != nil {
		t.Fatalf("CloseLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSummary_BadAsOfIs400(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(uc.NewUsecase(&ledgermock.LoanRepo{}, debtorsWith(debtorID)))

	req := httptest.NewRequest(stdhttp.MethodGet, "/summary?as_of=yesterday", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Summary(c); err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSummary_Success(t *testing.T) {
	e := newEchoWithValidator()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	loans := &ledgermock.LoanRepo{
		ListFn: func(_ context.Context) ([]ledger.Loan, error) {
			return []ledger.Loan{{
				ID: loanID, DebtorID: debtorID,
				Principal:          d("1000"),
				MonthlyRatePercent: d("10"),
				StartAt:            start,
				History: []ledger.Entry{{
					Kind: ledger.KindDisbursement, Amount: d("1000"),
					BalancePosted: d("1000"), At: start,
				}},
			}}, nil
		},
	}
	h := NewLoanHandler(uc.NewUsecase(loans, debtorsWith(debtorID)))

	asOf := start.AddDate(0, 0, 30).Format(time.RFC3339)
	req := httptest.NewRequest(stdhttp.MethodGet, "/summary?as_of="+asOf, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Summary(c); err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var sum uc.AggregateSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if sum.ActiveLoans != 1 || !sum.OutstandingBalance.Equal(d("1100")) {
		t.Fatalf("summary = %+v", sum)
	}
}

package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lendbook-backend/internal/usecase/debtor"
	"lendbook-backend/internal/usecase/loan"
)

type DebtorHandler struct {
	uc    *debtor.Usecase
	loans *loan.Usecase
}

func NewDebtorHandler(uc *debtor.Usecase, loans *loan.Usecase) *DebtorHandler {
	return &DebtorHandler{uc: uc, loans: loans}
}

type debtorReq struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

func (h *DebtorHandler) CreateDebtor(c echo.Context) error {
	var req debtorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	d, err := h.uc.Create(c.Request().Context(), debtor.CreateDebtorInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *DebtorHandler) UpdateDebtor(c echo.Context) error {
	var req debtorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	d, err := h.uc.Update(c.Request().Context(), c.Param("debtor_id"), debtor.UpdateDebtorInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DebtorHandler) GetDebtor(c echo.Context) error {
	d, err := h.uc.Get(c.Request().Context(), c.Param("debtor_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DebtorHandler) ListDebtors(c echo.Context) error {
	ds, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ds)
}

func (h *DebtorHandler) DeleteDebtor(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("debtor_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DebtorHandler) ListDebtorLoans(c echo.Context) error {
	dtos, err := h.loans.ListByDebtor(c.Request().Context(), c.Param("debtor_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

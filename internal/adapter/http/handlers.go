package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"lendbook-backend/internal/syncer"
)

type Handler struct {
	sync   *syncer.Store
	signal *syncer.Signal
}

func NewHandler(sync *syncer.Store, signal *syncer.Signal) *Handler {
	return &Handler{sync: sync, signal: signal}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"online": h.signal.Reachable(),
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

type setOnlineReq struct {
	Online bool `json:"online"`
}

// SetOnline receives the connectivity signal from whatever detects it.
// The edge detector inside the syncer turns a false→true transition
// into exactly one drain attempt per collection.
func (h *Handler) SetOnline(c echo.Context) error {
	var req setOnlineReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	h.signal.Set(req.Online)
	up := h.sync.ObserveConnectivity(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{"online": up})
}

// TriggerSync drains every collection now. Used when the operator (or
// a scheduler) has just confirmed connectivity.
func (h *Handler) TriggerSync(c echo.Context) error {
	if !h.signal.Reachable() {
		return c.JSON(http.StatusConflict, map[string]string{"error": "remote not reachable"})
	}
	if err := h.sync.DrainAll(c.Request().Context()); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "drained"})
}

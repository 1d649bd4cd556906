package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/collabhub/network/internal/core/ports"
)

type AdminHandler struct {
	reconciler ports.Reconciler
	logger     zerolog.Logger
}

func NewAdminHandler(reconciler ports.Reconciler, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{reconciler: reconciler, logger: logger}
}

type reconcileResponse struct {
	ports.ReconcileReport
	EvictedTotal int `json:"evictedTotal"`
}

// Reconcile runs one repair pass over the secondary indexes and reports what
// it evicted. Safe to call repeatedly.
//
// @Summary      Reconcile secondary indexes
// @Tags         admin
// @Produce      json
// @Success      200  {object}  reconcileResponse
// @Failure      503  {object}  map[string]string
// @Router       /v1/admin/reconcile [post]
func (h *AdminHandler) Reconcile(c echo.Context) error {
	report, err := h.reconciler.Reconcile(c.Request().Context())
	if err != nil {
		return err
	}

	h.logger.Info().
		Int("partitions", report.PartitionsScanned).
		Int("members", report.MembersChecked).
		Int("evicted", report.Total()).
		Msg("index reconcile finished")

	return c.JSON(http.StatusOK, reconcileResponse{ReconcileReport: report, EvictedTotal: report.Total()})
}

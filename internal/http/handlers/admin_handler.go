package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftlink/craftlink-backend/internal/dto"
	"github.com/craftlink/craftlink-backend/internal/service"
)

// UserCounter and friends are the narrow read interfaces the admin
// overview needs from the storage layer.
type UserCounter interface {
	CountByRole(ctx context.Context) (map[string]int, error)
}

type JobCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type CashoutSummer interface {
	SumByStatus(ctx context.Context) (map[string]float64, error)
}

// AdminHandler is the HTTP layer for the operations endpoints: the cashout
// settlement queue and the platform overview.
type AdminHandler struct {
	cashouts *service.CashoutService
	users    UserCounter
	jobs     JobCounter
	volumes  CashoutSummer
}

func NewAdminHandler(cashouts *service.CashoutService, users UserCounter, jobs JobCounter, volumes CashoutSummer) *AdminHandler {
	return &AdminHandler{cashouts: cashouts, users: users, jobs: jobs, volumes: volumes}
}

// ListCashouts handles GET /admin/cashouts?status=pending.
func (h *AdminHandler) ListCashouts(c *gin.Context) {
	limit, offset := pagination(c)
	cashouts, err := h.cashouts.ListCashouts(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.CashoutListResponse{Cashouts: cashouts, Count: len(cashouts)})
}

// SettleCashout handles POST /admin/cashouts/:id/settle.
func (h *AdminHandler) SettleCashout(c *gin.Context) {
	var req dto.SettleCashoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cashout, err := h.cashouts.Settle(c.Request.Context(), pathUUID(c, "id"), req.Success, req.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cashout": cashout})
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	usersByRole, err := h.users.CountByRole(ctx)
	if err != nil {
		c.Error(err)
		return
	}
	jobsByStatus, err := h.jobs.CountByStatus(ctx)
	if err != nil {
		c.Error(err)
		return
	}
	volumes, err := h.volumes.SumByStatus(ctx)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		UsersByRole:    usersByRole,
		JobsByStatus:   jobsByStatus,
		CashoutVolumes: volumes,
	})
}

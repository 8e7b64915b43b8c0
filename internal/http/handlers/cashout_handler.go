package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftlink/craftlink-backend/internal/dto"
	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/service"
)

// CashoutHandler is the HTTP layer for withdrawals.
type CashoutHandler struct {
	cashouts *service.CashoutService
}

func NewCashoutHandler(cashouts *service.CashoutService) *CashoutHandler {
	return &CashoutHandler{cashouts: cashouts}
}

// Create handles POST /cashouts.
func (h *CashoutHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.CashoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var bank *models.BankDetails
	if req.BankAccountNumber != "" {
		bank = &models.BankDetails{
			AccountName:   req.BankAccountName,
			AccountNumber: req.BankAccountNumber,
			BankName:      req.BankName,
		}
	}

	result, err := h.cashouts.RequestCashout(c.Request.Context(), userID, req.Amount, bank)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// List handles GET /cashouts.
func (h *CashoutHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	cashouts, err := h.cashouts.ListUserCashouts(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.CashoutListResponse{Cashouts: cashouts, Count: len(cashouts)})
}

// Get handles GET /cashouts/:id.
func (h *CashoutHandler) Get(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	role, _ := currentUserRole(c)

	cashout, err := h.cashouts.GetCashout(c.Request.Context(), pathUUID(c, "id"), userID, role)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cashout": cashout})
}

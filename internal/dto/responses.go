package dto

import (
	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/service"
)

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	User   *models.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// JobListResponse wraps a page of jobs.
type JobListResponse struct {
	Jobs  []models.Job `json:"jobs"`
	Count int          `json:"count"`
}

// TransactionListResponse wraps a page of ledger entries.
type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
}

// CashoutListResponse wraps a list of cashouts.
type CashoutListResponse struct {
	Cashouts []models.Cashout `json:"cashouts"`
	Count    int              `json:"count"`
}

// NotificationListResponse wraps a page of notifications.
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

// StatsResponse is the admin platform overview.
type StatsResponse struct {
	UsersByRole    map[string]int     `json:"users_by_role"`
	JobsByStatus   map[string]int     `json:"jobs_by_status"`
	CashoutVolumes map[string]float64 `json:"cashout_volumes"`
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftlink/craftlink-backend/internal/dto"
	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
	"github.com/craftlink/craftlink-backend/internal/service"
)

// JobHandler is the HTTP layer for the job lifecycle.
type JobHandler struct {
	jobs     *service.JobService
	matching *service.MatchingService
	profiles *service.ProfileService
}

func NewJobHandler(jobs *service.JobService, matching *service.MatchingService, profiles *service.ProfileService) *JobHandler {
	return &JobHandler{jobs: jobs, matching: matching, profiles: profiles}
}

// Create handles POST /jobs.
func (h *JobHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), userID, service.CreateJobInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		ScheduledAt:    req.ScheduledAt,
		ServiceAddress: req.ServiceAddress,
		ServiceState:   req.ServiceState,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// Get handles GET /jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.GetJob(c.Request.Context(), pathUUID(c, "id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

// Feed handles GET /jobs/feed: the open jobs visible to the calling artisan
// after the state and distance filters.
func (h *JobHandler) Feed(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	limit, offset := pagination(c)
	open, err := h.jobs.ListOpenJobs(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	visible := h.matching.VisibleJobs(profile, open)
	c.JSON(http.StatusOK, dto.JobListResponse{Jobs: visible, Count: len(visible)})
}

// Mine handles GET /jobs/mine: a client's requests or an artisan's
// assignments, depending on the caller's role.
func (h *JobHandler) Mine(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	role, _ := currentUserRole(c)

	var jobs []models.Job
	if role == models.RoleArtisan {
		jobs, err = h.jobs.ListArtisanJobs(c.Request.Context(), userID)
	} else {
		jobs, err = h.jobs.ListClientJobs(c.Request.Context(), userID)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.JobListResponse{Jobs: jobs, Count: len(jobs)})
}

// Accept handles POST /jobs/:id/accept.
func (h *JobHandler) Accept(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	job, err := h.jobs.AcceptJob(c.Request.Context(), pathUUID(c, "id"), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

// UpdateStatus handles PUT /jobs/:id/status. The target status picks the
// lifecycle operation; anything outside the transition table is rejected.
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.UpdateJobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := pathUUID(c, "id")

	var job *models.Job
	switch req.Status {
	case models.JobStatusInProgress:
		job, err = h.jobs.StartJob(c.Request.Context(), jobID, userID)
	case models.JobStatusPendingCompletion:
		job, err = h.jobs.RequestCompletion(c.Request.Context(), jobID, userID)
	case models.JobStatusCompleted:
		job, err = h.jobs.CompleteJob(c.Request.Context(), jobID, userID)
	case models.JobStatusCancelled:
		job, err = h.jobs.CancelJob(c.Request.Context(), jobID, userID)
	default:
		err = apperror.New(apperror.ErrCodeValidation, "unknown target status "+req.Status)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

// Cancel handles POST /jobs/:id/cancel.
func (h *JobHandler) Cancel(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	job, err := h.jobs.CancelJob(c.Request.Context(), pathUUID(c, "id"), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

// SetBudget handles PUT /jobs/:id/budget.
func (h *JobHandler) SetBudget(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.SetBudget(c.Request.Context(), pathUUID(c, "id"), userID, req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

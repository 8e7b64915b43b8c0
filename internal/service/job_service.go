package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
	"github.com/craftlink/craftlink-backend/internal/validation"
)

// JobRepository describes what JobService needs from the storage layer.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListOpen(ctx context.Context, limit, offset int) ([]models.Job, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error)
	ListByArtisan(ctx context.Context, artisanID uuid.UUID) ([]models.Job, error)
	Assign(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error)
	UpdateStatus(ctx context.Context, jobID uuid.UUID, from, to string) (*models.Job, error)
	SetAmount(ctx context.Context, jobID uuid.UUID, amount float64) (*models.Job, error)
}

// JobSettler applies a job completion and its payout as one atomic write.
// A failed ledger write fails the completion; the two never diverge.
type JobSettler interface {
	SettleJobCompletion(ctx context.Context, jobID uuid.UUID, from string, payout float64, description string) (*models.Job, error)
}

// JobNotifier delivers job lifecycle events to users. Delivery is best
// effort and never fails the operation that triggered it.
type JobNotifier interface {
	JobEvent(ctx context.Context, userID uuid.UUID, event string, job *models.Job)
}

// JobService drives the job lifecycle:
// requested -> accepted -> in_progress -> pending_completion -> completed,
// with cancellation allowed while no work has started.
type JobService struct {
	repo     JobRepository
	settler  JobSettler
	notifier JobNotifier
	log      *logrus.Logger

	// Credit applied when a job completes without an agreed budget.
	// Zero disables the fallback; completion then pays nothing.
	defaultCompletionAmount float64
}

// CreateJobInput carries the fields of a new service request.
type CreateJobInput struct {
	Title          string
	Description    string
	Category       string
	ScheduledAt    *models.Timestamp
	ServiceAddress *string
	ServiceState   *string
	Latitude       *float64
	Longitude      *float64
}

func NewJobService(repo JobRepository, settler JobSettler, notifier JobNotifier, log *logrus.Logger, defaultCompletionAmount float64) *JobService {
	return &JobService{
		repo:                    repo,
		settler:                 settler,
		notifier:                notifier,
		log:                     log,
		defaultCompletionAmount: defaultCompletionAmount,
	}
}

// CreateJob registers a new service request for a client.
func (s *JobService) CreateJob(ctx context.Context, clientID uuid.UUID, in CreateJobInput) (*models.Job, error) {
	if err := validation.ValidateJobTitle(in.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateJobDescription(in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	category := in.Category
	if category == "" {
		category = "general"
	}

	job := &models.Job{
		ClientID:       clientID,
		Title:          in.Title,
		Description:    in.Description,
		Category:       category,
		Status:         models.JobStatusRequested,
		ScheduledAt:    in.ScheduledAt,
		ServiceAddress: in.ServiceAddress,
		ServiceState:   in.ServiceState,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob returns one job.
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOpenJobs returns jobs still waiting for an artisan.
func (s *JobService) ListOpenJobs(ctx context.Context, limit, offset int) ([]models.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListOpen(ctx, limit, offset)
}

// ListClientJobs returns a client's jobs.
func (s *JobService) ListClientJobs(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ListArtisanJobs returns an artisan's assigned jobs.
func (s *JobService) ListArtisanJobs(ctx context.Context, artisanID uuid.UUID) ([]models.Job, error) {
	return s.repo.ListByArtisan(ctx, artisanID)
}

// AcceptJob lets an artisan claim an open job. Exactly one of several
// concurrent claims succeeds; the rest get the already-taken error.
func (s *JobService) AcceptJob(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.Assign(ctx, jobID, artisanID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, job.ClientID, "job.accepted", job)
	return job, nil
}

// StartJob moves an accepted job into in_progress. Only the assigned
// artisan may start the work.
func (s *JobService) StartJob(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	job, err := s.requireAssignedArtisan(ctx, jobID, artisanID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(job.Status, models.JobStatusInProgress) {
		return nil, apperror.InvalidTransition(job.Status, models.JobStatusInProgress)
	}

	updated, err := s.repo.UpdateStatus(ctx, jobID, job.Status, models.JobStatusInProgress)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, updated.ClientID, "job.started", updated)
	return updated, nil
}

// RequestCompletion lets the assigned artisan flag the work as done and
// waiting for the client's confirmation.
func (s *JobService) RequestCompletion(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	job, err := s.requireAssignedArtisan(ctx, jobID, artisanID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(job.Status, models.JobStatusPendingCompletion) {
		return nil, apperror.InvalidTransition(job.Status, models.JobStatusPendingCompletion)
	}

	updated, err := s.repo.UpdateStatus(ctx, jobID, job.Status, models.JobStatusPendingCompletion)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, updated.ClientID, "job.pending_completion", updated)
	return updated, nil
}

// CompleteJob is the client confirming the work. The status flip and the
// artisan's wallet credit happen in one settlement write: when the ledger
// cannot record the payout, the whole completion fails. A job without a
// budget pays the configured fallback, or nothing when that is disabled.
func (s *JobService) CompleteJob(ctx context.Context, jobID, clientID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}
	if !models.CanTransition(job.Status, models.JobStatusCompleted) {
		return nil, apperror.InvalidTransition(job.Status, models.JobStatusCompleted)
	}

	payout := s.completionPayout(job)
	updated, err := s.settler.SettleJobCompletion(ctx, jobID, job.Status, payout, "Payment for job: "+job.Title)
	if err != nil {
		return nil, err
	}

	if updated.ArtisanID != nil {
		s.notify(ctx, *updated.ArtisanID, "job.completed", updated)
	}
	return updated, nil
}

// CancelJob withdraws a job before any work has started. Only the client
// may cancel, and only from requested or accepted.
func (s *JobService) CancelJob(ctx context.Context, jobID, clientID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}
	if !models.CanTransition(job.Status, models.JobStatusCancelled) {
		return nil, apperror.InvalidTransition(job.Status, models.JobStatusCancelled)
	}

	updated, err := s.repo.UpdateStatus(ctx, jobID, job.Status, models.JobStatusCancelled)
	if err != nil {
		return nil, err
	}

	if updated.ArtisanID != nil {
		s.notify(ctx, *updated.ArtisanID, "job.cancelled", updated)
	}
	return updated, nil
}

// SetBudget records the agreed price. Only the client may set it, and only
// while the job is still live.
func (s *JobService) SetBudget(ctx context.Context, jobID, clientID uuid.UUID, amount float64) (*models.Job, error) {
	if err := validation.ValidateAmount("amount", amount); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}
	if models.IsTerminalJobStatus(job.Status) {
		return nil, apperror.New(apperror.ErrCodeConflict, "cannot change the budget of a settled job")
	}

	return s.repo.SetAmount(ctx, jobID, amount)
}

// completionPayout resolves what a completing job pays. A missing budget with
// the fallback disabled pays nothing; that is logged, not an error.
func (s *JobService) completionPayout(job *models.Job) float64 {
	if job.ArtisanID == nil {
		s.log.WithField("job_id", job.ID).Warn("job completed without an artisan, no payout")
		return 0
	}
	if job.Amount != nil && *job.Amount > 0 {
		return *job.Amount
	}
	if s.defaultCompletionAmount > 0 {
		return s.defaultCompletionAmount
	}
	s.log.WithField("job_id", job.ID).Warn("job completed without a budget, no payout")
	return 0
}

// requireAssignedArtisan loads a job and checks the acting artisan owns it.
func (s *JobService) requireAssignedArtisan(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ArtisanID == nil || *job.ArtisanID != artisanID {
		return nil, apperror.ErrForbidden
	}
	return job, nil
}

func (s *JobService) notify(ctx context.Context, userID uuid.UUID, event string, job *models.Job) {
	if s.notifier == nil {
		return
	}
	s.notifier.JobEvent(ctx, userID, event, job)
}

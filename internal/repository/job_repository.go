package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
)

const jobColumns = `id, client_id, artisan_id, title, description, category, status, amount,
	scheduled_at, service_address, service_state, latitude, longitude, created_at, updated_at`

type JobRepository struct {
	db *sqlx.DB
}

func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job in the requested state.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (client_id, title, description, category, status, scheduled_at,
			service_address, service_state, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + jobColumns
	err := r.db.GetContext(ctx, job, query,
		job.ClientID, job.Title, job.Description, job.Category, job.Status,
		job.ScheduledAt, job.ServiceAddress, job.ServiceState, job.Latitude, job.Longitude)
	if err != nil {
		return fmt.Errorf("job repository: create: %w", err)
	}
	return nil
}

// GetByID returns one job.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.db.GetContext(ctx, &job, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: get: %w", err)
	}
	return &job, nil
}

// ListOpen returns jobs still waiting for an artisan, newest first.
func (r *JobRepository) ListOpen(ctx context.Context, limit, offset int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT `+jobColumns+` FROM jobs
		WHERE status = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, models.JobStatusRequested, limit, offset)
	return jobs, err
}

// ListByClient returns every job a client created, newest first.
func (r *JobRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT `+jobColumns+` FROM jobs WHERE client_id = $1 ORDER BY created_at DESC
	`, clientID)
	return jobs, err
}

// ListByArtisan returns every job assigned to an artisan, newest first.
func (r *JobRepository) ListByArtisan(ctx context.Context, artisanID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT `+jobColumns+` FROM jobs WHERE artisan_id = $1 ORDER BY created_at DESC
	`, artisanID)
	return jobs, err
}

// Assign claims a requested job for an artisan via compare-and-set on the
// artisan reference. When two artisans race, one conditional update wins and
// the loser sees the claim failure, never a silent last-write-wins.
func (r *JobRepository) Assign(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.db.GetContext(ctx, &job, `
		UPDATE jobs SET artisan_id = $2, status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4 AND artisan_id IS NULL
		RETURNING `+jobColumns,
		jobID, artisanID, models.JobStatusAccepted, models.JobStatusRequested)
	if err == nil {
		return &job, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job repository: assign: %w", err)
	}

	// The CAS missed. Re-read to report why.
	current, getErr := r.GetByID(ctx, jobID)
	if getErr != nil {
		return nil, getErr
	}
	if current.ArtisanID != nil {
		return nil, apperror.ErrAlreadyAssigned
	}
	return nil, apperror.InvalidTransition(current.Status, models.JobStatusAccepted)
}

// UpdateStatus moves a job from one status to another with a conditional
// update, so a concurrent transition invalidates this one instead of being
// overwritten.
func (r *JobRepository) UpdateStatus(ctx context.Context, jobID uuid.UUID, from, to string) (*models.Job, error) {
	var job models.Job
	err := r.db.GetContext(ctx, &job, `
		UPDATE jobs SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+jobColumns,
		jobID, from, to)
	if err == nil {
		return &job, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job repository: update status: %w", err)
	}

	current, getErr := r.GetByID(ctx, jobID)
	if getErr != nil {
		return nil, getErr
	}
	return nil, apperror.InvalidTransition(current.Status, to)
}

// SetAmount stores the agreed budget for a job. The update is conditional on
// the job still being live, so a concurrent completion or cancellation cannot
// be priced after the fact.
func (r *JobRepository) SetAmount(ctx context.Context, jobID uuid.UUID, amount float64) (*models.Job, error) {
	var job models.Job
	err := r.db.GetContext(ctx, &job, `
		UPDATE jobs SET amount = $2, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ($3, $4)
		RETURNING `+jobColumns,
		jobID, amount, models.JobStatusCompleted, models.JobStatusCancelled)
	if err == nil {
		return &job, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job repository: set amount: %w", err)
	}

	if _, getErr := r.GetByID(ctx, jobID); getErr != nil {
		return nil, getErr
	}
	return nil, apperror.New(apperror.ErrCodeConflict, "cannot change the budget of a settled job")
}

// CountByStatus returns job counts grouped by status (admin stats).
func (r *JobRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("job repository: count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
)

type mockJobRepo struct {
	mock.Mock
}

func (m *mockJobRepo) Create(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *mockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobRepo) ListOpen(ctx context.Context, limit, offset int) ([]models.Job, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *mockJobRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *mockJobRepo) ListByArtisan(ctx context.Context, artisanID uuid.UUID) ([]models.Job, error) {
	args := m.Called(ctx, artisanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *mockJobRepo) Assign(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, jobID, artisanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobRepo) UpdateStatus(ctx context.Context, jobID uuid.UUID, from, to string) (*models.Job, error) {
	args := m.Called(ctx, jobID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobRepo) SetAmount(ctx context.Context, jobID uuid.UUID, amount float64) (*models.Job, error) {
	args := m.Called(ctx, jobID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

type mockJobSettler struct {
	mock.Mock
}

func (m *mockJobSettler) SettleJobCompletion(ctx context.Context, jobID uuid.UUID, from string, payout float64, description string) (*models.Job, error) {
	args := m.Called(ctx, jobID, from, payout, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func newTestJobService(repo JobRepository, settler JobSettler, defaultAmount float64) *JobService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewJobService(repo, settler, nil, log, defaultAmount)
}

func TestCreateJob_RejectsShortTitle(t *testing.T) {
	svc := newTestJobService(new(mockJobRepo), new(mockJobSettler), 0)

	_, err := svc.CreateJob(context.Background(), uuid.New(), CreateJobInput{
		Title:       "ab",
		Description: "fix the kitchen sink, it leaks badly",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestCreateJob_StartsAsRequested(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newTestJobService(repo, new(mockJobSettler), 0)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(job *models.Job) bool {
		return job.Status == models.JobStatusRequested && job.Category == "general"
	})).Return(nil)

	job, err := svc.CreateJob(context.Background(), uuid.New(), CreateJobInput{
		Title:       "Fix leaking sink",
		Description: "The kitchen sink has been leaking for a week",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusRequested, job.Status)
	repo.AssertExpectations(t)
}

func TestCompleteJob_CreditsArtisan(t *testing.T) {
	repo := new(mockJobRepo)
	settler := new(mockJobSettler)
	svc := newTestJobService(repo, settler, 0)

	clientID := uuid.New()
	artisanID := uuid.New()
	jobID := uuid.New()
	amount := 5000.0

	pending := &models.Job{
		ID:        jobID,
		ClientID:  clientID,
		ArtisanID: &artisanID,
		Title:     "Rewire living room",
		Status:    models.JobStatusPendingCompletion,
		Amount:    &amount,
	}
	completed := *pending
	completed.Status = models.JobStatusCompleted

	repo.On("GetByID", mock.Anything, jobID).Return(pending, nil)
	settler.On("SettleJobCompletion", mock.Anything, jobID, models.JobStatusPendingCompletion, amount, mock.Anything).
		Return(&completed, nil)

	job, err := svc.CompleteJob(context.Background(), jobID, clientID)

	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	settler.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCompleteJob_NoBudgetPaysNothing(t *testing.T) {
	repo := new(mockJobRepo)
	settler := new(mockJobSettler)
	svc := newTestJobService(repo, settler, 0)

	clientID := uuid.New()
	artisanID := uuid.New()
	jobID := uuid.New()

	pending := &models.Job{
		ID:        jobID,
		ClientID:  clientID,
		ArtisanID: &artisanID,
		Status:    models.JobStatusPendingCompletion,
	}
	completed := *pending
	completed.Status = models.JobStatusCompleted

	repo.On("GetByID", mock.Anything, jobID).Return(pending, nil)
	settler.On("SettleJobCompletion", mock.Anything, jobID, models.JobStatusPendingCompletion, 0.0, mock.Anything).
		Return(&completed, nil)

	_, err := svc.CompleteJob(context.Background(), jobID, clientID)

	assert.NoError(t, err)
	settler.AssertExpectations(t)
}

func TestCompleteJob_FallbackAmount(t *testing.T) {
	repo := new(mockJobRepo)
	settler := new(mockJobSettler)
	svc := newTestJobService(repo, settler, 2000)

	clientID := uuid.New()
	artisanID := uuid.New()
	jobID := uuid.New()

	pending := &models.Job{
		ID:        jobID,
		ClientID:  clientID,
		ArtisanID: &artisanID,
		Status:    models.JobStatusInProgress,
	}
	completed := *pending
	completed.Status = models.JobStatusCompleted

	repo.On("GetByID", mock.Anything, jobID).Return(pending, nil)
	settler.On("SettleJobCompletion", mock.Anything, jobID, models.JobStatusInProgress, 2000.0, mock.Anything).
		Return(&completed, nil)

	_, err := svc.CompleteJob(context.Background(), jobID, clientID)

	assert.NoError(t, err)
	settler.AssertExpectations(t)
}

func TestCompleteJob_LedgerFailureFailsCompletion(t *testing.T) {
	repo := new(mockJobRepo)
	settler := new(mockJobSettler)
	svc := newTestJobService(repo, settler, 0)

	clientID := uuid.New()
	artisanID := uuid.New()
	jobID := uuid.New()
	amount := 5000.0

	repo.On("GetByID", mock.Anything, jobID).Return(&models.Job{
		ID:        jobID,
		ClientID:  clientID,
		ArtisanID: &artisanID,
		Status:    models.JobStatusInProgress,
		Amount:    &amount,
	}, nil)
	settler.On("SettleJobCompletion", mock.Anything, jobID, models.JobStatusInProgress, amount, mock.Anything).
		Return(nil, apperror.Wrap(errors.New("connection reset"), apperror.ErrCodeLedgerWrite, "commit job settlement"))

	job, err := svc.CompleteJob(context.Background(), jobID, clientID)

	assert.Nil(t, job)
	assert.True(t, apperror.Is(err, apperror.ErrCodeLedgerWrite))
}

func TestCompleteJob_WrongClient(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newTestJobService(repo, new(mockJobSettler), 0)

	jobID := uuid.New()
	repo.On("GetByID", mock.Anything, jobID).Return(&models.Job{
		ID:       jobID,
		ClientID: uuid.New(),
		Status:   models.JobStatusPendingCompletion,
	}, nil)

	_, err := svc.CompleteJob(context.Background(), jobID, uuid.New())

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestCancelJob_AfterWorkStarted(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newTestJobService(repo, new(mockJobSettler), 0)

	jobID := uuid.New()
	clientID := uuid.New()
	repo.On("GetByID", mock.Anything, jobID).Return(&models.Job{
		ID:       jobID,
		ClientID: clientID,
		Status:   models.JobStatusInProgress,
	}, nil)

	_, err := svc.CancelJob(context.Background(), jobID, clientID)

	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidTransition))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStartJob_OnlyAssignedArtisan(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newTestJobService(repo, new(mockJobSettler), 0)

	jobID := uuid.New()
	assigned := uuid.New()
	repo.On("GetByID", mock.Anything, jobID).Return(&models.Job{
		ID:        jobID,
		ClientID:  uuid.New(),
		ArtisanID: &assigned,
		Status:    models.JobStatusAccepted,
	}, nil)

	_, err := svc.StartJob(context.Background(), jobID, uuid.New())

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestSetBudget_SettledJob(t *testing.T) {
	repo := new(mockJobRepo)
	svc := newTestJobService(repo, new(mockJobSettler), 0)

	jobID := uuid.New()
	clientID := uuid.New()
	repo.On("GetByID", mock.Anything, jobID).Return(&models.Job{
		ID:       jobID,
		ClientID: clientID,
		Status:   models.JobStatusCompleted,
	}, nil)

	_, err := svc.SetBudget(context.Background(), jobID, clientID, 3000)

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
}

// lifecycleRepo is a stateful in-memory stand-in for the jobs table,
// honoring the same conditional-update semantics the SQL layer has.
type lifecycleRepo struct {
	mockJobRepo
	mu  sync.Mutex
	job *models.Job
}

func (r *lifecycleRepo) Create(ctx context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = uuid.New()
	stored := *job
	r.job = &stored
	return nil
}

func (r *lifecycleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.job == nil || r.job.ID != id {
		return nil, apperror.ErrJobNotFound
	}
	copied := *r.job
	return &copied, nil
}

func (r *lifecycleRepo) Assign(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.job == nil || r.job.ID != jobID {
		return nil, apperror.ErrJobNotFound
	}
	if r.job.ArtisanID != nil {
		return nil, apperror.ErrAlreadyAssigned
	}
	if r.job.Status != models.JobStatusRequested {
		return nil, apperror.InvalidTransition(r.job.Status, models.JobStatusAccepted)
	}
	id := artisanID
	r.job.ArtisanID = &id
	r.job.Status = models.JobStatusAccepted
	copied := *r.job
	return &copied, nil
}

func (r *lifecycleRepo) UpdateStatus(ctx context.Context, jobID uuid.UUID, from, to string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.job == nil || r.job.ID != jobID {
		return nil, apperror.ErrJobNotFound
	}
	if r.job.Status != from {
		return nil, apperror.InvalidTransition(r.job.Status, to)
	}
	r.job.Status = to
	copied := *r.job
	return &copied, nil
}

func (r *lifecycleRepo) SetAmount(ctx context.Context, jobID uuid.UUID, amount float64) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.job == nil || r.job.ID != jobID {
		return nil, apperror.ErrJobNotFound
	}
	r.job.Amount = &amount
	copied := *r.job
	return &copied, nil
}

// lifecycleSettler settles completions against the same in-memory job the
// lifecycleRepo holds, recording each payout it applied.
type lifecycleSettler struct {
	repo    *lifecycleRepo
	payouts []float64
}

func (s *lifecycleSettler) SettleJobCompletion(ctx context.Context, jobID uuid.UUID, from string, payout float64, description string) (*models.Job, error) {
	job, err := s.repo.UpdateStatus(ctx, jobID, from, models.JobStatusCompleted)
	if err != nil {
		return nil, err
	}
	if payout > 0 {
		s.payouts = append(s.payouts, payout)
	}
	return job, nil
}

func TestJobLifecycle_FullFlow(t *testing.T) {
	repo := &lifecycleRepo{}
	settler := &lifecycleSettler{repo: repo}
	svc := newTestJobService(repo, settler, 0)

	ctx := context.Background()
	clientID := uuid.New()
	artisanID := uuid.New()

	job, err := svc.CreateJob(ctx, clientID, CreateJobInput{
		Title:       "Install ceiling fans",
		Description: "Three ceiling fans in a two-bedroom flat in Yaba",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusRequested, job.Status)

	_, err = svc.SetBudget(ctx, job.ID, clientID, 5000)
	assert.NoError(t, err)

	accepted, err := svc.AcceptJob(ctx, job.ID, artisanID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusAccepted, accepted.Status)

	started, err := svc.StartJob(ctx, job.ID, artisanID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, started.Status)

	flagged, err := svc.RequestCompletion(ctx, job.ID, artisanID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusPendingCompletion, flagged.Status)

	done, err := svc.CompleteJob(ctx, job.ID, clientID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, done.Status)
	assert.Equal(t, []float64{5000}, settler.payouts)

	// Settled jobs accept no further transitions.
	_, err = svc.CancelJob(ctx, job.ID, clientID)
	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidTransition))
}

// claimOnceRepo mimics the database's conditional assignment update: the
// first claim wins, every later claim sees the already-taken error.
type claimOnceRepo struct {
	mockJobRepo
	mu  sync.Mutex
	job *models.Job
}

func (r *claimOnceRepo) Assign(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.job.ArtisanID != nil {
		return nil, apperror.ErrAlreadyAssigned
	}
	id := artisanID
	r.job.ArtisanID = &id
	r.job.Status = models.JobStatusAccepted
	claimed := *r.job
	return &claimed, nil
}

func TestAcceptJob_ConcurrentClaims(t *testing.T) {
	repo := &claimOnceRepo{job: &models.Job{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Status:   models.JobStatusRequested,
	}}
	svc := newTestJobService(repo, new(mockJobSettler), 0)

	const artisans = 8
	results := make(chan error, artisans)
	var wg sync.WaitGroup
	for i := 0; i < artisans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AcceptJob(context.Background(), repo.job.ID, uuid.New())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.True(t, apperror.Is(err, apperror.ErrCodeAlreadyAssigned))
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, artisans-1, losses)
}

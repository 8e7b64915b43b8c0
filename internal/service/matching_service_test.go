package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/craftlink/craftlink-backend/internal/models"
)

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func openJob(title string, state *string, lat, lng *float64) models.Job {
	return models.Job{
		ID:           uuid.New(),
		ClientID:     uuid.New(),
		Title:        title,
		Status:       models.JobStatusRequested,
		ServiceState: state,
		Latitude:     lat,
		Longitude:    lng,
	}
}

// Ikeja-based artisan, 32 km radius. Surulere is ~12 km away and visible,
// Abeokuta is ~70 km away and not.
func TestVisibleJobs_DistanceFilter(t *testing.T) {
	svc := NewMatchingService(32)
	profile := &models.ArtisanProfile{
		UserID:    uuid.New(),
		Available: true,
		State:     strPtr("Lagos"),
		Latitude:  f64Ptr(6.6018),
		Longitude: f64Ptr(3.3515),
	}

	near := openJob("Tiling in Surulere", strPtr("Lagos"), f64Ptr(6.5244), f64Ptr(3.3792))
	far := openJob("Roofing in Abeokuta", strPtr("Lagos"), f64Ptr(7.1475), f64Ptr(3.3619))

	visible := svc.VisibleJobs(profile, []models.Job{near, far})

	assert.Len(t, visible, 1)
	assert.Equal(t, near.ID, visible[0].ID)
}

func TestVisibleJobs_StateFilter(t *testing.T) {
	svc := NewMatchingService(32)
	profile := &models.ArtisanProfile{
		UserID:    uuid.New(),
		Available: true,
		State:     strPtr("Lagos"),
	}

	lagos := openJob("Painting", strPtr("lagos"), nil, nil)
	abuja := openJob("Plumbing", strPtr("Abuja"), nil, nil)
	noState := openJob("Carpentry", nil, nil, nil)

	visible := svc.VisibleJobs(profile, []models.Job{lagos, abuja, noState})

	// Case-insensitive match; a job without a state passes the filter.
	assert.Len(t, visible, 2)
	assert.Equal(t, lagos.ID, visible[0].ID)
	assert.Equal(t, noState.ID, visible[1].ID)
}

// An artisan with coordinates never sees a job whose location is unknown.
func TestVisibleJobs_JobWithoutCoordinatesHidden(t *testing.T) {
	svc := NewMatchingService(32)
	profile := &models.ArtisanProfile{
		UserID:    uuid.New(),
		Available: true,
		Latitude:  f64Ptr(6.6018),
		Longitude: f64Ptr(3.3515),
	}

	located := openJob("Located", nil, f64Ptr(6.6), f64Ptr(3.35))
	unlocated := openJob("Unlocated", nil, nil, nil)

	visible := svc.VisibleJobs(profile, []models.Job{located, unlocated})

	assert.Len(t, visible, 1)
	assert.Equal(t, located.ID, visible[0].ID)
}

// An artisan without coordinates skips the distance filter entirely.
func TestVisibleJobs_ArtisanWithoutCoordinates(t *testing.T) {
	svc := NewMatchingService(32)
	profile := &models.ArtisanProfile{
		UserID:    uuid.New(),
		Available: true,
	}

	jobs := []models.Job{
		openJob("Anywhere", nil, f64Ptr(9.0765), f64Ptr(7.3986)),
		openJob("Unlocated", nil, nil, nil),
	}

	visible := svc.VisibleJobs(profile, jobs)

	assert.Len(t, visible, 2)
}

func TestVisibleJobs_PreservesOrder(t *testing.T) {
	svc := NewMatchingService(32)
	profile := &models.ArtisanProfile{UserID: uuid.New(), Available: true}

	jobs := []models.Job{
		openJob("first", nil, nil, nil),
		openJob("second", nil, nil, nil),
		openJob("third", nil, nil, nil),
	}

	visible := svc.VisibleJobs(profile, jobs)

	assert.Len(t, visible, 3)
	for i, job := range jobs {
		assert.Equal(t, job.ID, visible[i].ID)
	}
}

func TestVisibleJobs_UnavailableArtisan(t *testing.T) {
	svc := NewMatchingService(32)
	profile := &models.ArtisanProfile{UserID: uuid.New(), Available: false}

	visible := svc.VisibleJobs(profile, []models.Job{openJob("anything", nil, nil, nil)})

	assert.Empty(t, visible)
}

func TestVisibleJobs_OnlyRequestedJobs(t *testing.T) {
	svc := NewMatchingService(32)
	profile := &models.ArtisanProfile{UserID: uuid.New(), Available: true}

	taken := openJob("taken", nil, nil, nil)
	taken.Status = models.JobStatusAccepted

	visible := svc.VisibleJobs(profile, []models.Job{taken, openJob("open", nil, nil, nil)})

	assert.Len(t, visible, 1)
	assert.Equal(t, "open", visible[0].Title)
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Lagos Island to Ibadan, roughly 120 km.
	d := haversineKm(6.4550, 3.3941, 7.3775, 3.9470)
	assert.InDelta(t, 120, d, 10)

	// Zero distance for identical points.
	assert.InDelta(t, 0, haversineKm(6.5, 3.4, 6.5, 3.4), 1e-9)
}

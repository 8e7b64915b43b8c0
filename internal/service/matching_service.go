package service

import (
	"math"
	"strings"

	"github.com/craftlink/craftlink-backend/internal/models"
)

const earthRadiusKm = 6371.0

// MatchingService decides which open jobs an artisan gets to see. The rules
// are pure and deterministic: a state filter and a great-circle distance
// filter, both applied only when the data to apply them exists.
type MatchingService struct {
	radiusKm float64
}

func NewMatchingService(radiusKm float64) *MatchingService {
	return &MatchingService{radiusKm: radiusKm}
}

// RadiusKm returns the configured visibility radius.
func (s *MatchingService) RadiusKm() float64 {
	return s.radiusKm
}

// VisibleJobs filters the given jobs down to the ones the artisan should
// see, preserving the input order.
//
// State filter: when both the artisan and the job carry a state, they must
// match (case-insensitive). A job without a state passes.
//
// Distance filter: when the artisan shared coordinates, a job must lie
// within the radius; a job without coordinates is hidden rather than shown
// at an unknown distance. An artisan without coordinates skips the filter.
func (s *MatchingService) VisibleJobs(profile *models.ArtisanProfile, jobs []models.Job) []models.Job {
	if profile == nil || !profile.Available {
		return nil
	}

	visible := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if s.matches(profile, &job) {
			visible = append(visible, job)
		}
	}
	return visible
}

func (s *MatchingService) matches(profile *models.ArtisanProfile, job *models.Job) bool {
	if job.Status != models.JobStatusRequested {
		return false
	}

	if profile.State != nil && job.ServiceState != nil {
		if !strings.EqualFold(strings.TrimSpace(*profile.State), strings.TrimSpace(*job.ServiceState)) {
			return false
		}
	}

	if profile.HasCoordinates() {
		if !job.HasCoordinates() {
			return false
		}
		distance := haversineKm(*profile.Latitude, *profile.Longitude, *job.Latitude, *job.Longitude)
		if distance > s.radiusKm {
			return false
		}
	}

	return true
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

package orbital

import (
	"context"
	"fmt"
	"time"

	"SignalBoard/internal/domain/models"
)

// Propagator computes ground tracks from TLEs. It implements
// repository.OrbitalSource: Fetch serves the sub-satellite latitude.
type Propagator struct {
	now func() time.Time
}

func NewPropagator(now func() time.Time) *Propagator {
	if now == nil {
		now = time.Now
	}
	return &Propagator{now: now}
}

// Position returns the sub-satellite point at at.
func (p *Propagator) Position(line1, line2 string, at time.Time) (models.GeoPoint, error) {
	el, err := ParseTLE(line1, line2)
	if err != nil {
		return models.GeoPoint{}, err
	}
	lat, lon, _ := Geodetic(Propagate(el, at), at)
	return models.GeoPoint{Lat: lat, Lon: lon}, nil
}

func (p *Propagator) Fetch(_ context.Context, s models.Signal) (models.FetchResult, error) {
	if s.Degraded {
		return models.FetchResult{}, models.Unavailable("orbital", fmt.Errorf("%s is marked degraded", s.Name))
	}

	at := p.now()
	geo, err := p.Position(s.TLE1, s.TLE2, at)
	if err != nil {
		return models.FetchResult{}, models.Unavailable("orbital", err)
	}
	return models.FetchResult{
		Name:      s.Name,
		Value:     geo.Lat,
		Geo:       &geo,
		FetchedAt: at,
		Status:    models.StatusOK,
	}, nil
}

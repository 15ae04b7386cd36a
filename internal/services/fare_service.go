package services

import (
	"math"
	"time"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

// StationLookup is the coordinate collaborator FareService reads through.
type StationLookup interface {
	GetCoordinates(name string) (x, y float64, ok bool, err error)
}

const (
	// flat per-passenger fare (paise) when either station is unknown
	fallbackFarePaise = 50 * 100
	// normalized coordinate units to kilometers
	distanceScaleKm = 100.0
	// base fare curve: 10 + 5/km, in rupees
	baseFareRupees = 10.0
	perKmRupees    = 5.0
	peakMultiplier = 1.25
	// ETA model: 30 km/h average plus fixed dwell
	avgSpeedKmh  = 30.0
	dwellMinutes = 5
)

// FareService computes fares deterministically: for fixed inputs and a
// fixed station map the quote is always identical. The peak window is
// evaluated in server local time, a deliberate simplification since
// tickets carry no travel time.
type FareService struct {
	Stations StationLookup
}

// Quote returns (fare, distance, ETA, peak) for a journey. An unknown
// station is not an error: the quote degrades to a flat 50.00 per
// passenger with zero distance and ETA. A failed lookup is an error; a
// transient store outage must never price a real route at the flat rate.
func (s FareService) Quote(source, destination string, passengers int, now time.Time) (models.FareQuote, error) {
	source = utils.NormalizeStation(source)
	destination = utils.NormalizeStation(destination)

	x1, y1, ok1, err := s.Stations.GetCoordinates(source)
	if err != nil {
		return models.FareQuote{}, err
	}
	x2, y2, ok2, err := s.Stations.GetCoordinates(destination)
	if err != nil {
		return models.FareQuote{}, err
	}
	if !ok1 || !ok2 {
		return models.FareQuote{
			Fare:       fallbackFarePaise * int64(passengers),
			SingleFare: fallbackFarePaise,
			Passengers: passengers,
		}, nil
	}

	dist := math.Hypot(x2-x1, y2-y1) * distanceScaleKm
	eta := int(math.Round(dist/avgSpeedKmh*60)) + dwellMinutes

	base := baseFareRupees + dist*perKmRupees
	peak := isPeakHour(now.Hour())
	if peak {
		base *= peakMultiplier
	}

	// round to the nearest Rs 5 with a floor of Rs 10
	single := math.Round(base/5) * 5
	if single < 10 {
		single = 10
	}
	singlePaise := utils.RupeesToPaise(single)

	return models.FareQuote{
		Fare:       singlePaise * int64(passengers),
		SingleFare: singlePaise,
		DistanceKm: math.Round(dist*10) / 10,
		ETAMinutes: eta,
		Peak:       peak,
		Passengers: passengers,
	}, nil
}

// Peak windows: 8-10 and 17-19, inclusive.
func isPeakHour(hour int) bool {
	return (hour >= 8 && hour <= 10) || (hour >= 17 && hour <= 19)
}

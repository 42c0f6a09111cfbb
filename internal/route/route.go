// Package route estimates driving distance and waypoints for a planned trip.
package route

import (
	"context"
	"math"
	"strings"
)

// Waypoint is one stop on an estimated route.
type Waypoint struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Route is the estimate returned to trip planners.
type Route struct {
	Waypoints           []Waypoint `json:"waypoints"`
	TotalDistanceMiles  float64    `json:"total_distance_miles"`
	EstimatedDriveHours float64    `json:"estimated_driving_time"`
}

// Estimator produces a route for current -> pickup -> dropoff.
type Estimator interface {
	Estimate(ctx context.Context, current, pickup, dropoff string) (Route, error)
}

const (
	milesPerDegree  = 69.0
	averageSpeedMPH = 60.0
	restStopAfterMi = 300.0
	defaultCityKey  = "atlanta"
	restStopName    = "Rest Stop"
	restStopAddress = "Highway Rest Area"
)

type city struct {
	name     string
	lat, lng float64
}

var cities = map[string]city{
	"atlanta":      {"Atlanta, GA", 33.7490, -84.3880},
	"charlotte":    {"Charlotte, NC", 35.2271, -80.8431},
	"richmond":     {"Richmond, VA", 37.5407, -77.4360},
	"miami":        {"Miami, FL", 25.7617, -80.1918},
	"nashville":    {"Nashville, TN", 36.1627, -86.7816},
	"jacksonville": {"Jacksonville, FL", 30.3322, -81.6557},
	"savannah":     {"Savannah, GA", 32.0835, -81.0998},
	"tampa":        {"Tampa, FL", 27.9506, -82.4572},
	"macon":        {"Macon, GA", 32.8407, -83.6324},
}

// CityTable estimates routes from a fixed table of southeastern US cities.
// Distances are straight-line in degrees scaled to miles; unknown places are
// placed at Atlanta's coordinates but keep the caller's text as the address.
type CityTable struct{}

// NewCityTable returns the table-backed Estimator.
func NewCityTable() *CityTable { return &CityTable{} }

// Estimate never fails; the error return satisfies Estimator for providers
// that call out to a mapping service.
func (CityTable) Estimate(_ context.Context, current, pickup, dropoff string) (Route, error) {
	cur := lookup(current)
	pick := lookup(pickup)
	drop := lookup(dropoff)

	total := distance(cur, pick) + distance(pick, drop)

	waypoints := []Waypoint{
		{Name: "Current Location", Address: cur.name, Lat: cur.lat, Lng: cur.lng},
		{Name: "Pickup Location", Address: pick.name, Lat: pick.lat, Lng: pick.lng},
	}
	if total > restStopAfterMi {
		waypoints = append(waypoints, Waypoint{
			Name:    restStopName,
			Address: restStopAddress,
			Lat:     (pick.lat + drop.lat) / 2,
			Lng:     (pick.lng + drop.lng) / 2,
		})
	}
	waypoints = append(waypoints, Waypoint{Name: "Dropoff Location", Address: drop.name, Lat: drop.lat, Lng: drop.lng})

	return Route{
		Waypoints:           waypoints,
		TotalDistanceMiles:  round1(total),
		EstimatedDriveHours: round1(total / averageSpeedMPH),
	}, nil
}

// lookup matches on the text before the first comma, case-insensitively.
func lookup(location string) city {
	key, _, _ := strings.Cut(location, ",")
	if c, ok := cities[strings.ToLower(strings.TrimSpace(key))]; ok {
		return c
	}
	fallback := cities[defaultCityKey]
	fallback.name = location
	return fallback
}

func distance(a, b city) float64 {
	return math.Hypot(a.lat-b.lat, a.lng-b.lng) * milesPerDegree
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

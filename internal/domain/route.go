package domain

import "strings"

// Stop is a single scheduled stop on a route. Array position within the
// route's stop list is the sequence; there is no separate order field.
type Stop struct {
	LocationName       string `json:"location_name"`
	ScheduledArrival   string `json:"scheduled_arrival"`             // "HH:MM"
	ScheduledDeparture string `json:"scheduled_departure,omitempty"` // "HH:MM"
	TravelTimeToNext   int    `json:"travel_time_to_next,omitempty"` // minutes, 0 = unknown
}

// Route represents an inter-city bus route with its ordered stop list.
// Routes are soft-deactivated rather than deleted so historical trips
// keep a valid reference.
type Route struct {
	ID              string
	RouteNumber     string
	Name            string
	Origin          string
	Destination     string
	TotalDistanceKm float64
	Stops           []Stop
	Active          bool
}

// MatchStop resolves a reported stop name against an ordered stop list.
// Matching is case-insensitive symmetric containment: a stop matches if
// its name contains the query or the query contains the name, which
// tolerates operator abbreviations like "colombo fort" for "Colombo".
// The first stop in route order wins; overlapping names ("Kandy" vs
// "Kandy City") therefore resolve to the earlier stop.
func MatchStop(stops []Stop, query string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0, false
	}

	for i, stop := range stops {
		name := strings.ToLower(stop.LocationName)
		if strings.Contains(name, q) || strings.Contains(q, name) {
			return i, true
		}
	}

	return 0, false
}

// NextStop returns the stop after the one matching currentName, or nil
// if currentName is unmatched or already the last stop.
func (r *Route) NextStop(currentName string) *Stop {
	return NextStop(r.Stops, currentName)
}

// PreviousStop returns the stop before the one matching currentName, or
// nil if currentName is unmatched or the first stop.
func (r *Route) PreviousStop(currentName string) *Stop {
	idx, ok := MatchStop(r.Stops, currentName)
	if !ok || idx == 0 {
		return nil
	}
	return &r.Stops[idx-1]
}

// StopsBetween returns the stops strictly between fromName and toName in
// route order. Empty if either name is unmatched or out of order.
func (r *Route) StopsBetween(fromName, toName string) []Stop {
	fromIdx, ok := MatchStop(r.Stops, fromName)
	if !ok {
		return nil
	}
	toIdx, ok := MatchStop(r.Stops, toName)
	if !ok || fromIdx >= toIdx {
		return nil
	}
	return r.Stops[fromIdx+1 : toIdx]
}

// NextStop returns the stop following the one matching currentName in
// an arbitrary stop list (a route's or a trip's snapshot).
func NextStop(stops []Stop, currentName string) *Stop {
	idx, ok := MatchStop(stops, currentName)
	if !ok || idx >= len(stops)-1 {
		return nil
	}
	return &stops[idx+1]
}

// StopNames returns the location names in sequence order.
func StopNames(stops []Stop) []string {
	names := make([]string, 0, len(stops))
	for _, s := range stops {
		names = append(names, s.LocationName)
	}
	return names
}

package service

import (
	"fmt"

	"bustrack/internal/domain"
)

// DefaultTravelMinutes is assumed between stops whose schedule carries
// no explicit travel time.
const DefaultTravelMinutes = 20

// FinalDestination is the projection for a bus at its last stop.
const FinalDestination = "Final destination"

// EstimateArrival projects when the bus will reach nextStop, given the
// travel time from currentStop and the delay accumulated so far. The
// result is a display string, never persisted; read-side queries
// recompute it from the latest location event.
func EstimateArrival(currentStop, nextStop *domain.Stop, accumulatedDelayMinutes int) string {
	if nextStop == nil {
		return FinalDestination
	}

	travelMinutes := DefaultTravelMinutes
	if currentStop != nil && currentStop.TravelTimeToNext > 0 {
		travelMinutes = currentStop.TravelTimeToNext
	}

	// Negative delay (running early) shortens the projected wait.
	return FormatDuration(travelMinutes + accumulatedDelayMinutes)
}

// FormatDuration renders a minute count as a rider-facing string.
func FormatDuration(totalMinutes int) string {
	if totalMinutes < 5 {
		return "Arriving soon"
	}
	if totalMinutes < 60 {
		return fmt.Sprintf("%d minutes", totalMinutes)
	}

	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if minutes == 0 {
		if hours > 1 {
			return fmt.Sprintf("%d hours", hours)
		}
		return "1 hour"
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

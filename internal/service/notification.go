package service

import (
	"context"
	"log"
	"time"

	"bustrack/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTripStarted   NotificationType = "TRIP_STARTED"
	NotificationTripCompleted NotificationType = "TRIP_COMPLETED"
	NotificationTripCancelled NotificationType = "TRIP_CANCELLED"
	NotificationBusDelayed    NotificationType = "BUS_DELAYED"
)

// Notification represents a notification to be delivered.
type Notification struct {
	Type          NotificationType
	RunningNumber string
	Title         string
	Message       string
	CreatedAt     time.Time
}

// NotificationService handles notification delivery. The current
// implementation logs; a push/SMS provider would slot in behind the
// same methods.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyTripStarted announces that a trip has departed its first stop.
func (s *NotificationService) NotifyTripStarted(ctx context.Context, trip *domain.Trip) error {
	return s.send(Notification{
		Type:          NotificationTripStarted,
		RunningNumber: trip.RunningNumber,
		Title:         "Trip Started",
		Message:       "Bus " + trip.BusRegistrationNumber + " departed at " + trip.ActualDeparture,
	})
}

// NotifyTripCompleted announces that a trip reached its final stop.
func (s *NotificationService) NotifyTripCompleted(ctx context.Context, trip *domain.Trip) error {
	return s.send(Notification{
		Type:          NotificationTripCompleted,
		RunningNumber: trip.RunningNumber,
		Title:         "Trip Completed",
		Message:       "Bus " + trip.BusRegistrationNumber + " arrived at " + trip.ActualArrival,
	})
}

// NotifyTripCancelled announces a cancellation.
func (s *NotificationService) NotifyTripCancelled(ctx context.Context, trip *domain.Trip) error {
	return s.send(Notification{
		Type:          NotificationTripCancelled,
		RunningNumber: trip.RunningNumber,
		Title:         "Trip Cancelled",
		Message:       "Trip " + trip.RunningNumber + " has been cancelled",
	})
}

// NotifyDelay announces that a trip is running behind schedule.
func (s *NotificationService) NotifyDelay(ctx context.Context, trip *domain.Trip, event *domain.LocationEvent) error {
	return s.send(Notification{
		Type:          NotificationBusDelayed,
		RunningNumber: trip.RunningNumber,
		Title:         "Bus Delayed",
		Message:       "Bus " + trip.BusRegistrationNumber + " is running " + FormatDuration(event.DelayMinutes) + " behind schedule at " + event.StopName,
	})
}

func (s *NotificationService) send(n Notification) error {
	n.CreatedAt = time.Now()
	log.Printf("[NOTIFICATION] type=%s trip=%s: %s - %s", n.Type, n.RunningNumber, n.Title, n.Message)
	return nil
}

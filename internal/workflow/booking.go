// Package workflow holds the status machines for bookings and agent
// verification. Every allowed transition is listed in a table; anything not
// listed is rejected with ErrInvalidTransition.
package workflow

import (
	"errors"
	"fmt"

	"rentease_backend/internal/models"
)

var (
	ErrInvalidTransition = errors.New("transition not allowed")
	ErrActorNotAllowed   = errors.New("actor not allowed to perform this action")
	ErrReasonRequired    = errors.New("reason is required")
)

// TransitionError carries the rejected (state, action) pair.
type TransitionError struct {
	Entity string
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from %q", e.Entity, e.Action, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

type BookingAction string

const (
	BookingConfirm    BookingAction = "confirm"
	BookingDecline    BookingAction = "decline"
	BookingReschedule BookingAction = "reschedule"
	BookingComplete   BookingAction = "complete"
	BookingCancel     BookingAction = "cancel"
)

// BookingActor - who is acting on the booking relative to it.
type BookingActor string

const (
	ActorBookingAgent   BookingActor = "agent"
	ActorBookingStudent BookingActor = "student"
)

type bookingKey struct {
	from   models.BookingStatus
	action BookingAction
}

var bookingTransitions = map[bookingKey]models.BookingStatus{
	{models.BookingStatusPending, BookingConfirm}:      models.BookingStatusConfirmed,
	{models.BookingStatusPending, BookingDecline}:      models.BookingStatusCancelled,
	{models.BookingStatusPending, BookingReschedule}:   models.BookingStatusPending,
	{models.BookingStatusConfirmed, BookingReschedule}: models.BookingStatusConfirmed,
	{models.BookingStatusConfirmed, BookingComplete}:   models.BookingStatusCompleted,
	{models.BookingStatusPending, BookingCancel}:       models.BookingStatusCancelled,
	{models.BookingStatusConfirmed, BookingCancel}:     models.BookingStatusCancelled,
}

var bookingActors = map[BookingAction]BookingActor{
	BookingConfirm:    ActorBookingAgent,
	BookingDecline:    ActorBookingAgent,
	BookingReschedule: ActorBookingAgent,
	BookingComplete:   ActorBookingAgent,
	BookingCancel:     ActorBookingStudent,
}

// NextBookingStatus returns the status a booking moves to, or a
// *TransitionError when the pair is not in the table.
func NextBookingStatus(from models.BookingStatus, action BookingAction) (models.BookingStatus, error) {
	next, ok := bookingTransitions[bookingKey{from, action}]
	if !ok {
		return "", &TransitionError{Entity: "booking", From: string(from), Action: string(action)}
	}
	return next, nil
}

// BookingActorFor reports which participant may perform action.
func BookingActorFor(action BookingAction) (BookingActor, bool) {
	a, ok := bookingActors[action]
	return a, ok
}

// CanDeleteBooking - only terminal bookings may be removed.
func CanDeleteBooking(status models.BookingStatus) bool {
	return status.Terminal()
}

// AllowedBookingActions lists the actions available from status, in a stable order.
func AllowedBookingActions(status models.BookingStatus) []BookingAction {
	order := []BookingAction{BookingConfirm, BookingDecline, BookingReschedule, BookingComplete, BookingCancel}
	var out []BookingAction
	for _, a := range order {
		if _, ok := bookingTransitions[bookingKey{status, a}]; ok {
			out = append(out, a)
		}
	}
	return out
}

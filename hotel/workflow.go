package hotel

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// AttemptState tracks where a booking attempt is in its lifecycle.
type AttemptState int

const (
	StateIdle AttemptState = iota
	StateLoading
	StateReady
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s AttemptState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrAttemptClosed is returned once the attempt has been torn down;
	// results of calls that were in flight at Close are discarded.
	ErrAttemptClosed = errors.New("booking attempt closed")
	// ErrSubmitInFlight is returned when Submit is called while an earlier
	// submission has not resolved yet. Exactly one backend call runs at a
	// time per attempt.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrStayInvalid signals that validation blocked the submission; the
	// field errors are on the attempt.
	ErrStayInvalid = errors.New("stay failed validation")
)

// BookingAttempt drives one booking of one room: load the room, validate
// the stay locally, submit it, and settle on a confirmation code or a
// failure. Transitions happen only in response to a caller action or a
// completed backend call; there is no background work and no retry.
type BookingAttempt struct {
	client *Client

	mu          sync.Mutex
	state       AttemptState
	closed      bool
	room        *Room
	fieldErrors map[string]string
	confirmCode string
	lastErr     error
}

// NewBookingAttempt starts an attempt in the idle state.
func NewBookingAttempt(client *Client) *BookingAttempt {
	return &BookingAttempt{client: client, state: StateIdle}
}

// Start fetches the room and readies the attempt. A fetch failure is
// terminal for this attempt; the caller starts a fresh one to retry.
func (a *BookingAttempt) Start(ctx context.Context, roomID int64) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrAttemptClosed
	}
	if a.state != StateIdle {
		state := a.state
		a.mu.Unlock()
		return fmt.Errorf("cannot start from %s state", state)
	}
	a.state = StateLoading
	a.mu.Unlock()

	room, err := a.client.RoomByID(ctx, roomID)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrAttemptClosed
	}
	if err != nil {
		a.state = StateFailed
		a.lastErr = err
		return err
	}
	a.room = room
	a.state = StateReady
	return nil
}

// Submit validates the stay and, if clean, sends it to the backend.
// Validation failures return ErrStayInvalid with the per-field messages on
// FieldErrors and never reach the backend. A failed submission may be
// corrected and resubmitted; a succeeded one makes further Submit calls
// no-ops that return the same confirmation code.
func (a *BookingAttempt) Submit(ctx context.Context, stay Stay) (string, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return "", ErrAttemptClosed
	}
	switch a.state {
	case StateSucceeded:
		code := a.confirmCode
		a.mu.Unlock()
		return code, nil
	case StateSubmitting, StateValidating:
		a.mu.Unlock()
		return "", ErrSubmitInFlight
	case StateReady:
	case StateFailed:
		if a.room == nil {
			a.mu.Unlock()
			return "", fmt.Errorf("cannot submit: room was never loaded")
		}
	default:
		state := a.state
		a.mu.Unlock()
		return "", fmt.Errorf("cannot submit from %s state", state)
	}

	a.state = StateValidating
	if errs := ValidateStay(stay, Today()); len(errs) > 0 {
		a.fieldErrors = errs
		a.state = StateReady
		a.mu.Unlock()
		return "", ErrStayInvalid
	}
	a.fieldErrors = nil
	a.state = StateSubmitting
	roomID := a.room.ID
	userID := a.client.Session().UserID()
	a.mu.Unlock()

	code, err := a.client.BookRoom(ctx, roomID, userID, stay)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return "", ErrAttemptClosed
	}
	if err != nil {
		a.state = StateFailed
		a.lastErr = err
		return "", err
	}
	a.confirmCode = code
	a.state = StateSucceeded
	return code, nil
}

// Close tears the attempt down. Any backend call still in flight may
// complete, but its result is ignored.
func (a *BookingAttempt) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
}

// State returns the current lifecycle state.
func (a *BookingAttempt) State() AttemptState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Room returns the loaded room, nil before a successful Start.
func (a *BookingAttempt) Room() *Room {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.room
}

// FieldErrors returns the messages from the last failed validation.
func (a *BookingAttempt) FieldErrors() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]string, len(a.fieldErrors))
	for k, v := range a.fieldErrors {
		out[k] = v
	}
	return out
}

// ConfirmationCode returns the backend-issued code once Succeeded.
func (a *BookingAttempt) ConfirmationCode() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.confirmCode
}

// Err returns the last backend failure, nil if none.
func (a *BookingAttempt) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

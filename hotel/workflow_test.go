package hotel

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// fakeBackend serves one room and counts booking calls.
type fakeBackend struct {
	bookingCalls atomic.Int64
	bookingDelay time.Duration
	bookingFail  atomic.Bool
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rooms/room-by-id/5", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, apiResponse{StatusCode: 200, Room: &Room{
			ID: 5, RoomType: "Double", RoomPrice: 120, RoomDescription: "Garden view",
		}})
	})
	mux.HandleFunc("/rooms/room-by-id/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeEnvelope(w, apiResponse{StatusCode: 404, Message: "Room Not Found"})
	})
	mux.HandleFunc("/bookings/book-room/", func(w http.ResponseWriter, r *http.Request) {
		f.bookingCalls.Add(1)
		if f.bookingDelay > 0 {
			time.Sleep(f.bookingDelay)
		}
		if f.bookingFail.Load() {
			writeEnvelope(w, apiResponse{StatusCode: 400, Message: "Room not Available for selected date range"})
			return
		}
		writeEnvelope(w, apiResponse{StatusCode: 200, BookingConfirmationCode: "BOOK-OK-1"})
	})
	return mux
}

func newAttempt(t *testing.T, backend *fakeBackend) *BookingAttempt {
	t.Helper()
	client, store, _ := newTestClient(t, backend.handler())
	if err := store.Login("tok", RoleUser, &User{ID: 7}); err != nil {
		t.Fatalf("login: %v", err)
	}
	return NewBookingAttempt(client)
}

func validStay(t *testing.T) Stay {
	t.Helper()
	return Stay{
		CheckIn:     date("2030-06-01", t),
		CheckOut:    date("2030-06-04", t),
		NumAdults:   2,
		NumChildren: 0,
	}
}

func TestBookingHappyPath(t *testing.T) {
	backend := &fakeBackend{}
	attempt := newAttempt(t, backend)

	if err := attempt.Start(context.Background(), 5); err != nil {
		t.Fatalf("start: %v", err)
	}
	if attempt.State() != StateReady {
		t.Fatalf("state = %s, want ready", attempt.State())
	}
	if attempt.Room().RoomType != "Double" {
		t.Fatalf("room = %+v", attempt.Room())
	}

	code, err := attempt.Submit(context.Background(), validStay(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if code != "BOOK-OK-1" {
		t.Fatalf("code = %q", code)
	}
	if attempt.State() != StateSucceeded {
		t.Fatalf("state = %s, want succeeded", attempt.State())
	}

	// Succeeded is terminal and idempotent: no second backend call.
	again, err := attempt.Submit(context.Background(), validStay(t))
	if err != nil || again != code {
		t.Fatalf("repeat submit = (%q, %v), want same code, nil", again, err)
	}
	if got := backend.bookingCalls.Load(); got != 1 {
		t.Fatalf("booking calls = %d, want 1", got)
	}
}

func TestDoubleSubmitMakesOneBackendCall(t *testing.T) {
	backend := &fakeBackend{bookingDelay: 150 * time.Millisecond}
	attempt := newAttempt(t, backend)
	if err := attempt.Start(context.Background(), 5); err != nil {
		t.Fatalf("start: %v", err)
	}

	done1 := make(chan error, 1)
	done2 := make(chan error, 1)
	go func() {
		_, err := attempt.Submit(context.Background(), validStay(t))
		done1 <- err
	}()
	time.Sleep(30 * time.Millisecond) // let the first submission reach the wire
	go func() {
		_, err := attempt.Submit(context.Background(), validStay(t))
		done2 <- err
	}()

	err1 := <-done1
	err2 := <-done2

	var inFlight, succeeded int
	for _, err := range []error{err1, err2} {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSubmitInFlight):
			inFlight++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || inFlight != 1 {
		t.Fatalf("want one success and one in-flight rejection, got %v / %v", err1, err2)
	}
	if got := backend.bookingCalls.Load(); got != 1 {
		t.Fatalf("booking calls = %d, want exactly 1", got)
	}
}

func TestValidationBlocksBackendCall(t *testing.T) {
	backend := &fakeBackend{}
	attempt := newAttempt(t, backend)
	if err := attempt.Start(context.Background(), 5); err != nil {
		t.Fatalf("start: %v", err)
	}

	bad := Stay{
		CheckIn:     date("2030-06-04", t),
		CheckOut:    date("2030-06-01", t),
		NumAdults:   3,
		NumChildren: 2,
	}
	_, err := attempt.Submit(context.Background(), bad)
	if !errors.Is(err, ErrStayInvalid) {
		t.Fatalf("err = %v, want ErrStayInvalid", err)
	}
	if attempt.State() != StateReady {
		t.Fatalf("state = %s, want ready with field errors attached", attempt.State())
	}
	fieldErrs := attempt.FieldErrors()
	if fieldErrs["checkOutDate"] == "" || fieldErrs["totalNumOfGuest"] == "" {
		t.Fatalf("field errors = %v", fieldErrs)
	}
	if got := backend.bookingCalls.Load(); got != 0 {
		t.Fatalf("invalid stay must never reach the backend, got %d calls", got)
	}
}

func TestRoomLoadFailureIsTerminal(t *testing.T) {
	backend := &fakeBackend{}
	attempt := newAttempt(t, backend)

	err := attempt.Start(context.Background(), 999)
	if KindOf(err) != ErrNotFound {
		t.Fatalf("kind = %v, want not found", KindOf(err))
	}
	if attempt.State() != StateFailed {
		t.Fatalf("state = %s, want failed", attempt.State())
	}
	if _, err := attempt.Submit(context.Background(), validStay(t)); err == nil {
		t.Fatal("submit after failed load must error")
	}
}

func TestFailedSubmissionAllowsResubmit(t *testing.T) {
	backend := &fakeBackend{}
	backend.bookingFail.Store(true)
	attempt := newAttempt(t, backend)
	if err := attempt.Start(context.Background(), 5); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err := attempt.Submit(context.Background(), validStay(t))
	if KindOf(err) != ErrInvalidRequest {
		t.Fatalf("kind = %v, want invalid request", KindOf(err))
	}
	if attempt.State() != StateFailed {
		t.Fatalf("state = %s, want failed", attempt.State())
	}

	backend.bookingFail.Store(false)
	code, err := attempt.Submit(context.Background(), validStay(t))
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if code == "" || attempt.State() != StateSucceeded {
		t.Fatalf("resubmit should succeed, state = %s", attempt.State())
	}
	if got := backend.bookingCalls.Load(); got != 2 {
		t.Fatalf("booking calls = %d, want 2", got)
	}
}

func TestClosedAttemptDiscardsResult(t *testing.T) {
	backend := &fakeBackend{bookingDelay: 150 * time.Millisecond}
	attempt := newAttempt(t, backend)
	if err := attempt.Start(context.Background(), 5); err != nil {
		t.Fatalf("start: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := attempt.Submit(context.Background(), validStay(t))
		done <- err
	}()
	time.Sleep(30 * time.Millisecond)
	attempt.Close()

	if err := <-done; !errors.Is(err, ErrAttemptClosed) {
		t.Fatalf("err = %v, want ErrAttemptClosed", err)
	}
	if attempt.State() == StateSucceeded {
		t.Fatal("torn-down attempt must not record the late result")
	}

	// Everything on a closed attempt is refused.
	if _, err := attempt.Submit(context.Background(), validStay(t)); !errors.Is(err, ErrAttemptClosed) {
		t.Fatalf("submit after close = %v, want ErrAttemptClosed", err)
	}
	if err := attempt.Start(context.Background(), 5); !errors.Is(err, ErrAttemptClosed) {
		t.Fatalf("start after close = %v, want ErrAttemptClosed", err)
	}
}

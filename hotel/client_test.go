package hotel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *SessionStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store, _ := tempStore(t)
	client := NewClient(srv.URL, 5*time.Second, store)
	return client, store, srv
}

func writeEnvelope(w http.ResponseWriter, env apiResponse) {
	w.Header().Set("Content-Type", contentTypeJSON)
	json.NewEncoder(w).Encode(env)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotRequestID string
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		writeEnvelope(w, apiResponse{StatusCode: 200, Message: "ok"})
	}))

	if err := store.Login("tok123", RoleUser, &User{ID: 1}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := client.AllRooms(context.Background()); err != nil {
		t.Fatalf("all rooms: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("expected a request id header")
	}
}

func TestNoBearerWhenLoggedOut(t *testing.T) {
	var gotAuth string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, apiResponse{StatusCode: 200})
	}))

	if _, err := client.AllRooms(context.Background()); err != nil {
		t.Fatalf("all rooms: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty", gotAuth)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeEnvelope(w, apiResponse{StatusCode: 401, Message: "token expired"})
	}))

	if err := store.Login("stale-token", RoleAdmin, &User{ID: 2}); err != nil {
		t.Fatalf("login: %v", err)
	}

	// The caller did not ask for a logout; the 401 forces it.
	_, err := client.Profile(context.Background())
	if KindOf(err) != ErrUnauthorized {
		t.Fatalf("kind = %v, want unauthorized", KindOf(err))
	}
	if store.IsAuthenticated() {
		t.Fatal("session should be cleared after 401")
	}
	if store.Token() != "" {
		t.Fatal("token should be gone after 401")
	}
}

func TestEnvelopeUnauthorizedOnTransport200(t *testing.T) {
	// Some backends answer HTTP 200 with an envelope statusCode of 403.
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, apiResponse{StatusCode: 403, Message: "forbidden"})
	}))
	store.Login("tok", RoleUser, &User{ID: 1})

	_, err := client.AllBookings(context.Background())
	if KindOf(err) != ErrUnauthorized {
		t.Fatalf("kind = %v, want unauthorized", KindOf(err))
	}
	if store.IsAuthenticated() {
		t.Fatal("session should be cleared on envelope 403")
	}
}

func TestInvalidRequestMessagePassthrough(t *testing.T) {
	const backendMsg = "Please provide values for all fields(checkInDate, checkOutDate, roomType)"
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, apiResponse{StatusCode: 400, Message: backendMsg})
	}))

	_, err := client.AvailableRoomsByDateAndType(context.Background(), SearchParams{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Kind != ErrInvalidRequest {
		t.Fatalf("kind = %v, want invalid request", apiErr.Kind)
	}
	if apiErr.Message != backendMsg {
		t.Fatalf("message = %q, want backend message verbatim", apiErr.Message)
	}
}

func TestNetworkFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	store, _ := tempStore(t)
	client := NewClient(srv.URL, time.Second, store)
	srv.Close() // nothing listens any more

	_, err := client.AllRooms(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Kind != ErrNetwork || !apiErr.Retryable() {
		t.Fatalf("expected retryable network error, got kind %v", apiErr.Kind)
	}
}

func TestSearchQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		writeEnvelope(w, apiResponse{StatusCode: 200, RoomList: []Room{{ID: 1, RoomType: "Double"}}})
	}))

	rooms, err := client.AvailableRoomsByDateAndType(context.Background(), SearchParams{
		CheckInDate:  "2024-05-01",
		CheckOutDate: "2024-05-04",
		RoomType:     "Double",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rooms) != 1 || rooms[0].RoomType != "Double" {
		t.Fatalf("rooms = %+v", rooms)
	}
	for key, want := range map[string]string{
		"checkInDate":  "2024-05-01",
		"checkOutDate": "2024-05-04",
		"roomType":     "Double",
	} {
		if len(gotQuery[key]) != 1 || gotQuery[key][0] != want {
			t.Errorf("query %s = %v, want %s", key, gotQuery[key], want)
		}
	}
}

func TestBookRoomRecomputesGuestTotal(t *testing.T) {
	var gotPath string
	var gotBody Booking
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeEnvelope(w, apiResponse{StatusCode: 200, BookingConfirmationCode: "CONF-42"})
	}))
	store.Login("tok", RoleUser, &User{ID: 7})

	stay := Stay{
		CheckIn:     date("2030-01-01", t),
		CheckOut:    date("2030-01-03", t),
		NumAdults:   2,
		NumChildren: 1,
	}
	code, err := client.BookRoom(context.Background(), 12, 7, stay)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if code != "CONF-42" {
		t.Fatalf("code = %q", code)
	}
	if gotPath != "/bookings/book-room/12/7" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody.TotalNumOfGuest != 3 {
		t.Fatalf("totalNumOfGuest = %d, want derived 3", gotBody.TotalNumOfGuest)
	}
	if gotBody.CheckInDate != "2030-01-01" || gotBody.CheckOutDate != "2030-01-03" {
		t.Fatalf("dates = %s..%s", gotBody.CheckInDate, gotBody.CheckOutDate)
	}
}

func TestUnknownConfirmationCode(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeEnvelope(w, apiResponse{StatusCode: 404, Message: "Booking Not Found"})
	}))

	_, err := client.BookingByConfirmationCode(context.Background(), "NOPE")
	if KindOf(err) != ErrNotFound {
		t.Fatalf("kind = %v, want not found", KindOf(err))
	}
}

func TestRoomTypesBareArray(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		json.NewEncoder(w).Encode([]string{"Single", "Double"})
	}))

	types, err := client.RoomTypes(context.Background())
	if err != nil {
		t.Fatalf("room types: %v", err)
	}
	if len(types) != 2 || types[0] != "Single" {
		t.Fatalf("types = %v", types)
	}
}

func TestRoomTypesUnauthorizedClearsSession(t *testing.T) {
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeEnvelope(w, apiResponse{StatusCode: 401, Message: "token expired"})
	}))
	store.Login("stale-token", RoleUser, &User{ID: 3})

	_, err := client.RoomTypes(context.Background())
	if KindOf(err) != ErrUnauthorized {
		t.Fatalf("kind = %v, want unauthorized", KindOf(err))
	}
	if store.IsAuthenticated() {
		t.Fatal("session should be cleared after 401")
	}
}

func TestRoomTypesNotFound(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeEnvelope(w, apiResponse{StatusCode: 404, Message: "no such endpoint"})
	}))

	_, err := client.RoomTypes(context.Background())
	if KindOf(err) != ErrNotFound {
		t.Fatalf("kind = %v, want not found", KindOf(err))
	}
}

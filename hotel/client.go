package hotel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const contentTypeJSON = "application/json"

// Client wraps every outbound call to the booking backend. It attaches the
// session token as a bearer credential, decodes the shared response
// envelope, and maps transport and envelope failures onto the error
// taxonomy. A 401/403 clears the session as a side effect.
type Client struct {
	baseURL string
	http    *http.Client
	session *SessionStore
	log     *slog.Logger
}

// NewClient builds a client against baseURL using the given session store.
func NewClient(baseURL string, timeout time.Duration, session *SessionStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: session,
		log:     slog.Default(),
	}
}

// Session exposes the store the client was built with.
func (c *Client) Session() *SessionStore { return c.session }

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

// do performs the call and returns the decoded envelope on success.
// Every failure comes back as an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*apiResponse, error) {
	req, err := c.newRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return nil, &APIError{Kind: ErrUnknown, Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend unreachable", "method", method, "path", path, "err", err)
		return nil, &APIError{Kind: ErrNetwork, Message: "could not reach the booking service", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: ErrNetwork, Message: "could not read the booking service response", Err: err}
	}

	var env apiResponse
	decodeErr := json.Unmarshal(raw, &env)

	c.log.Debug("request", "method", method, "path", path,
		"status", resp.StatusCode, "dur", time.Since(start))

	// The envelope statusCode wins over the transport status when present.
	status := resp.StatusCode
	if decodeErr == nil && env.StatusCode != 0 {
		status = env.StatusCode
	}

	if status != http.StatusOK {
		return nil, c.statusError(status, env.Message)
	}
	if decodeErr != nil {
		return nil, &APIError{Kind: ErrUnknown, Message: "unexpected response from the booking service", Err: decodeErr}
	}
	return &env, nil
}

// statusError maps a non-200 status onto the error taxonomy. A 401/403
// clears the session as a side effect.
func (c *Client) statusError(status int, message string) *APIError {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if err := c.session.Clear(); err != nil {
			c.log.Warn("clear session", "err", err)
		}
		if message == "" {
			message = "your session is no longer valid"
		}
		return &APIError{Kind: ErrUnauthorized, Message: message}
	case http.StatusNotFound:
		if message == "" {
			message = "resource not found"
		}
		return &APIError{Kind: ErrNotFound, Message: message}
	case http.StatusBadRequest:
		return &APIError{Kind: ErrInvalidRequest, Message: message}
	default:
		if message == "" {
			message = fmt.Sprintf("booking service returned status %d", status)
		}
		return &APIError{Kind: ErrUnknown, Message: message}
	}
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &APIError{Kind: ErrUnknown, Err: fmt.Errorf("encode request: %w", err)}
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(body), contentTypeJSON)
}

// ------------------ Auth ------------------

// Login authenticates with the backend. The caller decides whether to
// persist the result into the session store.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	env, err := c.postJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:          env.Token,
		Role:           env.Role,
		ExpirationTime: env.ExpirationTime,
		User:           env.User,
	}, nil
}

// Register creates an account and returns the backend's message.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	env, err := c.postJSON(ctx, "/auth/register", req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ------------------ Rooms ------------------

func (c *Client) AllRooms(ctx context.Context) ([]Room, error) {
	env, err := c.do(ctx, http.MethodGet, "/rooms/all", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return env.RoomList, nil
}

func (c *Client) AllAvailableRooms(ctx context.Context) ([]Room, error) {
	env, err := c.do(ctx, http.MethodGet, "/rooms/all-available-rooms", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return env.RoomList, nil
}

func (c *Client) RoomByID(ctx context.Context, roomID int64) (*Room, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/room-by-id/%d", roomID), nil, nil, "")
	if err != nil {
		return nil, err
	}
	if env.Room == nil {
		return nil, &APIError{Kind: ErrNotFound, Message: fmt.Sprintf("room %d not found", roomID)}
	}
	return env.Room, nil
}

// RoomTypes is the one endpoint that answers a bare JSON array instead of
// the envelope.
func (c *Client) RoomTypes(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/rooms/types", nil, nil, "")
	if err != nil {
		return nil, &APIError{Kind: ErrUnknown, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Kind: ErrNetwork, Message: "could not reach the booking service", Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: ErrNetwork, Message: "could not read the booking service response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		// Failures still arrive in the envelope even on this endpoint.
		var env apiResponse
		_ = json.Unmarshal(raw, &env)
		status := resp.StatusCode
		if env.StatusCode != 0 {
			status = env.StatusCode
		}
		return nil, c.statusError(status, env.Message)
	}
	var types []string
	if err := json.Unmarshal(raw, &types); err != nil {
		return nil, &APIError{Kind: ErrUnknown, Message: "unexpected response from the booking service", Err: err}
	}
	return types, nil
}

// AvailableRoomsByDateAndType searches rooms. Empty fields are omitted;
// the backend rejects incomplete searches with its own message.
func (c *Client) AvailableRoomsByDateAndType(ctx context.Context, params SearchParams) ([]Room, error) {
	query := url.Values{}
	if params.CheckInDate != "" {
		query.Set("checkInDate", params.CheckInDate)
	}
	if params.CheckOutDate != "" {
		query.Set("checkOutDate", params.CheckOutDate)
	}
	if params.RoomType != "" {
		query.Set("roomType", params.RoomType)
	}
	env, err := c.do(ctx, http.MethodGet, "/rooms/available-rooms-by-date-and-type", query, nil, "")
	if err != nil {
		return nil, err
	}
	return env.RoomList, nil
}

// ------------------ Bookings ------------------

// BookRoom submits the stay and returns the backend-issued confirmation
// code. The caller is responsible for validating the stay first.
func (c *Client) BookRoom(ctx context.Context, roomID, userID int64, stay Stay) (string, error) {
	env, err := c.postJSON(ctx, fmt.Sprintf("/bookings/book-room/%d/%d", roomID, userID), stay.BookingRequest())
	if err != nil {
		return "", err
	}
	return env.BookingConfirmationCode, nil
}

func (c *Client) BookingByConfirmationCode(ctx context.Context, code string) (*Booking, error) {
	env, err := c.do(ctx, http.MethodGet, "/bookings/get-by-confirmation-code/"+url.PathEscape(code), nil, nil, "")
	if err != nil {
		return nil, err
	}
	if env.Booking == nil {
		return nil, &APIError{Kind: ErrNotFound, Message: fmt.Sprintf("no booking with confirmation code %s", code)}
	}
	return env.Booking, nil
}

func (c *Client) CancelBooking(ctx context.Context, bookingID int64) (string, error) {
	env, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/bookings/cancel/%d", bookingID), nil, nil, "")
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) AllBookings(ctx context.Context) ([]Booking, error) {
	env, err := c.do(ctx, http.MethodGet, "/bookings/all", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return env.BookingList, nil
}

// ------------------ Users ------------------

func (c *Client) Profile(ctx context.Context) (*User, error) {
	env, err := c.do(ctx, http.MethodGet, "/users/get-logged-in-profile-info", nil, nil, "")
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &APIError{Kind: ErrUnknown, Message: "profile response carried no user"}
	}
	return env.User, nil
}

// UserBookingHistory returns the user's past and current bookings.
func (c *Client) UserBookingHistory(ctx context.Context, userID int64) ([]Booking, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/get-user-booking/%d", userID), nil, nil, "")
	if err != nil {
		return nil, err
	}
	if env.User != nil && len(env.User.Bookings) > 0 {
		return env.User.Bookings, nil
	}
	return env.BookingList, nil
}

func (c *Client) AllUsers(ctx context.Context) ([]User, error) {
	env, err := c.do(ctx, http.MethodGet, "/users/all", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return env.UserList, nil
}

func (c *Client) UserByID(ctx context.Context, userID int64) (*User, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/get-by-id/%d", userID), nil, nil, "")
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &APIError{Kind: ErrNotFound, Message: fmt.Sprintf("user %d not found", userID)}
	}
	return env.User, nil
}

// DeleteUser removes an account. The backend serves DELETE on the same
// path as the by-id lookup.
func (c *Client) DeleteUser(ctx context.Context, userID int64) (string, error) {
	env, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/get-by-id/%d", userID), nil, nil, "")
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ------------------ Admin room CRUD ------------------

// AddRoom creates a room via the multipart admin endpoint.
func (c *Client) AddRoom(ctx context.Context, in RoomInput) (*Room, error) {
	body, contentType, err := roomForm(in)
	if err != nil {
		return nil, &APIError{Kind: ErrUnknown, Err: err}
	}
	env, err := c.do(ctx, http.MethodPost, "/rooms/add", nil, body, contentType)
	if err != nil {
		return nil, err
	}
	return env.Room, nil
}

// UpdateRoom updates a room; an empty PhotoPath keeps the current photo.
func (c *Client) UpdateRoom(ctx context.Context, roomID int64, in RoomInput) (*Room, error) {
	body, contentType, err := roomForm(in)
	if err != nil {
		return nil, &APIError{Kind: ErrUnknown, Err: err}
	}
	env, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/rooms/update/%d", roomID), nil, body, contentType)
	if err != nil {
		return nil, err
	}
	return env.Room, nil
}

func (c *Client) DeleteRoom(ctx context.Context, roomID int64) (string, error) {
	env, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/rooms/delete/%d", roomID), nil, nil, "")
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// roomForm builds the multipart body for the admin room endpoints.
func roomForm(in RoomInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("roomType", in.RoomType); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("roomPrice", strconv.FormatFloat(in.RoomPrice, 'f', -1, 64)); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("roomDescription", in.RoomDescription); err != nil {
		return nil, "", err
	}

	if in.PhotoPath != "" {
		f, err := os.Open(filepath.Clean(in.PhotoPath))
		if err != nil {
			return nil, "", fmt.Errorf("open photo: %w", err)
		}
		defer f.Close()
		part, err := w.CreateFormFile("photo", filepath.Base(in.PhotoPath))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", fmt.Errorf("read photo: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

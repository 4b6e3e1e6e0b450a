package hotel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Role values issued by the backend.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// RoomTypes lists the room categories the backend knows about.
var RoomTypes = []string{"Single", "Double", "Deluxe Suite", "Presidential Suite"}

// Room is an immutable snapshot of a room as served by the backend.
// It is never mutated locally.
type Room struct {
	ID              int64     `json:"id"`
	RoomType        string    `json:"roomType"`
	RoomPrice       float64   `json:"roomPrice"`
	RoomPhotoURL    string    `json:"roomPhotoUrl"`
	RoomDescription string    `json:"roomDescription"`
	Bookings        []Booking `json:"bookings,omitempty"`
}

// User is the backend's account record. Bookings is only populated on
// profile and booking-history responses.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        string    `json:"role"`
	Bookings    []Booking `json:"bookings,omitempty"`
}

// Stay is a proposed date range plus guest counts for a single room.
// Dates are calendar days at midnight UTC; the total guest count is always
// derived from the two parts, never set directly.
type Stay struct {
	CheckIn     time.Time
	CheckOut    time.Time
	NumAdults   int
	NumChildren int
}

// TotalGuests returns the derived guest count.
func (s Stay) TotalGuests() int { return s.NumAdults + s.NumChildren }

// BookingRequest converts the stay into the wire shape the backend expects,
// recomputing totalNumOfGuest.
func (s Stay) BookingRequest() Booking {
	return Booking{
		CheckInDate:     FormatDate(s.CheckIn),
		CheckOutDate:    FormatDate(s.CheckOut),
		NumOfAdults:     s.NumAdults,
		NumOfChildren:   s.NumChildren,
		TotalNumOfGuest: s.TotalGuests(),
	}
}

// Booking mirrors the backend booking record. The client only ever holds a
// read-only copy; the confirmation code is issued server-side.
type Booking struct {
	ID                      int64  `json:"id,omitempty"`
	CheckInDate             string `json:"checkInDate"`
	CheckOutDate            string `json:"checkOutDate"`
	NumOfAdults             int    `json:"numOfAdults"`
	NumOfChildren           int    `json:"numOfChildren"`
	TotalNumOfGuest         int    `json:"totalNumOfGuest"`
	BookingConfirmationCode string `json:"bookingConfirmationCode,omitempty"`
	User                    *User  `json:"user,omitempty"`
	Room                    *Room  `json:"room,omitempty"`
}

// Stay parses the wire dates back into a Stay. Unparseable dates come back
// as zero times, matching how the validator treats absent dates.
func (b Booking) Stay() Stay {
	in, _ := ParseDate(b.CheckInDate)
	out, _ := ParseDate(b.CheckOutDate)
	return Stay{CheckIn: in, CheckOut: out, NumAdults: b.NumOfAdults, NumChildren: b.NumOfChildren}
}

// SearchParams narrows the available-room search. Empty fields are omitted
// from the query string and left for the backend to complain about.
type SearchParams struct {
	CheckInDate  string
	CheckOutDate string
	RoomType     string
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Role        string `json:"role,omitempty"`
}

// LoginResult is what a successful login yields.
type LoginResult struct {
	Token          string
	Role           string
	ExpirationTime string
	User           *User
}

// RoomInput carries the admin add/update form. PhotoPath may be empty when
// updating without replacing the photo.
type RoomInput struct {
	RoomType        string
	RoomPrice       float64
	RoomDescription string
	PhotoPath       string
}

// apiResponse is the shared backend envelope. statusCode 200 means success
// regardless of the HTTP transport status.
type apiResponse struct {
	StatusCode              int       `json:"statusCode"`
	Message                 string    `json:"message"`
	Role                    string    `json:"role,omitempty"`
	Token                   string    `json:"token,omitempty"`
	ExpirationTime          string    `json:"expirationTime,omitempty"`
	BookingConfirmationCode string    `json:"bookingConfirmationCode,omitempty"`
	User                    *User     `json:"user,omitempty"`
	Room                    *Room     `json:"room,omitempty"`
	Booking                 *Booking  `json:"booking,omitempty"`
	UserList                []User    `json:"userList,omitempty"`
	RoomList                []Room    `json:"roomList,omitempty"`
	BookingList             []Booking `json:"bookingList,omitempty"`
}

// FormatPrice renders a USD amount for table output, e.g. $1,250.00.
func FormatPrice(price float64) string {
	neg := price < 0
	cents := int64(math.Round(math.Abs(price) * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	out := fmt.Sprintf("$%s.%02d", strings.Join(groups, ","), cents%100)
	if neg {
		return "-" + out
	}
	return out
}

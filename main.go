package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"bookinn-cli/hotel"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfg     *hotel.Config
	session *hotel.SessionStore
	client  *hotel.Client
)

func main() {
	root := &cobra.Command{
		Use:   "bookinn",
		Short: "Terminal client for the BookInn hotel booking service",
		Long: `bookinn talks to the BookInn booking backend: browse and search rooms,
book a stay, look bookings up by confirmation code, and manage rooms,
users and bookings as an administrator.

The session survives between runs; log in once with 'bookinn login'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = hotel.LoadConfig()
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			})))

			var err error
			session, err = hotel.OpenSessionStore(cfg.SessionPath)
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			client = hotel.NewClient(cfg.APIBaseURL, cfg.RequestTimeout(), session)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if session != nil {
				session.Close()
			}
		},
	}

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newProfileCmd(),
		newRoomsCmd(),
		newBookCmd(),
		newFindCmd(),
		newCancelCmd(),
		newAdminCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// requireCapability runs the route guard for a command. A redirect decision
// becomes the user-facing explanation of where they were sent.
func requireCapability(capability hotel.Capability, view string) error {
	decision := hotel.Check(session, capability, view)
	if decision.Allow {
		return nil
	}
	if decision.Redirect == hotel.HomePath {
		return fmt.Errorf("admin access required")
	}
	return fmt.Errorf("please log in first ('bookinn login'), then retry")
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

func promptLine(sc *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}

func promptInt(sc *bufio.Scanner, label string) (int, error) {
	raw := promptLine(sc, label)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", raw)
	}
	return n, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %s", raw)
	}
	return id, nil
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}

func renderRooms(rooms []hotel.Room) {
	if len(rooms) == 0 {
		fmt.Println("No rooms found.")
		return
	}
	fmt.Printf("%-5s %-20s %-12s %s\n", "ID", "Type", "Price/Night", "Description")
	fmt.Println(strings.Repeat("-", 90))
	for _, r := range rooms {
		fmt.Printf("%-5d %-20s %-12s %s\n",
			r.ID,
			truncateString(r.RoomType, 20),
			hotel.FormatPrice(r.RoomPrice),
			truncateString(r.RoomDescription, 50))
	}
}

func renderBookings(bookings []hotel.Booking) {
	if len(bookings) == 0 {
		fmt.Println("No bookings found.")
		return
	}
	fmt.Printf("%-5s %-15s %-12s %-12s %-7s %s\n", "ID", "Confirmation", "Check-In", "Check-Out", "Guests", "Room")
	fmt.Println(strings.Repeat("-", 80))
	for _, b := range bookings {
		roomInfo := ""
		if b.Room != nil {
			roomInfo = fmt.Sprintf("%s (ID: %d)", b.Room.RoomType, b.Room.ID)
		}
		fmt.Printf("%-5d %-15s %-12s %-12s %-7d %s\n",
			b.ID,
			truncateString(b.BookingConfirmationCode, 15),
			b.CheckInDate,
			b.CheckOutDate,
			b.TotalNumOfGuest,
			roomInfo)
	}
}

func renderUsers(users []hotel.User) {
	if len(users) == 0 {
		fmt.Println("No users found.")
		return
	}
	fmt.Printf("%-5s %-30s %-25s %-15s %s\n", "ID", "Email", "Name", "Phone", "Role")
	fmt.Println(strings.Repeat("-", 90))
	for _, u := range users {
		fmt.Printf("%-5d %-30s %-25s %-15s %s\n",
			u.ID,
			truncateString(u.Email, 30),
			truncateString(u.Name, 25),
			truncateString(u.PhoneNumber, 15),
			u.Role)
	}
}

func printBooking(b *hotel.Booking) {
	fmt.Printf("Confirmation code: %s\n", b.BookingConfirmationCode)
	fmt.Printf("Stay:              %s to %s\n", b.CheckInDate, b.CheckOutDate)
	fmt.Printf("Guests:            %d adult(s), %d child(ren)\n", b.NumOfAdults, b.NumOfChildren)
	stay := b.Stay()
	if !stay.CheckIn.IsZero() && !stay.CheckOut.IsZero() {
		fmt.Printf("Nights:            %d\n", hotel.NightsBetween(stay.CheckIn, stay.CheckOut))
		if b.Room != nil {
			fmt.Printf("Total:             %s\n", hotel.FormatPrice(hotel.ComputeTotal(b.Room.RoomPrice, stay)))
		}
	}
	if b.Room != nil {
		fmt.Printf("Room:              %s (ID: %d), %s per night\n",
			b.Room.RoomType, b.Room.ID, hotel.FormatPrice(b.Room.RoomPrice))
	}
	if b.User != nil {
		fmt.Printf("Booked by:         %s <%s>\n", b.User.Name, b.User.Email)
	}
}

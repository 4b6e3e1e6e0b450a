package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"bookinn-cli/hotel"

	"github.com/spf13/cobra"
)

func newBookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "book <roomID>",
		Short: "Book a room for a stay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCapability(hotel.CapabilityAuthenticated, "/book/"+args[0]); err != nil {
				return err
			}
			roomID, err := parseID(args[0])
			if err != nil {
				return err
			}

			attempt := hotel.NewBookingAttempt(client)
			defer attempt.Close()

			if err := attempt.Start(cmd.Context(), roomID); err != nil {
				return err
			}
			room := attempt.Room()
			fmt.Printf("Booking room %d: %s, %s per night\n",
				room.ID, room.RoomType, hotel.FormatPrice(room.RoomPrice))
			if room.RoomDescription != "" {
				fmt.Println(room.RoomDescription)
			}
			fmt.Println()

			sc := bufio.NewScanner(os.Stdin)
			for {
				stay, err := promptStay(sc)
				if err != nil {
					fmt.Printf("  %v\n", err)
					continue
				}

				nights := hotel.NightsBetween(stay.CheckIn, stay.CheckOut)
				total := hotel.ComputeTotal(room.RoomPrice, stay)
				fmt.Printf("\n%d night(s), %d guest(s), total %s\n",
					nights, stay.TotalGuests(), hotel.FormatPrice(total))
				if !strings.EqualFold(promptLine(sc, "Confirm booking? [y/N]: "), "y") {
					fmt.Println("Booking not submitted.")
					return nil
				}

				code, err := attempt.Submit(cmd.Context(), stay)
				switch {
				case err == nil:
					fmt.Printf("\nBooking confirmed! Confirmation code: %s\n", code)
					fmt.Println("Keep the code; it is all you need to look the booking up later.")
					return nil
				case errors.Is(err, hotel.ErrStayInvalid):
					for field, msg := range attempt.FieldErrors() {
						fmt.Printf("  %s: %s\n", field, msg)
					}
					fmt.Println("Please correct the stay and try again.")
				default:
					apiKind := hotel.KindOf(err)
					if apiKind == hotel.ErrInvalidRequest || apiKind == hotel.ErrNetwork {
						fmt.Printf("  %v\n", err)
						fmt.Println("You can adjust the dates and try again.")
						continue
					}
					return err
				}
			}
		},
	}
}

func promptStay(sc *bufio.Scanner) (hotel.Stay, error) {
	checkIn, err := hotel.ParseDate(promptLine(sc, "Check-in (YYYY-MM-DD): "))
	if err != nil {
		return hotel.Stay{}, err
	}
	checkOut, err := hotel.ParseDate(promptLine(sc, "Check-out (YYYY-MM-DD): "))
	if err != nil {
		return hotel.Stay{}, err
	}
	adults, err := promptInt(sc, "Adults: ")
	if err != nil {
		return hotel.Stay{}, err
	}
	children, err := promptInt(sc, "Children: ")
	if err != nil {
		return hotel.Stay{}, err
	}
	return hotel.Stay{
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		NumAdults:   adults,
		NumChildren: children,
	}, nil
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <confirmationCode>",
		Short: "Look a booking up by its confirmation code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			booking, err := client.BookingByConfirmationCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printBooking(booking)
			return nil
		},
	}
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <bookingID>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCapability(hotel.CapabilityAuthenticated, "/bookings"); err != nil {
				return err
			}
			bookingID, err := parseID(args[0])
			if err != nil {
				return err
			}
			message, err := client.CancelBooking(cmd.Context(), bookingID)
			if err != nil {
				return err
			}
			if message == "" {
				message = "Booking cancelled."
			}
			fmt.Println(message)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"strings"

	"bookinn-cli/hotel"

	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Browse and search rooms",
	}
	cmd.AddCommand(
		newRoomsListCmd(),
		newRoomsTypesCmd(),
		newRoomsShowCmd(),
		newRoomsSearchCmd(),
	)
	return cmd
}

func newRoomsListCmd() *cobra.Command {
	var availableOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rooms []hotel.Room
				err   error
			)
			if availableOnly {
				rooms, err = client.AllAvailableRooms(cmd.Context())
			} else {
				rooms, err = client.AllRooms(cmd.Context())
			}
			if err != nil {
				return err
			}
			renderRooms(rooms)
			return nil
		},
	}
	cmd.Flags().BoolVar(&availableOnly, "available", false, "only rooms currently available")
	return cmd
}

func newRoomsTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List room types offered by the hotel",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := client.RoomTypes(cmd.Context())
			if err != nil {
				return err
			}
			if len(types) == 0 {
				types = hotel.RoomTypes
			}
			for _, roomType := range types {
				fmt.Println(roomType)
			}
			return nil
		},
	}
}

func newRoomsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <roomID>",
		Short: "Show one room in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := parseID(args[0])
			if err != nil {
				return err
			}
			room, err := client.RoomByID(cmd.Context(), roomID)
			if err != nil {
				return err
			}
			fmt.Printf("Room %d: %s\n", room.ID, room.RoomType)
			fmt.Printf("Price per night: %s\n", hotel.FormatPrice(room.RoomPrice))
			if room.RoomDescription != "" {
				fmt.Printf("Description: %s\n", room.RoomDescription)
			}
			if room.RoomPhotoURL != "" {
				fmt.Printf("Photo: %s\n", room.RoomPhotoURL)
			}
			return nil
		},
	}
}

func newRoomsSearchCmd() *cobra.Command {
	var checkIn, checkOut, roomType string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search available rooms by date range and type",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Dates are sanity-checked locally; missing fields are left for
			// the backend, whose message is passed through verbatim.
			for _, raw := range []string{checkIn, checkOut} {
				if raw == "" {
					continue
				}
				if _, err := hotel.ParseDate(raw); err != nil {
					return err
				}
			}

			rooms, err := client.AvailableRoomsByDateAndType(cmd.Context(), hotel.SearchParams{
				CheckInDate:  checkIn,
				CheckOutDate: checkOut,
				RoomType:     roomType,
			})
			if err != nil {
				return err
			}
			if len(rooms) == 0 {
				fmt.Println(noRoomsMessage(roomType, checkIn, checkOut))
				return nil
			}
			renderRooms(rooms)
			return nil
		},
	}
	cmd.Flags().StringVar(&checkIn, "check-in", "", "check-in date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&checkOut, "check-out", "", "check-out date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&roomType, "type", "", "room type (see 'bookinn rooms types')")
	return cmd
}

// noRoomsMessage renders the empty search result, mentioning only the
// criteria that were actually given.
func noRoomsMessage(roomType, checkIn, checkOut string) string {
	var sb strings.Builder
	sb.WriteString("No ")
	if roomType != "" {
		sb.WriteString(strings.ToLower(roomType))
		sb.WriteString(" ")
	}
	sb.WriteString("rooms available")
	switch {
	case checkIn != "" && checkOut != "":
		fmt.Fprintf(&sb, " from %s to %s", checkIn, checkOut)
	case checkIn != "":
		fmt.Fprintf(&sb, " from %s", checkIn)
	case checkOut != "":
		fmt.Fprintf(&sb, " until %s", checkOut)
	}
	sb.WriteString(".")
	return sb.String()
}

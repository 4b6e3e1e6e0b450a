package main

import (
	"fmt"

	"bookinn-cli/hotel"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer rooms, users, and bookings",
	}

	rooms := &cobra.Command{Use: "rooms", Short: "Manage the room inventory"}
	rooms.AddCommand(newAdminRoomAddCmd(), newAdminRoomUpdateCmd(), newAdminRoomDeleteCmd())

	users := &cobra.Command{Use: "users", Short: "Manage user accounts"}
	users.AddCommand(newAdminUsersListCmd(), newAdminUserShowCmd(), newAdminUserDeleteCmd())

	bookings := &cobra.Command{Use: "bookings", Short: "Inspect all bookings"}
	bookings.AddCommand(newAdminBookingsListCmd())

	cmd.AddCommand(rooms, users, bookings)
	return cmd
}

func roomInputFlags(cmd *cobra.Command, in *hotel.RoomInput) {
	cmd.Flags().StringVar(&in.RoomType, "type", "", "room type")
	cmd.Flags().Float64Var(&in.RoomPrice, "price", 0, "price per night")
	cmd.Flags().StringVar(&in.RoomDescription, "description", "", "room description")
	cmd.Flags().StringVar(&in.PhotoPath, "photo", "", "path to a room photo")
}

// refreshRooms re-fetches and re-renders the inventory after a mutation;
// the previously rendered list is treated as invalidated.
func refreshRooms(cmd *cobra.Command) error {
	rooms, err := client.AllRooms(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println()
	renderRooms(rooms)
	return nil
}

func newAdminRoomAddCmd() *cobra.Command {
	var in hotel.RoomInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a room",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCapability(hotel.CapabilityAdmin, "/admin/rooms"); err != nil {
				return err
			}
			if in.RoomType == "" || in.RoomPrice <= 0 {
				return fmt.Errorf("--type and a positive --price are required")
			}
			room, err := client.AddRoom(cmd.Context(), in)
			if err != nil {
				return err
			}
			if room != nil {
				fmt.Printf("Added room %d (%s).\n", room.ID, room.RoomType)
			} else {
				fmt.Println("Room added.")
			}
			return refreshRooms(cmd)
		},
	}
	roomInputFlags(cmd, &in)
	return cmd
}

func newAdminRoomUpdateCmd() *cobra.Command {
	var in hotel.RoomInput
	cmd := &cobra.Command{
		Use:   "update <roomID>",
		Short: "Update a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCapability(hotel.CapabilityAdmin, "/admin/rooms"); err != nil {
				return err
			}
			roomID, err := parseID(args[0])
			if err != nil {
				return err
			}

			// Unset flags keep the room's current values.
			current, err := client.RoomByID(cmd.Context(), roomID)
			if err != nil {
				return err
			}
			if in.RoomType == "" {
				in.RoomType = current.RoomType
			}
			if in.RoomPrice == 0 {
				in.RoomPrice = current.RoomPrice
			}
			if in.RoomDescription == "" {
				in.RoomDescription = current.RoomDescription
			}

			if _, err := client.UpdateRoom(cmd.Context(), roomID, in); err != nil {
				return err
			}
			fmt.Printf("Updated room %d.\n", roomID)
			return refreshRooms(cmd)
		},
	}
	roomInputFlags(cmd, &in)
	return cmd
}

func newAdminRoomDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <roomID>",
		Short: "Delete a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCapability(hotel.CapabilityAdmin, "/admin/rooms"); err != nil {
				return err
			}
			roomID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := client.DeleteRoom(cmd.Context(), roomID); err != nil {
				return err
			}
			fmt.Printf("Deleted room %d.\n", roomID)
			return refreshRooms(cmd)
		},
	}
}

func newAdminUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCapability(hotel.CapabilityAdmin, "/admin/users"); err != nil {
				return err
			}
			users, err := client.AllUsers(cmd.Context())
			if err != nil {
				return err
			}
			renderUsers(users)
			return nil
		},
	}
}

func newAdminUserShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <userID>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCapability(hotel.CapabilityAdmin, "/admin/users"); err != nil {
				return err
			}
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}
			user, err := client.UserByID(cmd.Context(), userID)
			if err != nil {
				return err
			}
			renderUsers([]hotel.User{*user})
			if len(user.Bookings) > 0 {
				fmt.Println()
				renderBookings(user.Bookings)
			}
			return nil
		},
	}
}

func newAdminUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <userID>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCapability(hotel.CapabilityAdmin, "/admin/users"); err != nil {
				return err
			}
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := client.DeleteUser(cmd.Context(), userID); err != nil {
				return err
			}
			fmt.Printf("Deleted user %d.\n", userID)

			users, err := client.AllUsers(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println()
			renderUsers(users)
			return nil
		},
	}
}

func newAdminBookingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every booking in the system",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCapability(hotel.CapabilityAdmin, "/admin/bookings"); err != nil {
				return err
			}
			bookings, err := client.AllBookings(cmd.Context())
			if err != nil {
				return err
			}
			renderBookings(bookings)
			return nil
		},
	}
}

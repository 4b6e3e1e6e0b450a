package main

import (
	"bufio"
	"fmt"
	"os"

	"bookinn-cli/hotel"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the booking service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if session.IsAuthenticated() {
				user := session.CurrentUser()
				if user != nil {
					return fmt.Errorf("already logged in as %s; run 'bookinn logout' first", user.Email)
				}
				return fmt.Errorf("already logged in; run 'bookinn logout' first")
			}

			sc := bufio.NewScanner(os.Stdin)
			if email == "" {
				email = promptLine(sc, "Email: ")
			}
			if !hotel.IsValidEmail(email) {
				return fmt.Errorf("invalid email address: %s", email)
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			result, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := session.Login(result.Token, result.Role, result.User); err != nil {
				return fmt.Errorf("persist session: %w", err)
			}

			name := email
			if result.User != nil && result.User.Name != "" {
				name = result.User.Name
			}
			fmt.Printf("Welcome, %s!\n", name)
			if result.ExpirationTime != "" {
				fmt.Printf("Session valid until %s.\n", result.ExpirationTime)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if session.IsAuthenticated() {
				return fmt.Errorf("already logged in; run 'bookinn logout' before registering a new account")
			}

			sc := bufio.NewScanner(os.Stdin)
			name := promptLine(sc, "Name: ")
			email := promptLine(sc, "Email: ")
			phone := promptLine(sc, "Phone number: ")

			// Field errors print inline next to the offending input.
			fieldErrs := make(map[string]string)
			if name == "" {
				fieldErrs["name"] = "name is required"
			}
			if !hotel.IsValidEmail(email) {
				fieldErrs["email"] = "invalid email address"
			}
			if !hotel.IsValidPhone(phone) {
				fieldErrs["phoneNumber"] = "invalid phone number"
			}

			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if !hotel.IsValidPassword(password) {
				fieldErrs["password"] = "password must be at least 6 characters"
			}

			if len(fieldErrs) > 0 {
				for field, msg := range fieldErrs {
					fmt.Printf("  %s: %s\n", field, msg)
				}
				return fmt.Errorf("please fix the fields above and retry")
			}

			message, err := client.Register(cmd.Context(), hotel.RegisterRequest{
				Email:       email,
				Name:        name,
				PhoneNumber: phone,
				Password:    password,
			})
			if err != nil {
				return err
			}
			if message == "" {
				message = "Account created. You can now log in."
			}
			fmt.Println(message)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.Logout(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !session.IsAuthenticated() {
				fmt.Println("Not logged in.")
				return nil
			}
			user := session.CurrentUser()
			if user != nil {
				fmt.Printf("Logged in as %s <%s> (role %s)\n", user.Name, user.Email, session.Role())
			} else {
				fmt.Printf("Logged in (role %s)\n", session.Role())
			}
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	var withHistory bool
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile and optionally your booking history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCapability(hotel.CapabilityAuthenticated, "/profile"); err != nil {
				return err
			}

			user, err := client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Name:  %s\n", user.Name)
			fmt.Printf("Email: %s\n", user.Email)
			fmt.Printf("Phone: %s\n", user.PhoneNumber)
			fmt.Printf("Role:  %s\n", user.Role)

			if withHistory {
				bookings, err := client.UserBookingHistory(cmd.Context(), user.ID)
				if err != nil {
					return err
				}
				fmt.Println()
				renderBookings(bookings)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withHistory, "history", false, "include booking history")
	return cmd
}

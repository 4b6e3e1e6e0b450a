// Command import_rooms seeds the backend's room inventory from a CSV
// manifest. Each row is: roomType,pricePerNight,description,photoFile.
// Photo paths are resolved relative to the manifest. Requires an admin
// session (run 'bookinn login' first).
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bookinn-cli/hotel"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <rooms.csv>\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}
	manifestPath := os.Args[1]

	cfg := hotel.LoadConfig()
	session, err := hotel.OpenSessionStore(cfg.SessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session store: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	if !session.IsAdmin() {
		fmt.Fprintln(os.Stderr, "An admin session is required. Run 'bookinn login' as an administrator first.")
		os.Exit(1)
	}

	client := hotel.NewClient(cfg.APIBaseURL, cfg.RequestTimeout(), session)

	f, err := os.Open(filepath.Clean(manifestPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening manifest: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	manifestDir := filepath.Dir(manifestPath)
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // photo column is optional

	fmt.Printf("Importing rooms from %s...\n", manifestPath)

	successCount := 0
	errorCount := 0
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			fmt.Printf("Line %d: ERROR - %v\n", line, err)
			errorCount++
			continue
		}
		if len(record) < 3 {
			fmt.Printf("Line %d: ERROR - want roomType,price,description[,photo], got %d fields\n", line, len(record))
			errorCount++
			continue
		}

		roomType := strings.TrimSpace(record[0])
		price, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil || price <= 0 {
			fmt.Printf("Line %d: ERROR - invalid price %q\n", line, record[1])
			errorCount++
			continue
		}

		input := hotel.RoomInput{
			RoomType:        roomType,
			RoomPrice:       price,
			RoomDescription: strings.TrimSpace(record[2]),
		}
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			photo := filepath.Join(manifestDir, strings.TrimSpace(record[3]))
			if _, err := os.Stat(photo); err != nil {
				fmt.Printf("Line %d: WARNING - photo not accessible (%v), importing without it\n", line, err)
			} else {
				input.PhotoPath = photo
			}
		}

		fmt.Printf("Importing: %s at %s... ", roomType, hotel.FormatPrice(price))
		room, err := client.AddRoom(context.Background(), input)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		if room != nil {
			fmt.Printf("SUCCESS (ID: %d)\n", room.ID)
		} else {
			fmt.Println("SUCCESS")
		}
		successCount++
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d rooms\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		rooms, err := client.AllRooms(context.Background())
		if err != nil {
			fmt.Printf("Error retrieving rooms: %v\n", err)
			return
		}
		fmt.Println("\nCurrent inventory:")
		fmt.Printf("%-3s %-20s %-12s %s\n", "ID", "Type", "Price/Night", "Description")
		fmt.Println(strings.Repeat("-", 80))
		for _, room := range rooms {
			fmt.Printf("%-3d %-20s %-12s %s\n",
				room.ID, truncateString(room.RoomType, 20),
				hotel.FormatPrice(room.RoomPrice),
				truncateString(room.RoomDescription, 40))
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

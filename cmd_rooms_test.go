package main

import "testing"

func TestNoRoomsMessage(t *testing.T) {
	cases := []struct {
		roomType, checkIn, checkOut string
		want                        string
	}{
		{"Double", "2030-05-01", "2030-05-04", "No double rooms available from 2030-05-01 to 2030-05-04."},
		{"", "", "", "No rooms available."},
		{"Single", "", "", "No single rooms available."},
		{"", "2030-05-01", "", "No rooms available from 2030-05-01."},
		{"", "", "2030-05-04", "No rooms available until 2030-05-04."},
	}
	for _, c := range cases {
		got := noRoomsMessage(c.roomType, c.checkIn, c.checkOut)
		if got != c.want {
			t.Errorf("noRoomsMessage(%q, %q, %q) = %q, want %q",
				c.roomType, c.checkIn, c.checkOut, got, c.want)
		}
	}
}

package hotel

import "testing"

func TestBookingStayRoundTrip(t *testing.T) {
	b := Booking{
		CheckInDate:   "2030-09-01",
		CheckOutDate:  "2030-09-04",
		NumOfAdults:   2,
		NumOfChildren: 1,
	}

	stay := b.Stay()
	if !stay.CheckIn.Equal(date("2030-09-01", t)) || !stay.CheckOut.Equal(date("2030-09-04", t)) {
		t.Fatalf("dates = %v..%v, want 2030-09-01..2030-09-04", stay.CheckIn, stay.CheckOut)
	}
	if stay.NumAdults != 2 || stay.NumChildren != 1 {
		t.Fatalf("guests = %d adults, %d children, want 2 and 1", stay.NumAdults, stay.NumChildren)
	}
	if stay.TotalGuests() != 3 {
		t.Fatalf("TotalGuests() = %d, want 3", stay.TotalGuests())
	}

	back := stay.BookingRequest()
	if back.CheckInDate != b.CheckInDate || back.CheckOutDate != b.CheckOutDate {
		t.Fatalf("dates = %s..%s, want the originals back", back.CheckInDate, back.CheckOutDate)
	}
	if back.NumOfAdults != 2 || back.NumOfChildren != 1 || back.TotalNumOfGuest != 3 {
		t.Fatalf("guests = %+v, want 2/1/3", back)
	}
}

func TestBookingStayUnparseableDates(t *testing.T) {
	stay := Booking{CheckInDate: "not-a-date", CheckOutDate: ""}.Stay()
	if !stay.CheckIn.IsZero() || !stay.CheckOut.IsZero() {
		t.Fatalf("bad dates should come back zero, got %v..%v", stay.CheckIn, stay.CheckOut)
	}
}

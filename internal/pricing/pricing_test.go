package pricing_test

import (
	"testing"
	"time"

	"tripdesk/internal/domain"
	"tripdesk/internal/pricing"
)

func d(day int) domain.Date { return domain.NewDate(2026, time.March, day) }

func TestNights(t *testing.T) {
	cases := []struct {
		name       string
		start, end domain.Date
		want       int
	}{
		{"three nights", d(1), d(4), 3},
		{"same day", d(4), d(4), 0},
		{"reversed", d(5), d(2), 0},
		{"zero start", domain.Date{}, d(2), 0},
	}
	for _, c := range cases {
		if got := pricing.Nights(c.start, c.end); got != c.want {
			t.Errorf("%s: Nights=%d want %d", c.name, got, c.want)
		}
	}
}

func TestRoomItemPrice(t *testing.T) {
	if got := pricing.RoomItemPrice(120.5, d(1), d(4)); got != 361.5 {
		t.Fatalf("price=%v want 361.5", got)
	}
}

func TestDriverServiceCost_InclusiveDays(t *testing.T) {
	if got := pricing.DriverServiceCost(50, d(1), d(3)); got != 150 {
		t.Fatalf("cost=%v want 150", got)
	}
}

func TestItineraryTotal(t *testing.T) {
	it := domain.Itinerary{
		StartDate: d(1),
		EndDate:   d(3),
		RoomItems: []domain.RoomItem{
			{ID: 1, Room: domain.RoomRef{BasePrice: 100}, StartDate: d(1), EndDate: d(3), IsPaid: true},
			{ID: 2, Room: domain.RoomRef{BasePrice: 80}, StartDate: d(1), EndDate: d(2)},
		},
		RideBookings: []domain.RideBooking{
			{ID: 1, Price: 20, Status: domain.RideConfirmed},
			{ID: 2, Price: 99, Status: domain.RideCancelled},
		},
		DriverServiceRequested: true,
	}
	b := pricing.ItineraryTotal(it, 10)
	if b.Rooms != 280 || b.Unpaid != 80 || b.Rides != 20 || b.DriverService != 30 || b.Total != 330 {
		t.Fatalf("unexpected breakdown: %+v", b)
	}
}

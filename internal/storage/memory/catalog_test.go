package memory_test

import (
	"context"
	"errors"
	"testing"

	"tripdesk/internal/domain"
	"tripdesk/internal/storage/memory"
)

func TestCatalog_UsersAndDrivers(t *testing.T) {
	ctx := context.Background()
	c := memory.NewCatalog()

	u, err := c.CreateUser(ctx, memory.User{Profile: domain.Profile{Username: "Rui", Email: "rui@x.dev", UserType: domain.UserDriver}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.CreateUser(ctx, memory.User{Profile: domain.Profile{Email: "RUI@x.dev"}}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email: %v", err)
	}
	got, err := c.UserByEmail(ctx, "Rui@X.dev")
	if err != nil || got.ID != u.ID {
		t.Fatalf("lookup by email: %+v %v", got, err)
	}
	d, err := c.Driver(ctx, u.ID)
	if err != nil || d.Name != "Rui" {
		t.Fatalf("driver record for driver user: %+v %v", d, err)
	}
	if n := c.CountUsers(ctx, domain.UserDriver); n != 1 {
		t.Fatalf("drivers = %d", n)
	}
	if _, err := c.User(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing user: %v", err)
	}
}

func TestCatalog_BookingOverlap(t *testing.T) {
	ctx := context.Background()
	c := memory.NewCatalog()
	h, _ := c.CreateHotel(ctx, domain.Hotel{Name: "Casa", City: "Lisbon"})
	r, err := c.CreateRoom(ctx, domain.Room{HotelID: h.ID, RoomType: "Double", BasePrice: 90, RoomCapacity: 2})
	if err != nil {
		t.Fatal(err)
	}
	may := func(d int) domain.Date { return domain.NewDate(2026, 5, d) }

	b, err := c.CreateBooking(ctx, domain.Booking{RoomID: r.ID, HotelID: h.ID, CustomerID: 1, StartDate: may(1), EndDate: may(4)})
	if err != nil {
		t.Fatal(err)
	}
	if b.Status != domain.BookingUpcoming {
		t.Fatalf("status = %s", b.Status)
	}

	cases := []struct {
		name       string
		start, end int
		free       bool
	}{
		{"inside", 2, 3, false},
		{"same checkin", 1, 2, false},
		{"checkout day is free", 4, 6, true},
		{"ends on checkin", 1, 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.RoomFree(ctx, r.ID, may(tc.start), may(tc.end)); got != tc.free {
				t.Fatalf("RoomFree = %v, want %v", got, tc.free)
			}
		})
	}

	if _, err := c.CreateBooking(ctx, domain.Booking{RoomID: r.ID, StartDate: may(3), EndDate: may(5)}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("overlapping booking: %v", err)
	}
	if err := c.CancelBooking(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if !c.RoomFree(ctx, r.ID, may(2), may(3)) {
		t.Fatal("cancelled booking still blocks the room")
	}
	if err := c.CancelBooking(ctx, b.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second cancel: %v", err)
	}
	if got := c.Bookings(ctx, 1, 0); len(got) != 1 {
		t.Fatalf("bookings for customer = %d", len(got))
	}
}

func TestCatalog_ReviewsMaintainRating(t *testing.T) {
	ctx := context.Background()
	c := memory.NewCatalog()
	h, _ := c.CreateHotel(ctx, domain.Hotel{Name: "Lodge", City: "Porto"})

	r1, _ := c.CreateReview(ctx, domain.Review{HotelID: h.ID, CustomerID: 1, Rating: 5})
	if _, err := c.CreateReview(ctx, domain.Review{HotelID: h.ID, CustomerID: 2, Rating: 2}); err != nil {
		t.Fatal(err)
	}
	got, _ := c.Hotel(ctx, h.ID)
	if got.Rating != 3.5 {
		t.Fatalf("rating = %v", got.Rating)
	}
	if err := c.DeleteReview(ctx, r1.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = c.Hotel(ctx, h.ID)
	if got.Rating != 2 {
		t.Fatalf("rating after delete = %v", got.Rating)
	}
	if _, err := c.CreateReview(ctx, domain.Review{HotelID: 999, Rating: 4}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("review for missing hotel: %v", err)
	}
}

func TestCatalog_DeleteHotelDropsRooms(t *testing.T) {
	ctx := context.Background()
	c := memory.NewCatalog()
	h, _ := c.CreateHotel(ctx, domain.Hotel{Name: "Alfama", City: "lisbon"})
	r, _ := c.CreateRoom(ctx, domain.Room{HotelID: h.ID, RoomType: "Twin", BasePrice: 80, RoomCapacity: 2})

	if hs := c.Hotels(ctx, "LISBON"); len(hs) != 1 {
		t.Fatalf("city filter should ignore case, got %d", len(hs))
	}
	ref, err := c.RoomRef(ctx, r.ID)
	if err != nil || ref.Hotel.Name != "Alfama" {
		t.Fatalf("room ref: %+v %v", ref, err)
	}
	if err := c.DeleteHotel(ctx, h.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Room(ctx, r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("room survived hotel delete: %v", err)
	}
}

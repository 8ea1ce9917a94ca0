package memory_test

import (
	"context"
	"errors"
	"testing"

	"tripdesk/internal/domain"
	"tripdesk/internal/storage/memory"
)

func TestStore_ItineraryLifecycle(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	it, err := s.CreateItinerary(ctx, domain.Itinerary{CustomerID: 42, Name: "Porto", NumberOfPersons: 3, Status: domain.ItineraryUpcoming})
	if err != nil || it.ID == 0 {
		t.Fatalf("create: %+v %v", it, err)
	}

	ri, err := s.AddRoomItem(ctx, it.ID, domain.RoomItem{Room: domain.RoomRef{ID: 1, BasePrice: 90}})
	if err != nil {
		t.Fatal(err)
	}
	ride, err := s.AddRide(ctx, it.ID, domain.RideBooking{PickupLocation: "A", DropoffLocation: "B", Status: domain.RidePending})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetItinerary(ctx, it.ID)
	if err != nil || len(got.RoomItems) != 1 || len(got.RideBookings) != 1 {
		t.Fatalf("get: %+v %v", got, err)
	}
	// callers must not be able to mutate stored state through returned slices
	got.RoomItems[0].IsPaid = true
	again, _ := s.GetItinerary(ctx, it.ID)
	if again.RoomItems[0].IsPaid {
		t.Fatal("aliasing between returned copy and store")
	}

	itID, found, err := s.GetRoomItem(ctx, ri.ID)
	if err != nil || itID != it.ID || found.ID != ri.ID {
		t.Fatalf("room item lookup: %d %+v %v", itID, found, err)
	}
	if err := s.MarkRoomItemPaid(ctx, ri.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.AssignRide(ctx, ride.ID, 9, "Rui"); err != nil {
		t.Fatal(err)
	}
	rides, _ := s.ListRides(ctx)
	if len(rides) != 1 || rides[0].Ride.Status != domain.RideConfirmed || rides[0].CustomerID != 42 {
		t.Fatalf("rides=%+v", rides)
	}

	if err := s.DeleteRoomItem(ctx, it.ID, ri.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteRoomItem(ctx, it.ID, ri.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}

	list, _ := s.ListItineraries(ctx, 42)
	if len(list) != 1 {
		t.Fatalf("list=%d", len(list))
	}
	if other, _ := s.ListItineraries(ctx, 7); len(other) != 0 {
		t.Fatalf("foreign list=%d", len(other))
	}

	if err := s.DeleteItinerary(ctx, it.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetItinerary(ctx, it.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
}

func TestStore_ScheduleItems(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	it, _ := s.CreateItinerary(ctx, domain.Itinerary{Name: "x"})

	si, err := s.AddScheduleItem(ctx, it.ID, domain.ScheduleItem{Description: "Museum"})
	if err != nil {
		t.Fatal(err)
	}
	si.Description = "Museum + lunch"
	if err := s.UpdateScheduleItem(ctx, it.ID, si); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetItinerary(ctx, it.ID)
	if got.ScheduleItems[0].Description != "Museum + lunch" {
		t.Fatalf("items=%+v", got.ScheduleItems)
	}
	if err := s.DeleteScheduleItem(ctx, it.ID, si.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateScheduleItem(ctx, it.ID, si); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update deleted: %v", err)
	}
}

package app_test

import (
	"context"
	"sync"

	"tripdesk/internal/domain"
)

// ---- fakes ----

type fakeItineraries struct {
	mu    sync.Mutex
	it    domain.Itinerary
	calls []string
	fail  map[string]error

	gets      int
	statuses  []domain.ItineraryStatus
	bookRooms []domain.BookRoomRequest
}

func (f *fakeItineraries) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.fail[name]
}

func (f *fakeItineraries) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeItineraries) List(ctx context.Context, customerID int64) ([]domain.Itinerary, error) {
	if err := f.record("List"); err != nil {
		return nil, err
	}
	return []domain.Itinerary{f.it}, nil
}
func (f *fakeItineraries) Create(ctx context.Context, in domain.ItineraryInput) (domain.Itinerary, error) {
	return f.it, f.record("Create")
}
func (f *fakeItineraries) Get(ctx context.Context, id int64) (domain.Itinerary, error) {
	if err := f.record("Get"); err != nil {
		return domain.Itinerary{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	// hand out a fresh copy each time, like a real decode would
	out := f.it
	out.RoomItems = append([]domain.RoomItem(nil), f.it.RoomItems...)
	out.RideBookings = append([]domain.RideBooking(nil), f.it.RideBookings...)
	return out, nil
}
func (f *fakeItineraries) Update(ctx context.Context, id int64, in domain.ItineraryInput) (domain.Itinerary, error) {
	if err := f.record("Update"); err != nil {
		return domain.Itinerary{}, err
	}
	f.mu.Lock()
	f.it.Name = in.Name
	f.mu.Unlock()
	return f.it, nil
}
func (f *fakeItineraries) Delete(ctx context.Context, id int64) error { return f.record("Delete") }
func (f *fakeItineraries) UpdateStatus(ctx context.Context, id int64, s domain.ItineraryStatus) error {
	if err := f.record("UpdateStatus"); err != nil {
		return err
	}
	f.mu.Lock()
	f.statuses = append(f.statuses, s)
	f.it.Status = s
	f.mu.Unlock()
	return nil
}
func (f *fakeItineraries) AddScheduleItem(ctx context.Context, itID int64, in domain.ScheduleItemInput) (domain.ScheduleItem, error) {
	return domain.ScheduleItem{}, f.record("AddScheduleItem")
}
func (f *fakeItineraries) UpdateScheduleItem(ctx context.Context, itID, itemID int64, in domain.ScheduleItemInput) (domain.ScheduleItem, error) {
	return domain.ScheduleItem{}, f.record("UpdateScheduleItem")
}
func (f *fakeItineraries) DeleteScheduleItem(ctx context.Context, itID, itemID int64) error {
	return f.record("DeleteScheduleItem")
}
func (f *fakeItineraries) AddRoomItem(ctx context.Context, itID int64, in domain.RoomItemInput) (domain.RoomItem, error) {
	return domain.RoomItem{}, f.record("AddRoomItem")
}
func (f *fakeItineraries) DeleteRoomItem(ctx context.Context, itID, itemID int64) error {
	if err := f.record("DeleteRoomItem"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.it.RoomItems[:0:0]
	for _, r := range f.it.RoomItems {
		if r.ID != itemID {
			kept = append(kept, r)
		}
	}
	f.it.RoomItems = kept
	return nil
}
func (f *fakeItineraries) BookRoom(ctx context.Context, roomItemID int64, persons int, customerID int64) error {
	if err := f.record("BookRoom"); err != nil {
		return err
	}
	f.mu.Lock()
	f.bookRooms = append(f.bookRooms, domain.BookRoomRequest{RoomItemID: roomItemID, NumberOfPersons: persons, CustomerID: customerID})
	f.mu.Unlock()
	return nil
}
func (f *fakeItineraries) AddRide(ctx context.Context, itID int64, in domain.RideInput) (domain.RideBooking, error) {
	return domain.RideBooking{}, f.record("AddRide")
}
func (f *fakeItineraries) CancelRide(ctx context.Context, itID, rideID int64) error {
	return f.record("CancelRide")
}
func (f *fakeItineraries) ReviewRide(ctx context.Context, rideID int64, in domain.RideReviewInput) error {
	return f.record("ReviewRide")
}
func (f *fakeItineraries) SetDriverService(ctx context.Context, itID int64, requested bool) error {
	return f.record("SetDriverService")
}
func (f *fakeItineraries) AvailableRooms(ctx context.Context, q domain.AvailableRoomsQuery) ([]domain.AvailableRoom, error) {
	return nil, f.record("AvailableRooms")
}
func (f *fakeItineraries) SubmitHotelReview(ctx context.Context, in domain.HotelReviewInput) error {
	return f.record("SubmitHotelReview")
}

type fakeRooms struct{}

func (fakeRooms) Room(ctx context.Context, id int64) (domain.Room, error) {
	return domain.Room{ID: id, RoomType: "Double", BasePrice: 100, RoomCapacity: 2}, nil
}

func sampleItinerary() domain.Itinerary {
	hotel := domain.HotelRef{ID: 7, Name: "Casa Azul", City: "Lisbon"}
	return domain.Itinerary{
		ID:              1,
		CustomerID:      42,
		Name:            "Lisbon weekend",
		NumberOfPersons: 2,
		StartDate:       domain.NewDate(2026, 5, 1),
		EndDate:         domain.NewDate(2026, 5, 4),
		Status:          domain.ItineraryUpcoming,
		RoomItems: []domain.RoomItem{
			{ID: 11, Room: domain.RoomRef{ID: 3, RoomType: "Double", BasePrice: 100, Hotel: hotel},
				StartDate: domain.NewDate(2026, 5, 1), EndDate: domain.NewDate(2026, 5, 3)},
			{ID: 12, Room: domain.RoomRef{ID: 4, RoomType: "Suite", BasePrice: 200, Hotel: hotel},
				StartDate: domain.NewDate(2026, 5, 3), EndDate: domain.NewDate(2026, 5, 4)},
		},
		RideBookings: []domain.RideBooking{
			{ID: 21, Status: domain.RideCompleted, Price: 30},
			{ID: 22, Status: domain.RideCancelled, Price: 30},
		},
	}
}

// Package memory is the default itinerary store of the stub backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tripdesk/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	its    map[int64]*domain.Itinerary
	nextID int64
}

func New() *Store {
	return &Store{its: map[int64]*domain.Itinerary{}}
}

var _ domain.ItineraryStore = (*Store)(nil)

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func clone(it *domain.Itinerary) domain.Itinerary { return it.Clone() }

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

func (s *Store) CreateItinerary(_ context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it.ID = s.id()
	it.ScheduleItems, it.RoomItems, it.RideBookings = nil, nil, nil
	s.its[it.ID] = &it
	return clone(&it), nil
}

func (s *Store) GetItinerary(_ context.Context, id int64) (domain.Itinerary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.its[id]
	if !ok {
		return domain.Itinerary{}, notFound("itinerary", id)
	}
	return clone(it), nil
}

// ListItineraries returns the customer's itineraries, all of them when
// customerID is zero.
func (s *Store) ListItineraries(_ context.Context, customerID int64) ([]domain.Itinerary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Itinerary, 0, len(s.its))
	for _, it := range s.its {
		if customerID == 0 || it.CustomerID == customerID {
			out = append(out, clone(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateItinerary replaces the header fields; sub-items are untouched.
func (s *Store) UpdateItinerary(_ context.Context, in domain.Itinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.its[in.ID]
	if !ok {
		return notFound("itinerary", in.ID)
	}
	it.Name = in.Name
	it.NumberOfPersons = in.NumberOfPersons
	it.StartDate = in.StartDate
	it.EndDate = in.EndDate
	it.Status = in.Status
	it.Destinations = append([]string(nil), in.Destinations...)
	it.DriverServiceRequested = in.DriverServiceRequested
	return nil
}

func (s *Store) DeleteItinerary(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.its[id]; !ok {
		return notFound("itinerary", id)
	}
	delete(s.its, id)
	return nil
}

func (s *Store) AddScheduleItem(_ context.Context, itineraryID int64, si domain.ScheduleItem) (domain.ScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.its[itineraryID]
	if !ok {
		return domain.ScheduleItem{}, notFound("itinerary", itineraryID)
	}
	si.ID = s.id()
	it.ScheduleItems = append(it.ScheduleItems, si)
	return si, nil
}

func (s *Store) UpdateScheduleItem(_ context.Context, itineraryID int64, si domain.ScheduleItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.its[itineraryID]
	if !ok {
		return notFound("itinerary", itineraryID)
	}
	for i := range it.ScheduleItems {
		if it.ScheduleItems[i].ID == si.ID {
			it.ScheduleItems[i] = si
			return nil
		}
	}
	return notFound("schedule item", si.ID)
}

func (s *Store) DeleteScheduleItem(_ context.Context, itineraryID, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.its[itineraryID]
	if !ok {
		return notFound("itinerary", itineraryID)
	}
	for i, si := range it.ScheduleItems {
		if si.ID == itemID {
			it.ScheduleItems = append(it.ScheduleItems[:i:i], it.ScheduleItems[i+1:]...)
			return nil
		}
	}
	return notFound("schedule item", itemID)
}

func (s *Store) AddRoomItem(_ context.Context, itineraryID int64, r domain.RoomItem) (domain.RoomItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.its[itineraryID]
	if !ok {
		return domain.RoomItem{}, notFound("itinerary", itineraryID)
	}
	r.ID = s.id()
	it.RoomItems = append(it.RoomItems, r)
	return r, nil
}

func (s *Store) GetRoomItem(_ context.Context, itemID int64) (int64, domain.RoomItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.its {
		for _, r := range it.RoomItems {
			if r.ID == itemID {
				return it.ID, r, nil
			}
		}
	}
	return 0, domain.RoomItem{}, notFound("room item", itemID)
}

func (s *Store) DeleteRoomItem(_ context.Context, itineraryID, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.its[itineraryID]
	if !ok {
		return notFound("itinerary", itineraryID)
	}
	for i, r := range it.RoomItems {
		if r.ID == itemID {
			it.RoomItems = append(it.RoomItems[:i:i], it.RoomItems[i+1:]...)
			return nil
		}
	}
	return notFound("room item", itemID)
}

func (s *Store) MarkRoomItemPaid(_ context.Context, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.its {
		for i := range it.RoomItems {
			if it.RoomItems[i].ID == itemID {
				it.RoomItems[i].IsPaid = true
				return nil
			}
		}
	}
	return notFound("room item", itemID)
}

func (s *Store) AddRide(_ context.Context, itineraryID int64, r domain.RideBooking) (domain.RideBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.its[itineraryID]
	if !ok {
		return domain.RideBooking{}, notFound("itinerary", itineraryID)
	}
	r.ID = s.id()
	it.RideBookings = append(it.RideBookings, r)
	return r, nil
}

// ride must be called with s.mu held.
func (s *Store) ride(rideID int64) (*domain.RideBooking, bool) {
	for _, it := range s.its {
		for i := range it.RideBookings {
			if it.RideBookings[i].ID == rideID {
				return &it.RideBookings[i], true
			}
		}
	}
	return nil, false
}

func (s *Store) SetRideStatus(_ context.Context, itineraryID, rideID int64, status domain.RideStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.its[itineraryID]
	if !ok {
		return notFound("itinerary", itineraryID)
	}
	for i := range it.RideBookings {
		if it.RideBookings[i].ID == rideID {
			it.RideBookings[i].Status = status
			return nil
		}
	}
	return notFound("ride", rideID)
}

func (s *Store) AssignRide(_ context.Context, rideID, driverID int64, driverName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ride(rideID)
	if !ok {
		return notFound("ride", rideID)
	}
	r.DriverID = driverID
	r.DriverName = driverName
	r.Status = domain.RideConfirmed
	return nil
}

func (s *Store) MarkRideReviewed(_ context.Context, rideID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ride(rideID)
	if !ok {
		return notFound("ride", rideID)
	}
	r.IsReviewed = true
	return nil
}

func (s *Store) ListRides(_ context.Context) ([]domain.RideRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.RideRecord
	for _, it := range s.its {
		for _, r := range it.RideBookings {
			out = append(out, domain.RideRecord{ItineraryID: it.ID, CustomerID: it.CustomerID, Ride: r})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ride.ID < out[j].Ride.ID })
	return out, nil
}

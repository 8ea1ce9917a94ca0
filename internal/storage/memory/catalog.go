package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tripdesk/internal/domain"
)

// User is an account of the stub backend.
type User struct {
	domain.Profile
	PasswordHash []byte
	HotelID      int64 // hotel accounts only
}

// Catalog holds everything the stub backend serves besides itineraries:
// accounts, hotels, rooms, bookings, reviews and drivers.
type Catalog struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[int64]*User
	hotels   map[int64]domain.Hotel
	rooms    map[int64]domain.Room
	bookings map[int64]domain.Booking
	reviews  map[int64]domain.Review
	drivers  map[int64]domain.Driver
}

func NewCatalog() *Catalog {
	return &Catalog{
		users:    map[int64]*User{},
		hotels:   map[int64]domain.Hotel{},
		rooms:    map[int64]domain.Room{},
		bookings: map[int64]domain.Booking{},
		reviews:  map[int64]domain.Review{},
		drivers:  map[int64]domain.Driver{},
	}
}

func (c *Catalog) id() int64 {
	c.nextID++
	return c.nextID
}

func sorted[T any](m map[int64]T, keep func(T) bool) []T {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// ---- accounts ----

func (c *Catalog) CreateUser(_ context.Context, u User) (User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, x := range c.users {
		if strings.EqualFold(x.Email, u.Email) {
			return User{}, fmt.Errorf("email %s: %w", u.Email, domain.ErrConflict)
		}
	}
	u.ID = c.id()
	c.users[u.ID] = &u
	if u.UserType == domain.UserDriver {
		c.drivers[u.ID] = domain.Driver{ID: u.ID, Name: u.Username, Email: u.Email, Phone: u.Phone, Available: true}
	}
	return u, nil
}

func (c *Catalog) UserByEmail(_ context.Context, email string) (User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, u := range c.users {
		if strings.EqualFold(u.Email, email) {
			return *u, nil
		}
	}
	return User{}, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (c *Catalog) User(_ context.Context, id int64) (User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.users[id]
	if !ok {
		return User{}, notFound("user", id)
	}
	return *u, nil
}

func (c *Catalog) UpdateProfile(_ context.Context, p domain.Profile) (domain.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[p.ID]
	if !ok {
		return domain.Profile{}, notFound("user", p.ID)
	}
	if strings.TrimSpace(p.Username) != "" {
		u.Username = p.Username
	}
	u.Phone = p.Phone
	u.Address = p.Address
	return u.Profile, nil
}

func (c *Catalog) CountUsers(_ context.Context, ut domain.UserType) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, u := range c.users {
		if u.UserType == ut {
			n++
		}
	}
	return n
}

// ---- hotels ----

// Hotels lists hotels, filtered by city (case-insensitive) when set.
func (c *Catalog) Hotels(_ context.Context, city string) []domain.Hotel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sorted(c.hotels, func(h domain.Hotel) bool {
		return city == "" || strings.EqualFold(h.City, city)
	})
}

func (c *Catalog) Hotel(_ context.Context, id int64) (domain.Hotel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.hotels[id]
	if !ok {
		return domain.Hotel{}, notFound("hotel", id)
	}
	return h, nil
}

func (c *Catalog) CreateHotel(_ context.Context, h domain.Hotel) (domain.Hotel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h.ID = c.id()
	c.hotels[h.ID] = h
	return h, nil
}

func (c *Catalog) UpdateHotel(_ context.Context, h domain.Hotel) (domain.Hotel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, ok := c.hotels[h.ID]
	if !ok {
		return domain.Hotel{}, notFound("hotel", h.ID)
	}
	h.Rating = old.Rating
	c.hotels[h.ID] = h
	return h, nil
}

// DeleteHotel removes the hotel and its rooms.
func (c *Catalog) DeleteHotel(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.hotels[id]; !ok {
		return notFound("hotel", id)
	}
	delete(c.hotels, id)
	for rid, r := range c.rooms {
		if r.HotelID == id {
			delete(c.rooms, rid)
		}
	}
	return nil
}

// ---- rooms ----

func (c *Catalog) Rooms(_ context.Context, hotelID int64) []domain.Room {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sorted(c.rooms, func(r domain.Room) bool { return hotelID == 0 || r.HotelID == hotelID })
}

func (c *Catalog) Room(_ context.Context, id int64) (domain.Room, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rooms[id]
	if !ok {
		return domain.Room{}, notFound("room", id)
	}
	return r, nil
}

// RoomRef is the room as embedded in itinerary room items.
func (c *Catalog) RoomRef(ctx context.Context, id int64) (domain.RoomRef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rooms[id]
	if !ok {
		return domain.RoomRef{}, notFound("room", id)
	}
	h := c.hotels[r.HotelID]
	return domain.RoomRef{
		ID:           r.ID,
		RoomType:     r.RoomType,
		BasePrice:    r.BasePrice,
		RoomCapacity: r.RoomCapacity,
		Hotel:        domain.HotelRef{ID: h.ID, Name: h.Name, City: h.City},
	}, nil
}

func (c *Catalog) CreateRoom(_ context.Context, r domain.Room) (domain.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.hotels[r.HotelID]; !ok {
		return domain.Room{}, notFound("hotel", r.HotelID)
	}
	r.ID = c.id()
	c.rooms[r.ID] = r
	return r, nil
}

func (c *Catalog) UpdateRoom(_ context.Context, r domain.Room) (domain.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, ok := c.rooms[r.ID]
	if !ok {
		return domain.Room{}, notFound("room", r.ID)
	}
	r.HotelID = old.HotelID
	c.rooms[r.ID] = r
	return r, nil
}

func (c *Catalog) DeleteRoom(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.rooms[id]; !ok {
		return notFound("room", id)
	}
	delete(c.rooms, id)
	return nil
}

// ---- bookings ----

func overlaps(aStart, aEnd, bStart, bEnd domain.Date) bool {
	return aStart.Before(bEnd.Time) && bStart.Before(aEnd.Time)
}

// RoomFree reports whether no live booking of roomID overlaps [start, end).
func (c *Catalog) RoomFree(_ context.Context, roomID int64, start, end domain.Date) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomFree(roomID, start, end)
}

func (c *Catalog) roomFree(roomID int64, start, end domain.Date) bool {
	for _, b := range c.bookings {
		if b.RoomID == roomID && b.Status != domain.BookingCancelled && overlaps(b.StartDate, b.EndDate, start, end) {
			return false
		}
	}
	return true
}

// CreateBooking stores b unless the room is taken for those dates.
func (c *Catalog) CreateBooking(_ context.Context, b domain.Booking) (domain.Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.roomFree(b.RoomID, b.StartDate, b.EndDate) {
		return domain.Booking{}, fmt.Errorf("room %d: %w", b.RoomID, domain.ErrConflict)
	}
	b.ID = c.id()
	if b.Status == "" {
		b.Status = domain.BookingUpcoming
	}
	c.bookings[b.ID] = b
	return b, nil
}

func (c *Catalog) Booking(_ context.Context, id int64) (domain.Booking, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bookings[id]
	if !ok {
		return domain.Booking{}, notFound("booking", id)
	}
	return b, nil
}

func (c *Catalog) CancelBooking(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bookings[id]
	if !ok {
		return notFound("booking", id)
	}
	if b.Status == domain.BookingCancelled {
		return fmt.Errorf("booking %d: %w", id, domain.ErrConflict)
	}
	b.Status = domain.BookingCancelled
	c.bookings[id] = b
	return nil
}

// Bookings filters by customer and hotel; zero means any.
func (c *Catalog) Bookings(_ context.Context, customerID, hotelID int64) []domain.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sorted(c.bookings, func(b domain.Booking) bool {
		return (customerID == 0 || b.CustomerID == customerID) && (hotelID == 0 || b.HotelID == hotelID)
	})
}

// ---- reviews ----

func (c *Catalog) Reviews(_ context.Context, hotelID int64) []domain.Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sorted(c.reviews, func(r domain.Review) bool { return r.HotelID == hotelID })
}

func (c *Catalog) Review(_ context.Context, id int64) (domain.Review, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.reviews[id]
	if !ok {
		return domain.Review{}, notFound("review", id)
	}
	return r, nil
}

// CreateReview stores r and refreshes the hotel's average rating.
func (c *Catalog) CreateReview(_ context.Context, r domain.Review) (domain.Review, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.hotels[r.HotelID]; !ok {
		return domain.Review{}, notFound("hotel", r.HotelID)
	}
	r.ID = c.id()
	c.reviews[r.ID] = r
	c.rate(r.HotelID)
	return r, nil
}

func (c *Catalog) DeleteReview(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.reviews[id]
	if !ok {
		return notFound("review", id)
	}
	delete(c.reviews, id)
	c.rate(r.HotelID)
	return nil
}

func (c *Catalog) rate(hotelID int64) {
	h, ok := c.hotels[hotelID]
	if !ok {
		return
	}
	sum, n := 0, 0
	for _, r := range c.reviews {
		if r.HotelID == hotelID {
			sum += r.Rating
			n++
		}
	}
	h.Rating = 0
	if n > 0 {
		h.Rating = float64(sum) / float64(n)
	}
	c.hotels[hotelID] = h
}

// ---- drivers ----

func (c *Catalog) Drivers(_ context.Context) []domain.Driver {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sorted(c.drivers, nil)
}

func (c *Catalog) Driver(_ context.Context, id int64) (domain.Driver, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.drivers[id]
	if !ok {
		return domain.Driver{}, notFound("driver", id)
	}
	return d, nil
}

func (c *Catalog) CreateDriver(_ context.Context, d domain.Driver) (domain.Driver, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d.ID = c.id()
	c.drivers[d.ID] = d
	return d, nil
}

func (c *Catalog) UpdateDriver(_ context.Context, d domain.Driver) (domain.Driver, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.drivers[d.ID]; !ok {
		return domain.Driver{}, notFound("driver", d.ID)
	}
	c.drivers[d.ID] = d
	return d, nil
}

func (c *Catalog) DeleteDriver(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.drivers[id]; !ok {
		return notFound("driver", id)
	}
	delete(c.drivers, id)
	return nil
}

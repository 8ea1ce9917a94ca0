package domain

import (
	"strings"
	"time"
)

type ItineraryStatus string

const (
	ItineraryUpcoming  ItineraryStatus = "upcoming"
	ItineraryOngoing   ItineraryStatus = "ongoing"
	ItineraryCompleted ItineraryStatus = "completed"
	ItineraryAccepted  ItineraryStatus = "accepted"
)

type RideStatus string

const (
	RideConfirmed RideStatus = "confirmed"
	RidePending   RideStatus = "pending"
	RideCompleted RideStatus = "completed"
	RideCancelled RideStatus = "cancelled"
)

// Itinerary is the full aggregate returned by GET /itinerary/{id}.
type Itinerary struct {
	ID                     int64           `json:"id"`
	CustomerID             int64           `json:"customer_id"`
	Name                   string          `json:"name"`
	NumberOfPersons        int             `json:"number_of_persons"`
	StartDate              Date            `json:"start_date"`
	EndDate                Date            `json:"end_date"`
	Status                 ItineraryStatus `json:"status"`
	Destinations           []string        `json:"destinations"`
	ScheduleItems          []ScheduleItem  `json:"schedule_items"`
	RoomItems              []RoomItem      `json:"room_items"`
	RideBookings           []RideBooking   `json:"ride_bookings"`
	DriverServiceRequested bool            `json:"driver_service_requested"`
}

// Clone returns a copy that shares no slice storage with it.
func (it Itinerary) Clone() Itinerary {
	out := it
	out.Destinations = append([]string(nil), it.Destinations...)
	out.ScheduleItems = append([]ScheduleItem(nil), it.ScheduleItems...)
	out.RoomItems = append([]RoomItem(nil), it.RoomItems...)
	out.RideBookings = append([]RideBooking(nil), it.RideBookings...)
	return out
}

func (it Itinerary) RoomItem(id int64) (RoomItem, bool) {
	for _, r := range it.RoomItems {
		if r.ID == id {
			return r, true
		}
	}
	return RoomItem{}, false
}

func (it Itinerary) UnpaidRoomItems() []RoomItem {
	var out []RoomItem
	for _, r := range it.RoomItems {
		if !r.IsPaid {
			out = append(out, r)
		}
	}
	return out
}

type HotelRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type RoomRef struct {
	ID           int64    `json:"id"`
	RoomType     string   `json:"room_type"`
	BasePrice    float64  `json:"base_price"`
	RoomCapacity int      `json:"room_capacity"`
	Hotel        HotelRef `json:"hotel"`
}

type RoomItem struct {
	ID        int64   `json:"id"`
	Room      RoomRef `json:"room"`
	StartDate Date    `json:"start_date"`
	EndDate   Date    `json:"end_date"`
	IsPaid    bool    `json:"is_paid"`
}

type ScheduleItem struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type RideBooking struct {
	ID              int64      `json:"id"`
	PickupLocation  string     `json:"pickup_location"`
	DropoffLocation string     `json:"dropoff_location"`
	PickupDateTime  time.Time  `json:"pickup_date_time"`
	Status          RideStatus `json:"status"`
	Price           float64    `json:"price"`
	DriverID        int64      `json:"driver_id,omitempty"`
	DriverName      string     `json:"driver_name"`
	IsReviewed      bool       `json:"is_reviewed"`
}

// ---- request bodies ----

type ItineraryInput struct {
	CustomerID      int64  `json:"customer_id"`
	Name            string `json:"name"`
	NumberOfPersons int    `json:"number_of_persons"`
	StartDate       Date   `json:"start_date"`
	EndDate         Date   `json:"end_date"`
}

func (in ItineraryInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return Invalid("name", "Itinerary name is required")
	case in.NumberOfPersons < 1:
		return Invalid("number_of_persons", "At least one person is required")
	case in.StartDate.IsZero() || in.EndDate.IsZero():
		return Invalid("dates", "Start and end dates are required")
	case in.EndDate.Before(in.StartDate.Time):
		return Invalid("end_date", "End date must not be before start date")
	}
	return nil
}

type ScheduleItemInput struct {
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

func (in ScheduleItemInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Description) == "":
		return Invalid("description", "Activity description is required")
	case strings.TrimSpace(in.Location) == "":
		return Invalid("location", "Activity location is required")
	case in.StartTime.IsZero() || in.EndTime.IsZero():
		return Invalid("time", "Start and end time are required")
	case !in.EndTime.After(in.StartTime):
		return Invalid("end_time", "End time must be after start time")
	}
	return nil
}

type RoomItemInput struct {
	RoomID    int64 `json:"room_id"`
	StartDate Date  `json:"start_date"`
	EndDate   Date  `json:"end_date"`
}

func (in RoomItemInput) Validate() error {
	switch {
	case in.RoomID <= 0:
		return Invalid("room_id", "Select a room")
	case in.StartDate.IsZero() || in.EndDate.IsZero():
		return Invalid("dates", "Check-in and check-out dates are required")
	case !in.EndDate.After(in.StartDate.Time):
		return Invalid("end_date", "Check-out must be after check-in")
	}
	return nil
}

// BookRoomRequest is sent as-is; the backend expects exactly these fields.
type BookRoomRequest struct {
	RoomItemID      int64 `json:"room_item_id"`
	NumberOfPersons int   `json:"number_of_persons"`
	CustomerID      int64 `json:"customer_id"`
}

type RideInput struct {
	PickupLocation  string    `json:"pickup_location"`
	DropoffLocation string    `json:"dropoff_location"`
	PickupDateTime  time.Time `json:"pickup_date_time"`
}

func (in RideInput) Validate() error {
	switch {
	case strings.TrimSpace(in.PickupLocation) == "":
		return Invalid("pickup_location", "Pickup location is required")
	case strings.TrimSpace(in.DropoffLocation) == "":
		return Invalid("dropoff_location", "Drop-off location is required")
	case in.PickupDateTime.IsZero():
		return Invalid("pickup_date_time", "Pickup time is required")
	}
	return nil
}

type RideReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type HotelReviewInput struct {
	HotelID    int64  `json:"hotel_id"`
	CustomerID int64  `json:"customer_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func ValidateRating(r int) error {
	if r < 1 || r > 5 {
		return Invalid("rating", "Rating must be between 1 and 5")
	}
	return nil
}

type AvailableRoomsQuery struct {
	City      string
	StartDate Date
	EndDate   Date
	Persons   int
}

type AvailableRoom struct {
	RoomRef
	Available bool `json:"available"`
}

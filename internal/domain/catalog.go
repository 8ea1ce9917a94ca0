package domain

import "strings"

type BookingStatus string

const (
	BookingUpcoming  BookingStatus = "upcoming"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type Hotel struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Address     string   `json:"address"`
	Description string   `json:"description,omitempty"`
	Stars       int      `json:"stars,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
}

func (h Hotel) Validate() error {
	switch {
	case strings.TrimSpace(h.Name) == "":
		return Invalid("name", "Hotel name is required")
	case strings.TrimSpace(h.City) == "":
		return Invalid("city", "City is required")
	}
	return nil
}

type Room struct {
	ID           int64   `json:"id"`
	HotelID      int64   `json:"hotel_id"`
	RoomType     string  `json:"room_type"`
	BasePrice    float64 `json:"base_price"`
	RoomCapacity int     `json:"room_capacity"`
	Description  string  `json:"description,omitempty"`
}

func (r Room) Validate() error {
	switch {
	case strings.TrimSpace(r.RoomType) == "":
		return Invalid("room_type", "Room type is required")
	case r.BasePrice <= 0:
		return Invalid("base_price", "Base price must be positive")
	case r.RoomCapacity < 1:
		return Invalid("room_capacity", "Capacity must be at least 1")
	}
	return nil
}

// Booking is a customer-facing room reservation.
type Booking struct {
	ID         int64         `json:"id"`
	CustomerID int64         `json:"customer_id,omitempty"`
	HotelID    int64         `json:"hotel_id,omitempty"`
	RoomID     int64         `json:"room_id,omitempty"`
	HotelName  string        `json:"hotel_name"`
	RoomName   string        `json:"room_name"`
	StartDate  Date          `json:"start_date"`
	EndDate    Date          `json:"end_date"`
	Guests     int           `json:"guests"`
	Status     BookingStatus `json:"status"`
	TotalPrice float64       `json:"total_price"`
}

type BookingInput struct {
	RoomID     int64 `json:"room_id"`
	CustomerID int64 `json:"customer_id"`
	StartDate  Date  `json:"start_date"`
	EndDate    Date  `json:"end_date"`
	Guests     int   `json:"guests"`
}

func (in BookingInput) Validate() error {
	switch {
	case in.RoomID <= 0:
		return Invalid("room_id", "Select a room")
	case in.Guests < 1:
		return Invalid("guests", "At least one guest is required")
	case in.StartDate.IsZero() || in.EndDate.IsZero():
		return Invalid("dates", "Check-in and check-out dates are required")
	case !in.EndDate.After(in.StartDate.Time):
		return Invalid("end_date", "Check-out must be after check-in")
	}
	return nil
}

type Review struct {
	ID         int64  `json:"id"`
	HotelID    int64  `json:"hotel_id"`
	CustomerID int64  `json:"customer_id"`
	Author     string `json:"author,omitempty"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func (r Review) Validate() error {
	if r.HotelID <= 0 {
		return Invalid("hotel_id", "Select a hotel")
	}
	return ValidateRating(r.Rating)
}

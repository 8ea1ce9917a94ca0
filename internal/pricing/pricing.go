// Package pricing derives the display prices shown next to itinerary items.
// The backend stays authoritative; these numbers are for presentation only
// and every caller goes through this package so they cannot drift apart.
package pricing

import (
	"math"
	"time"

	"tripdesk/internal/domain"
)

// DefaultDriverRatePerDay is the flat daily price of the driver service add-on.
const DefaultDriverRatePerDay = 50.0

// Nights counts hotel nights between check-in and check-out.
func Nights(start, end domain.Date) int {
	if start.IsZero() || end.IsZero() || !end.After(start.Time) {
		return 0
	}
	return int(math.Ceil(end.Sub(start.Time).Hours() / 24))
}

// Days counts calendar days in [start, end], both ends included.
func Days(start, end domain.Date) int {
	if start.IsZero() || end.IsZero() || end.Before(start.Time) {
		return 0
	}
	return Nights(start, end) + 1
}

func RoomItemPrice(basePrice float64, start, end domain.Date) float64 {
	return round2(basePrice * float64(Nights(start, end)))
}

func PriceOf(ri domain.RoomItem) float64 {
	return RoomItemPrice(ri.Room.BasePrice, ri.StartDate, ri.EndDate)
}

func DriverServiceCost(ratePerDay float64, start, end domain.Date) float64 {
	return round2(ratePerDay * float64(Days(start, end)))
}

type Breakdown struct {
	Rooms         float64 `json:"rooms"`
	Rides         float64 `json:"rides"`
	DriverService float64 `json:"driver_service"`
	Total         float64 `json:"total"`
	Unpaid        float64 `json:"unpaid"`
}

// ItineraryTotal sums the itinerary's rooms, non-cancelled rides and the
// driver service when requested. Unpaid only covers room items.
func ItineraryTotal(it domain.Itinerary, driverRatePerDay float64) Breakdown {
	var b Breakdown
	for _, ri := range it.RoomItems {
		p := PriceOf(ri)
		b.Rooms += p
		if !ri.IsPaid {
			b.Unpaid += p
		}
	}
	for _, r := range it.RideBookings {
		if r.Status != domain.RideCancelled {
			b.Rides += r.Price
		}
	}
	if it.DriverServiceRequested {
		b.DriverService = DriverServiceCost(driverRatePerDay, it.StartDate, it.EndDate)
	}
	b.Rooms = round2(b.Rooms)
	b.Rides = round2(b.Rides)
	b.Unpaid = round2(b.Unpaid)
	b.Total = round2(b.Rooms + b.Rides + b.DriverService)
	return b
}

// BookingPrice is what the customer pays for a standalone room booking.
func BookingPrice(basePrice float64, start, end domain.Date) float64 {
	return RoomItemPrice(basePrice, start, end)
}

// IsOngoing reports whether day falls inside the itinerary's dates.
func IsOngoing(it domain.Itinerary, now time.Time) bool {
	day := domain.DateOf(now)
	return !day.Before(it.StartDate.Time) && !day.After(it.EndDate.Time)
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }

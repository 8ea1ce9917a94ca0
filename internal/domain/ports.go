package domain

import "context"

// Persisted client state (the browser's local storage in the web client).
const (
	KeySession    = "tripdesk.session"
	KeyExpiry     = "tripdesk.expiry"
	KeyCredential = "tripdesk.credential"
)

type StateStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// Notifier shows short user-facing messages (toasts).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type ItineraryAPI interface {
	List(ctx context.Context, customerID int64) ([]Itinerary, error)
	Create(ctx context.Context, in ItineraryInput) (Itinerary, error)
	Get(ctx context.Context, id int64) (Itinerary, error)
	Update(ctx context.Context, id int64, in ItineraryInput) (Itinerary, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status ItineraryStatus) error

	AddScheduleItem(ctx context.Context, itineraryID int64, in ScheduleItemInput) (ScheduleItem, error)
	UpdateScheduleItem(ctx context.Context, itineraryID, itemID int64, in ScheduleItemInput) (ScheduleItem, error)
	DeleteScheduleItem(ctx context.Context, itineraryID, itemID int64) error

	AddRoomItem(ctx context.Context, itineraryID int64, in RoomItemInput) (RoomItem, error)
	DeleteRoomItem(ctx context.Context, itineraryID, itemID int64) error
	BookRoom(ctx context.Context, roomItemID int64, persons int, customerID int64) error

	AddRide(ctx context.Context, itineraryID int64, in RideInput) (RideBooking, error)
	CancelRide(ctx context.Context, itineraryID, rideID int64) error
	ReviewRide(ctx context.Context, rideID int64, in RideReviewInput) error
	SetDriverService(ctx context.Context, itineraryID int64, requested bool) error

	AvailableRooms(ctx context.Context, q AvailableRoomsQuery) ([]AvailableRoom, error)
	SubmitHotelReview(ctx context.Context, in HotelReviewInput) error
}

// RoomCatalog is the slice of the customer API the itinerary page reads.
type RoomCatalog interface {
	Room(ctx context.Context, id int64) (Room, error)
}

// ItineraryStore persists itineraries on the backend side.
type ItineraryStore interface {
	CreateItinerary(ctx context.Context, it Itinerary) (Itinerary, error)
	GetItinerary(ctx context.Context, id int64) (Itinerary, error)
	ListItineraries(ctx context.Context, customerID int64) ([]Itinerary, error)
	UpdateItinerary(ctx context.Context, it Itinerary) error
	DeleteItinerary(ctx context.Context, id int64) error

	AddScheduleItem(ctx context.Context, itineraryID int64, s ScheduleItem) (ScheduleItem, error)
	UpdateScheduleItem(ctx context.Context, itineraryID int64, s ScheduleItem) error
	DeleteScheduleItem(ctx context.Context, itineraryID, itemID int64) error

	AddRoomItem(ctx context.Context, itineraryID int64, r RoomItem) (RoomItem, error)
	GetRoomItem(ctx context.Context, itemID int64) (itineraryID int64, r RoomItem, err error)
	DeleteRoomItem(ctx context.Context, itineraryID, itemID int64) error
	MarkRoomItemPaid(ctx context.Context, itemID int64) error

	AddRide(ctx context.Context, itineraryID int64, r RideBooking) (RideBooking, error)
	SetRideStatus(ctx context.Context, itineraryID, rideID int64, status RideStatus) error
	AssignRide(ctx context.Context, rideID, driverID int64, driverName string) error
	MarkRideReviewed(ctx context.Context, rideID int64) error
	ListRides(ctx context.Context) ([]RideRecord, error)
}

// RideRecord is a ride plus the itinerary it belongs to.
type RideRecord struct {
	ItineraryID int64
	CustomerID  int64
	Ride        RideBooking
}

type AuthAPI interface {
	SignUp(ctx context.Context, in SignUpInput) (Profile, error)
	SignIn(ctx context.Context, email, password string) (SignInResult, error)
	SignOut(ctx context.Context) error
}

// CredentialJar exposes the backend session token held by the HTTP client.
type CredentialJar interface {
	Credential() string
	SetCredential(token string)
}

type MetricsAPI interface {
	Metric(ctx context.Context, name MetricName) (Metric, error)
}

type BookingsAPI interface {
	Bookings(ctx context.Context, customerID int64) ([]Booking, error)
}

type TripsAPI interface {
	AcceptedTrips(ctx context.Context, driverID int64) ([]Trip, error)
	PendingTrips(ctx context.Context) ([]Trip, error)
}

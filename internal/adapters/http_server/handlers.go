package httpserver

import (
	"time"

	"github.com/go-chi/chi/v5"

	"tripdesk/internal/domain"
	"tripdesk/internal/storage/memory"
)

// Handlers serves the REST surface the client talks to.
type Handlers struct {
	Catalog  *memory.Catalog
	Store    domain.ItineraryStore
	Tokens   *Tokens
	RideFare float64

	// Now is the clock; tests replace it.
	Now func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Group(func(m chi.Router) {
		m.Use(Authenticate(h.Tokens))

		m.Route("/auth", func(m chi.Router) {
			m.Post("/signup", h.signUp)
			m.Post("/signin", h.signIn)
			m.Get("/signout", h.signOut)
		})

		m.Route("/customer", func(m chi.Router) {
			m.Get("/hotels", h.listHotels)
			m.Get("/hotels/{id}", h.getHotel)
			m.Get("/hotels/{id}/rooms", h.hotelRooms)
			m.Get("/hotels/{id}/reviews", h.hotelReviews)
			m.Get("/rooms/{id}", h.getRoom)

			m.Group(func(m chi.Router) {
				m.Use(RequireRole(domain.UserCustomer, domain.UserAdmin))
				m.Get("/bookings", h.listBookings)
				m.Post("/bookings", h.createBooking)
				m.Delete("/bookings/{id}", h.cancelBooking)
				m.Post("/reviews", h.createReview)
				m.Delete("/reviews/{id}", h.deleteReview)
			})
			m.Group(func(m chi.Router) {
				m.Use(RequireRole())
				m.Get("/profile/{id}", h.getProfile)
				m.Put("/profile/{id}", h.updateProfile)
			})
		})

		m.Route("/itinerary", func(m chi.Router) {
			m.Use(RequireRole(domain.UserCustomer, domain.UserAdmin))
			m.Get("/", h.listItineraries)
			m.Post("/", h.createItinerary)
			m.Get("/available-rooms", h.availableRooms)
			m.Post("/book-room", h.bookRoom)
			m.Post("/hotel-review", h.hotelReview)
			m.Post("/rides/{ride}/review", h.reviewRide)

			m.Route("/{id}", func(m chi.Router) {
				m.Get("/", h.getItinerary)
				m.Put("/", h.updateItinerary)
				m.Delete("/", h.deleteItinerary)
				m.Patch("/status", h.updateStatus)
				m.Put("/driver-service", h.driverService)

				m.Post("/schedule-items", h.addScheduleItem)
				m.Put("/schedule-items/{item}", h.updateScheduleItem)
				m.Delete("/schedule-items/{item}", h.deleteScheduleItem)

				m.Post("/room-items", h.addRoomItem)
				m.Delete("/room-items/{item}", h.deleteRoomItem)

				m.Post("/rides", h.addRide)
				m.Delete("/rides/{ride}", h.cancelRide)
			})
		})

		m.Route("/driver", func(m chi.Router) {
			m.Use(RequireRole(domain.UserDriver, domain.UserAdmin))
			m.Get("/{id}/trips/accepted", h.acceptedTrips)
			m.Get("/trips/pending", h.pendingTrips)
			m.Post("/rides/{id}/accept", h.acceptRide)
			m.Post("/rides/{id}/decline", h.declineRide)
			m.Post("/rides/{id}/complete", h.completeRide)
			m.Get("/profile/{id}", h.driverProfile)
		})

		m.Route("/admin", func(m chi.Router) {
			m.Use(RequireRole(domain.UserAdmin))
			m.Get("/drivers", h.listDrivers)
			m.Post("/drivers", h.createDriver)
			m.Put("/drivers/{id}", h.updateDriver)
			m.Delete("/drivers/{id}", h.deleteDriver)
			m.Get("/hotels", h.adminHotels)
			m.Post("/hotels", h.createHotel)
			m.Put("/hotels/{id}", h.updateHotel)
			m.Delete("/hotels/{id}", h.deleteHotel)
			m.Get("/metrics/{name}", h.metric)
			m.Get("/rooms", h.adminRooms)
			m.Get("/bookings", h.adminBookings)
		})

		m.Route("/hotel", func(m chi.Router) {
			m.Use(RequireRole(domain.UserHotel, domain.UserAdmin))
			m.Get("/{hotelID}/rooms", h.ownRooms)
			m.Post("/{hotelID}/rooms", h.createRoom)
			m.Put("/rooms/{id}", h.updateRoom)
			m.Delete("/rooms/{id}", h.deleteRoom)
			m.Get("/{hotelID}/bookings", h.ownBookings)
			m.Get("/{hotelID}/reviews", h.ownReviews)
		})
	})
}

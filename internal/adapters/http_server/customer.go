package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"tripdesk/internal/domain"
	"tripdesk/internal/pricing"
)

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Hotels(r.Context(), strings.TrimSpace(r.URL.Query().Get("city"))))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	hotel, err := h.Catalog.Hotel(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

func (h *Handlers) hotelRooms(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if _, err := h.Catalog.Hotel(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.Rooms(r.Context(), id))
}

func (h *Handlers) hotelReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.Reviews(r.Context(), id))
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	room, err := h.Catalog.Room(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// self resolves the customer id a request acts for. Customers may only act
// for themselves; admins may act for anyone.
func self(r *http.Request, requested int64) (int64, error) {
	p, _ := principal(r.Context())
	if p.Role == domain.UserAdmin {
		return requested, nil
	}
	if requested != 0 && requested != p.UserID {
		return 0, forbidden("You can only access your own records")
	}
	return p.UserID, nil
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	q, err := queryID(r, "customer_id")
	if err == nil {
		q, err = self(r, q)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.Bookings(r.Context(), q, 0))
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var in domain.BookingInput
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		fail(w, r, err)
		return
	}
	customerID, err := self(r, in.CustomerID)
	if err != nil {
		fail(w, r, err)
		return
	}
	b, err := h.book(r, in.RoomID, customerID, in.Guests, in.StartDate, in.EndDate)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// book reserves a catalog room; shared by direct bookings and itinerary
// room items.
func (h *Handlers) book(r *http.Request, roomID, customerID int64, guests int, start, end domain.Date) (domain.Booking, error) {
	ctx := r.Context()
	room, err := h.Catalog.Room(ctx, roomID)
	if err != nil {
		return domain.Booking{}, err
	}
	if guests > room.RoomCapacity {
		return domain.Booking{}, domain.Invalid("guests", "Too many guests for this room")
	}
	hotel, err := h.Catalog.Hotel(ctx, room.HotelID)
	if err != nil {
		return domain.Booking{}, err
	}
	b, err := h.Catalog.CreateBooking(ctx, domain.Booking{
		CustomerID: customerID,
		HotelID:    hotel.ID,
		RoomID:     room.ID,
		HotelName:  hotel.Name,
		RoomName:   room.RoomType,
		StartDate:  start,
		EndDate:    end,
		Guests:     guests,
		TotalPrice: pricing.BookingPrice(room.BasePrice, start, end),
	})
	if errors.Is(err, domain.ErrConflict) {
		return domain.Booking{}, conflict("Room is not available for the selected dates")
	}
	return b, err
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	b, err := h.Catalog.Booking(r.Context(), id)
	if err == nil {
		_, err = self(r, b.CustomerID)
	}
	if err == nil {
		err = h.Catalog.CancelBooking(r.Context(), id)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var in domain.Review
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	rv, err := h.review(r, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *Handlers) review(r *http.Request, in domain.Review) (domain.Review, error) {
	if err := in.Validate(); err != nil {
		return domain.Review{}, err
	}
	customerID, err := self(r, in.CustomerID)
	if err != nil {
		return domain.Review{}, err
	}
	in.CustomerID = customerID
	if u, err := h.Catalog.User(r.Context(), customerID); err == nil {
		in.Author = u.Username
	}
	in.Comment = strings.TrimSpace(in.Comment)
	return h.Catalog.CreateReview(r.Context(), in)
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	rv, err := h.Catalog.Review(r.Context(), id)
	if err == nil {
		_, err = self(r, rv.CustomerID)
	}
	if err == nil {
		err = h.Catalog.DeleteReview(r.Context(), id)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err == nil {
		_, err = self(r, id)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	u, err := h.Catalog.User(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Profile)
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err == nil {
		_, err = self(r, id)
	}
	var in domain.Profile
	if err == nil {
		err = decode(r, &in)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	in.ID = id
	p, err := h.Catalog.UpdateProfile(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

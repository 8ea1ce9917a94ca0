package httpserver

import (
	"net/http"

	"tripdesk/internal/domain"
)

// ownHotel checks that a hotel account manages hotelID. Admins manage all.
func (h *Handlers) ownHotel(r *http.Request, hotelID int64) error {
	p, _ := principal(r.Context())
	if p.Role == domain.UserAdmin {
		return nil
	}
	u, err := h.Catalog.User(r.Context(), p.UserID)
	if err != nil {
		return err
	}
	if u.HotelID != hotelID {
		return forbidden("You do not manage this hotel")
	}
	return nil
}

func (h *Handlers) hotelParam(r *http.Request) (int64, error) {
	id, err := pathID(r, "hotelID")
	if err != nil {
		return 0, err
	}
	if err := h.ownHotel(r, id); err != nil {
		return 0, err
	}
	return id, nil
}

func (h *Handlers) ownRooms(w http.ResponseWriter, r *http.Request) {
	id, err := h.hotelParam(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.Rooms(r.Context(), id))
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	id, err := h.hotelParam(r)
	var in domain.Room
	if err == nil {
		err = decode(r, &in)
	}
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	in.HotelID = id
	out, err := h.Catalog.CreateRoom(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// roomParam loads the {id} room and checks ownership of its hotel.
func (h *Handlers) roomParam(r *http.Request) (domain.Room, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return domain.Room{}, err
	}
	room, err := h.Catalog.Room(r.Context(), id)
	if err != nil {
		return domain.Room{}, err
	}
	return room, h.ownHotel(r, room.HotelID)
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomParam(r)
	var in domain.Room
	if err == nil {
		err = decode(r, &in)
	}
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	in.ID = room.ID
	out, err := h.Catalog.UpdateRoom(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomParam(r)
	if err == nil {
		err = h.Catalog.DeleteRoom(r.Context(), room.ID)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ownBookings(w http.ResponseWriter, r *http.Request) {
	id, err := h.hotelParam(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.Bookings(r.Context(), 0, id))
}

func (h *Handlers) ownReviews(w http.ResponseWriter, r *http.Request) {
	id, err := h.hotelParam(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.Reviews(r.Context(), id))
}

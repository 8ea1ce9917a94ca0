package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tripdesk/internal/adapters/api"
	"tripdesk/internal/domain"
)

func newClient(t *testing.T, base string, retries int) *api.Client {
	t.Helper()
	cl, err := api.New(api.Options{BaseURL: base, Timeout: 2 * time.Second, MaxRetries: retries})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := api.New(api.Options{}); err == nil {
		t.Fatalf("expected error without base URL")
	}
}

func TestBookRoom_OnePostWithExactlyThreeFields(t *testing.T) {
	var hits int32
	var body map[string]any
	var method, path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		method, path = r.Method, r.URL.Path
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"booked"}`))
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL, 0)
	if err := cl.Itinerary().BookRoom(context.Background(), 11, 3, 42); err != nil {
		t.Fatalf("book: %v", err)
	}
	if hits != 1 || method != http.MethodPost || path != "/itinerary/book-room" {
		t.Fatalf("hits=%d method=%s path=%s", hits, method, path)
	}
	if len(body) != 3 {
		t.Fatalf("expected exactly 3 fields, got %v", body)
	}
	if body["room_item_id"] != 11.0 || body["number_of_persons"] != 3.0 || body["customer_id"] != 42.0 {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestErrorDetailIsSurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/itinerary/7":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Itinerary not found"}`))
		default:
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail":[{"msg":"field required"},{"msg":"value is not a valid date"}]}`))
		}
	}))
	defer ts.Close()
	cl := newClient(t, ts.URL, 0)

	_, err := cl.Itinerary().Get(context.Background(), 7)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := domain.Message(err); got != "Itinerary not found" {
		t.Fatalf("message=%q", got)
	}

	_, err = cl.Itinerary().Create(context.Background(), domain.ItineraryInput{Name: "x"})
	var ae *domain.APIError
	if !errors.As(err, &ae) || ae.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 APIError, got %v", err)
	}
	if ae.Detail != "field required; value is not a valid date" {
		t.Fatalf("detail=%q", ae.Detail)
	}
}

func TestNoRetriesByDefault(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL, 0).Customer().Hotels(context.Background(), "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
	if domain.Message(err) != domain.GenericMessage {
		t.Fatalf("expected generic message, got %q", domain.Message(err))
	}
}

func TestRetriesApplyToGetOnly(t *testing.T) {
	var gets, posts int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			atomic.AddInt32(&posts, 1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if atomic.AddInt32(&gets, 1) <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode([]domain.Hotel{{ID: 1, Name: "Harbor Inn", City: "Lisbon"}})
	}))
	defer ts.Close()
	cl := newClient(t, ts.URL, 3)

	hotels, err := cl.Customer().Hotels(context.Background(), "Lisbon")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(hotels) != 1 || hotels[0].Name != "Harbor Inn" {
		t.Fatalf("unexpected hotels: %+v", hotels)
	}
	if gets != 3 {
		t.Fatalf("expected 3 GET attempts, got %d", gets)
	}

	if _, err := cl.Customer().CreateBooking(context.Background(), domain.BookingInput{RoomID: 1}); err == nil {
		t.Fatalf("expected POST error")
	}
	if posts != 1 {
		t.Fatalf("POST must not be retried, got %d attempts", posts)
	}
}

func TestTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()

	err := newClient(t, base, 0).Auth().SignOut(context.Background())
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestCookieCredentialsAreKeptAndRestorable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/signin":
			http.SetCookie(w, &http.Cookie{Name: api.CredentialCookie, Value: "tok-123", Path: "/", HttpOnly: true})
			_ = json.NewEncoder(w).Encode(domain.SignInResult{ID: 5, Username: "ana", UserType: "customer"})
		case "/customer/profile/5":
			ck, err := r.Cookie(api.CredentialCookie)
			if err != nil || ck.Value != "tok-123" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Not authenticated"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(domain.Profile{ID: 5, Username: "ana"})
		}
	}))
	defer ts.Close()
	ctx := context.Background()

	cl := newClient(t, ts.URL, 0)
	res, err := cl.Auth().SignIn(ctx, "ana@example.com", "secret")
	if err != nil || res.ID != 5 || res.UserType != "customer" {
		t.Fatalf("signin: %+v err=%v", res, err)
	}
	if cl.Credential() != "tok-123" {
		t.Fatalf("credential=%q", cl.Credential())
	}

	// a fresh client (new process) starts unauthenticated until restored
	other := newClient(t, ts.URL, 0)
	if _, err := other.Customer().Profile(ctx, 5); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	other.SetCredential(cl.Credential())
	p, err := other.Customer().Profile(ctx, 5)
	if err != nil || p.Username != "ana" {
		t.Fatalf("profile: %+v err=%v", p, err)
	}

	other.SetCredential("")
	if other.Credential() != "" {
		t.Fatalf("credential should be cleared")
	}
}

func TestAvailableRoomsQuery(t *testing.T) {
	var raw string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id":3,"room_type":"double","base_price":90,"room_capacity":2,"hotel":{"id":1,"name":"Harbor Inn","city":"Lisbon"},"available":true}]`))
	}))
	defer ts.Close()

	rooms, err := newClient(t, ts.URL, 0).Itinerary().AvailableRooms(context.Background(), domain.AvailableRoomsQuery{
		City:      "Lisbon",
		StartDate: domain.NewDate(2026, time.May, 1),
		EndDate:   domain.NewDate(2026, time.May, 3),
		Persons:   2,
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if raw != "city=Lisbon&end_date=2026-05-03&persons=2&start_date=2026-05-01" {
		t.Fatalf("query=%q", raw)
	}
	if len(rooms) != 1 || rooms[0].Hotel.Name != "Harbor Inn" || !rooms[0].Available || rooms[0].BasePrice != 90 {
		t.Fatalf("rooms=%+v", rooms)
	}
}

func TestContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newClient(t, ts.URL, 0).Driver().PendingTrips(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

//go:build integration || !unit

package integration

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"tripdesk/internal/adapters/api"
	server "tripdesk/internal/adapters/http_server"
	"tripdesk/internal/adapters/localstore"
	"tripdesk/internal/app"
	"tripdesk/internal/domain"
	"tripdesk/internal/session"
	"tripdesk/internal/storage/memory"
)

// ---------- helpers ----------

func startStub(t *testing.T) *httptest.Server {
	t.Helper()
	cat := memory.NewCatalog()
	if err := server.Seed(context.Background(), cat); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := server.New(0)
	srv.MountHandlers(&server.Handlers{
		Catalog:  cat,
		Store:    memory.New(),
		Tokens:   server.NewTokens("e2e-secret", time.Hour),
		RideFare: 25,
		Now:      func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

// device is one running client: its own HTTP client, persisted state and session.
type device struct {
	client *api.Client
	store  domain.StateStore
	holder *session.Holder
	auth   *app.AuthService
	dash   *app.Dashboard
	toasts *app.Toasts
}

func newDevice(t *testing.T, base string, store domain.StateStore) *device {
	t.Helper()
	ctx := context.Background()
	cl, err := api.New(api.Options{BaseURL: base, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	h, err := session.New(ctx, store)
	if err != nil {
		t.Fatalf("holder: %v", err)
	}
	toasts := &app.Toasts{}
	d := &device{
		client: cl, store: store, holder: h, toasts: toasts,
		auth: app.NewAuthService(cl.Auth(), cl, h, store, toasts, time.Hour),
		dash: app.NewDashboard(h, cl.Admin(), cl.Customer(), cl.Itinerary(), cl.Driver(), toasts, 2),
	}
	if err := d.auth.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	return d
}

func (d *device) signIn(t *testing.T, email string) {
	t.Helper()
	if _, err := d.auth.SignIn(context.Background(), email, server.DemoPassword); err != nil {
		t.Fatalf("sign in %s: %v (toasts %v)", email, err, d.toasts.Errors)
	}
}

func (d *device) orchestrator(id int64) *app.ItineraryOrchestrator {
	return app.NewItineraryOrchestrator(id, d.client.Itinerary(), d.client.Customer(), d.holder, d.toasts, 50)
}

func (d *device) newItinerary(t *testing.T) domain.Itinerary {
	t.Helper()
	it, err := d.client.Itinerary().Create(context.Background(), domain.ItineraryInput{
		CustomerID:      d.holder.Current().UserID,
		Name:            "Lisbon long weekend",
		NumberOfPersons: 2,
		StartDate:       domain.NewDate(2026, time.May, 1),
		EndDate:         domain.NewDate(2026, time.May, 4),
	})
	if err != nil {
		t.Fatalf("create itinerary: %v", err)
	}
	return it
}

type sameCard struct{ n int }

func (c *sameCard) Collect(context.Context, app.PaymentPrompt) (domain.Card, error) {
	c.n++
	return domain.Card{Holder: "Ana Lima", Number: "4242 4242 4242 4242", Expiry: "12/39", CVC: "123"}, nil
}

// ---------- tests ----------

func TestE2E_SignInPersistsSessionAndExpiry(t *testing.T) {
	ts := startStub(t)
	d := newDevice(t, ts.URL, localstore.NewMemory())
	d.signIn(t, "ana@tripdesk.dev")

	s := d.holder.Current()
	if !s.IsAuthenticated || s.UserType != domain.UserCustomer || s.UserID == 0 {
		t.Fatalf("unexpected session %+v", s)
	}
	at, ok, err := session.ReadExpiry(context.Background(), d.store)
	if err != nil || !ok {
		t.Fatalf("expiry not stored: ok=%v err=%v", ok, err)
	}
	if time.Until(at) <= 0 || time.Until(at) > time.Hour+time.Minute {
		t.Fatalf("expiry %v not about an hour out", at)
	}
	if d.client.Credential() == "" {
		t.Fatal("no credential cookie after sign in")
	}
}

func TestE2E_RestoredSessionLoadsDashboardWithoutSignIn(t *testing.T) {
	ts := startStub(t)
	store := localstore.NewMemory()

	first := newDevice(t, ts.URL, store)
	first.signIn(t, "ana@tripdesk.dev")
	first.newItinerary(t)

	// a second process over the same persisted state
	second := newDevice(t, ts.URL, store)
	if !second.holder.IsAuthenticated() {
		t.Fatal("session not restored from state store")
	}
	ov, err := second.dash.Customer(context.Background())
	if err != nil {
		t.Fatalf("customer dashboard: %v", err)
	}
	if ov.ItinerariesErr != nil || ov.BookingsErr != nil {
		t.Fatalf("section errors: %v / %v", ov.ItinerariesErr, ov.BookingsErr)
	}
	if len(ov.Itineraries) != 1 || ov.Itineraries[0].Name != "Lisbon long weekend" {
		t.Fatalf("itineraries = %+v", ov.Itineraries)
	}
}

func TestE2E_CreateAndFetchItinerary(t *testing.T) {
	ts := startStub(t)
	d := newDevice(t, ts.URL, localstore.NewMemory())
	d.signIn(t, "ana@tripdesk.dev")

	created := d.newItinerary(t)
	got, err := d.client.Itinerary().Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != created.Name || got.NumberOfPersons != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.StartDate.Equal(created.StartDate.Time) || !got.EndDate.Equal(created.EndDate.Time) {
		t.Fatalf("dates changed: %s..%s", got.StartDate, got.EndDate)
	}
	if got.Status != domain.ItineraryUpcoming {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestE2E_AddRoomAndAcceptWithPayment(t *testing.T) {
	ts := startStub(t)
	ctx := context.Background()
	d := newDevice(t, ts.URL, localstore.NewMemory())
	d.signIn(t, "ana@tripdesk.dev")
	it := d.newItinerary(t)

	o := d.orchestrator(it.ID)
	if err := o.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	rooms, err := o.AvailableRooms(ctx, domain.AvailableRoomsQuery{City: "Lisbon"})
	if err != nil {
		t.Fatalf("available rooms: %v", err)
	}
	var pick domain.AvailableRoom
	for _, r := range rooms {
		if r.Available {
			pick = r
			break
		}
	}
	if pick.ID == 0 {
		t.Fatalf("no free room in %+v", rooms)
	}
	if err := o.AddRoom(ctx, domain.RoomItemInput{RoomID: pick.ID, StartDate: it.StartDate, EndDate: it.EndDate}); err != nil {
		t.Fatalf("add room: %v", err)
	}
	if n := len(o.Itinerary().RoomItems); n != 1 {
		t.Fatalf("room items = %d", n)
	}
	if want := pick.BasePrice * 3; o.Summary().Unpaid != want {
		t.Fatalf("unpaid = %v, want %v", o.Summary().Unpaid, want)
	}

	cards := &sameCard{}
	if err := o.Accept(ctx, cards); err != nil {
		t.Fatalf("accept: %v (toasts %v)", err, d.toasts.Errors)
	}
	if cards.n != 1 {
		t.Fatalf("collected %d cards", cards.n)
	}
	got := o.Itinerary()
	if got.Status != domain.ItineraryAccepted {
		t.Fatalf("status = %s", got.Status)
	}
	for _, ri := range got.RoomItems {
		if !ri.IsPaid {
			t.Fatalf("room item %d still unpaid after accept", ri.ID)
		}
	}
	if o.PaymentProgress().Active {
		t.Fatal("payment still marked active")
	}

	// a paid room cannot be dropped any more
	if err := o.RemoveRoom(ctx, got.RoomItems[0].ID); err == nil {
		t.Fatal("expected paid room removal to fail")
	}
}

func TestE2E_RideLifecycle(t *testing.T) {
	ts := startStub(t)
	ctx := context.Background()

	ana := newDevice(t, ts.URL, localstore.NewMemory())
	ana.signIn(t, "ana@tripdesk.dev")
	it := ana.newItinerary(t)
	o := ana.orchestrator(it.ID)
	if err := o.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := o.AddRide(ctx, domain.RideInput{
		PickupLocation:  "Airport",
		DropoffLocation: "Casa Azul",
		PickupDateTime:  time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("add ride: %v", err)
	}
	rides := o.Itinerary().RideBookings
	if len(rides) != 1 || rides[0].Status != domain.RidePending {
		t.Fatalf("rides = %+v", rides)
	}
	rideID := rides[0].ID

	// a completed ride is the only kind that can be reviewed
	if err := o.ReviewRide(ctx, rideID, domain.RideReviewInput{Rating: 5}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("review of pending ride: %v", err)
	}

	rui := newDevice(t, ts.URL, localstore.NewMemory())
	rui.signIn(t, "rui@tripdesk.dev")
	ov, err := rui.dash.Driver(ctx)
	if err != nil {
		t.Fatalf("driver dashboard: %v", err)
	}
	if len(ov.Pending) != 1 || ov.Pending[0].ID != rideID {
		t.Fatalf("pending = %+v", ov.Pending)
	}
	me := rui.holder.Current().UserID
	if err := rui.client.Driver().AcceptRide(ctx, rideID, me); err != nil {
		t.Fatalf("accept ride: %v", err)
	}
	if err := rui.client.Driver().CompleteRide(ctx, rideID, me); err != nil {
		t.Fatalf("complete ride: %v", err)
	}
	ov, _ = rui.dash.Driver(ctx)
	if len(ov.Accepted) != 1 || len(ov.Pending) != 0 {
		t.Fatalf("after accept: accepted=%d pending=%d", len(ov.Accepted), len(ov.Pending))
	}

	if err := o.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := o.ReviewRide(ctx, rideID, domain.RideReviewInput{Rating: 4, Comment: "on time"}); err != nil {
		t.Fatalf("review ride: %v", err)
	}
	if !o.Itinerary().RideBookings[0].IsReviewed {
		t.Fatal("ride not marked reviewed")
	}
	if err := o.ReviewRide(ctx, rideID, domain.RideReviewInput{Rating: 4}); err == nil {
		t.Fatal("second review accepted")
	}
}

func TestE2E_SignOutClearsSession(t *testing.T) {
	ts := startStub(t)
	ctx := context.Background()
	store := localstore.NewMemory()
	d := newDevice(t, ts.URL, store)
	d.signIn(t, "ana@tripdesk.dev")

	if err := d.auth.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if d.holder.IsAuthenticated() {
		t.Fatal("still authenticated")
	}
	if _, err := d.dash.Customer(ctx); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("dashboard after sign out: %v", err)
	}
	if _, ok, _ := store.Get(ctx, domain.KeyCredential); ok {
		t.Fatal("credential still persisted")
	}

	again := newDevice(t, ts.URL, store)
	if again.holder.IsAuthenticated() {
		t.Fatal("fresh process restored a signed-out session")
	}
}

func TestE2E_AdminDashboard(t *testing.T) {
	ts := startStub(t)
	d := newDevice(t, ts.URL, localstore.NewMemory())
	d.signIn(t, "admin@tripdesk.dev")

	slots, err := d.dash.Admin(context.Background())
	if err != nil {
		t.Fatalf("admin dashboard: %v", err)
	}
	if len(slots) != len(domain.DashboardMetrics) {
		t.Fatalf("slots = %d", len(slots))
	}
	for i, s := range slots {
		if s.Err != nil {
			t.Fatalf("metric %s failed: %v", s.Name, s.Err)
		}
		if s.Name != domain.DashboardMetrics[i] {
			t.Fatalf("slot %d is %s", i, s.Name)
		}
	}
	if len(d.toasts.Errors) != 0 {
		t.Fatalf("unexpected toasts %v", d.toasts.Errors)
	}
}

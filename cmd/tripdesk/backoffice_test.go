package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"strconv"
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

// stubEnv wires a command env against an in-process stub backend.
func stubEnv(t *testing.T) (*env, *app.Toasts) {
	t.Helper()
	ctx := context.Background()
	cat := memory.NewCatalog()
	if err := server.Seed(ctx, cat); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := server.New(0)
	srv.MountHandlers(&server.Handlers{
		Catalog: cat, Store: memory.New(),
		Tokens: server.NewTokens("cli-secret", time.Hour), RideFare: 25,
		Now: time.Now,
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)

	cl, err := api.New(api.Options{BaseURL: ts.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	store := localstore.NewMemory()
	h, err := session.New(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	toasts := &app.Toasts{}
	return &env{
		client: cl, store: store, holder: h, notify: toasts,
		auth: app.NewAuthService(cl.Auth(), cl, h, store, toasts, time.Hour),
		dash: app.NewDashboard(h, cl.Admin(), cl.Customer(), cl.Itinerary(), cl.Driver(), toasts, 2),
	}, toasts
}

func signIn(t *testing.T, e *env, email string) {
	t.Helper()
	if err := run(context.Background(), e, "signin", []string{"--email", email, "--password", server.DemoPassword}); err != nil {
		t.Fatalf("sign in %s: %v", email, err)
	}
}

func TestBackOffice_RoleGuards(t *testing.T) {
	e, toasts := stubEnv(t)
	ctx := context.Background()
	if err := run(ctx, e, "admin", []string{"drivers"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("anonymous admin: %v", err)
	}
	signIn(t, e, "ana@tripdesk.dev")
	for _, c := range [][]string{
		{"admin", "hotels", "list"},
		{"hotel", "bookings", "--hotel", "1"},
		{"driver", "profile"},
	} {
		if err := run(ctx, e, c[0], c[1:]); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%v as customer: %v", c, err)
		}
	}
	signIn(t, e, "rui@tripdesk.dev")
	if err := run(ctx, e, "cancel-booking", []string{"--id", "1"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("cancel-booking as driver: %v", err)
	}
	if len(toasts.Errors) != 0 {
		t.Fatalf("guards should not reach the backend: %v", toasts.Errors)
	}
}

func TestBackOffice_AdminManagesDriversAndHotels(t *testing.T) {
	e, toasts := stubEnv(t)
	ctx := context.Background()
	signIn(t, e, "admin@tripdesk.dev")

	if err := run(ctx, e, "admin", []string{"drivers", "create", "--name", "Joana", "--license", "PT-77", "--phone", "911"}); err != nil {
		t.Fatalf("create driver: %v (%v)", err, toasts.Errors)
	}
	ds, err := e.client.Admin().Drivers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	d, ok := find(ds, func(d domain.Driver) bool { return d.Name == "Joana" })
	if !ok {
		t.Fatalf("driver not created: %+v", ds)
	}

	// only --phone changes; the rest keeps its stored value
	if err := run(ctx, e, "admin", []string{"drivers", "update", "--id", strconv.FormatInt(d.ID, 10), "--phone", "922"}); err != nil {
		t.Fatalf("update driver: %v (%v)", err, toasts.Errors)
	}
	ds, _ = e.client.Admin().Drivers(ctx)
	if got, _ := find(ds, func(x domain.Driver) bool { return x.ID == d.ID }); got.Phone != "922" || got.LicenseNumber != "PT-77" {
		t.Fatalf("updated driver = %+v", got)
	}

	if err := run(ctx, e, "admin", []string{"drivers", "delete", "--id", strconv.FormatInt(d.ID, 10)}); err != nil {
		t.Fatalf("delete driver: %v", err)
	}
	ds, _ = e.client.Admin().Drivers(ctx)
	if _, ok := find(ds, func(x domain.Driver) bool { return x.ID == d.ID }); ok {
		t.Fatal("driver still listed after delete")
	}

	if err := run(ctx, e, "admin", []string{"hotels", "create", "--name", "Douro Inn", "--city", "Porto", "--address", "Rua 5"}); err != nil {
		t.Fatalf("create hotel: %v (%v)", err, toasts.Errors)
	}
	hs, err := e.client.Admin().Hotels(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := find(hs, func(h domain.Hotel) bool { return h.Name == "Douro Inn" }); !ok {
		t.Fatalf("hotel not created: %+v", hs)
	}
	if err := run(ctx, e, "admin", []string{"drivers", "update", "--id", "99999", "--phone", "1"}); err == nil {
		t.Fatal("update of unknown driver succeeded")
	}
	if len(toasts.Errors) != 1 {
		t.Fatalf("toasts=%v", toasts.Errors)
	}
}

func TestBackOffice_HotelManagesRooms(t *testing.T) {
	e, toasts := stubEnv(t)
	ctx := context.Background()
	hs, err := e.client.Customer().Hotels(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	casa, ok := find(hs, func(h domain.Hotel) bool { return h.Name == "Casa Azul" })
	if !ok {
		t.Fatal("seed hotel missing")
	}
	hotel := strconv.FormatInt(casa.ID, 10)
	signIn(t, e, "casa@tripdesk.dev")

	if err := run(ctx, e, "hotel", []string{"rooms", "create", "--hotel", hotel, "--type", "Loft", "--price", "120", "--capacity", "2"}); err != nil {
		t.Fatalf("create room: %v (%v)", err, toasts.Errors)
	}
	rs, err := e.client.Hotel().Rooms(ctx, casa.ID)
	if err != nil {
		t.Fatal(err)
	}
	loft, ok := find(rs, func(r domain.Room) bool { return r.RoomType == "Loft" })
	if !ok {
		t.Fatalf("room not created: %+v", rs)
	}

	if err := run(ctx, e, "hotel", []string{"rooms", "update", "--hotel", hotel, "--id", strconv.FormatInt(loft.ID, 10), "--price", "130"}); err != nil {
		t.Fatalf("update room: %v (%v)", err, toasts.Errors)
	}
	rs, _ = e.client.Hotel().Rooms(ctx, casa.ID)
	if got, _ := find(rs, func(r domain.Room) bool { return r.ID == loft.ID }); got.BasePrice != 130 || got.RoomCapacity != 2 {
		t.Fatalf("updated room = %+v", got)
	}

	for _, c := range [][]string{
		{"rooms", "list", "--hotel", hotel},
		{"bookings", "--hotel", hotel},
		{"reviews", "--hotel", hotel},
		{"rooms", "delete", "--id", strconv.FormatInt(loft.ID, 10)},
	} {
		if err := run(ctx, e, "hotel", c); err != nil {
			t.Fatalf("hotel %v: %v (%v)", c, err, toasts.Errors)
		}
	}
	if err := run(ctx, e, "hotel", []string{"bookings"}); !errors.Is(err, errUsage) {
		t.Fatalf("bookings without hotel: %v", err)
	}
}

func TestBackOffice_CustomerReviewsAndProfile(t *testing.T) {
	e, toasts := stubEnv(t)
	ctx := context.Background()
	hs, err := e.client.Customer().Hotels(ctx, "")
	if err != nil || len(hs) == 0 {
		t.Fatalf("hotels: %v", err)
	}
	hotel := strconv.FormatInt(hs[0].ID, 10)
	signIn(t, e, "ana@tripdesk.dev")

	if err := run(ctx, e, "review", []string{"--hotel", hotel, "--rating", "5", "--comment", "lovely"}); err != nil {
		t.Fatalf("review: %v (%v)", err, toasts.Errors)
	}
	revs, err := e.client.Customer().HotelReviews(ctx, hs[0].ID)
	if err != nil || len(revs) != 1 || revs[0].Comment != "lovely" {
		t.Fatalf("reviews = %+v %v", revs, err)
	}
	if err := run(ctx, e, "delete-review", []string{"--id", strconv.FormatInt(revs[0].ID, 10)}); err != nil {
		t.Fatalf("delete review: %v", err)
	}

	if err := run(ctx, e, "profile", []string{"update", "--phone", "+351 910 999 999"}); err != nil {
		t.Fatalf("profile update: %v (%v)", err, toasts.Errors)
	}
	p, err := e.client.Customer().Profile(ctx, e.holder.Current().UserID)
	if err != nil || p.Phone != "+351 910 999 999" || p.Email != "ana@tripdesk.dev" {
		t.Fatalf("profile = %+v %v", p, err)
	}
	if err := run(ctx, e, "review", []string{"--hotel", hotel, "--rating", "9"}); err == nil {
		t.Fatal("out of range rating accepted")
	}
	if len(toasts.Errors) != 1 {
		t.Fatalf("toasts=%v", toasts.Errors)
	}
}

func TestIDOnly(t *testing.T) {
	got := idOnly([]string{"--phone", "1", "--id", "4", "--hotel=2", "--name", "x"}, "--hotel")
	want := []string{"--id", "4", "--hotel=2"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v", got)
		}
	}
}

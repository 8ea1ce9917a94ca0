package session_test

import (
	"context"
	"errors"
	"testing"

	"tripdesk/internal/adapters/localstore"
	"tripdesk/internal/domain"
	"tripdesk/internal/session"
)

type failingStore struct{ *localstore.Memory }

func (failingStore) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestNew_MissingStateIsAnonymous(t *testing.T) {
	h, err := session.New(context.Background(), localstore.NewMemory())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.Current() != domain.AnonymousSession() {
		t.Fatalf("expected anonymous, got %+v", h.Current())
	}
}

func TestNew_MalformedStateFallsBackToAnonymous(t *testing.T) {
	st := localstore.NewMemory()
	_ = st.Set(context.Background(), domain.KeySession, `{"user_id": 3, "is_authenticated": tru`)

	h, err := session.New(context.Background(), st)
	if err != nil {
		t.Fatalf("malformed state must not be an error: %v", err)
	}
	if h.IsAuthenticated() {
		t.Fatalf("expected anonymous session")
	}
}

func TestSignInPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	st := localstore.NewMemory()
	h, _ := session.New(ctx, st)

	var seen []domain.Session
	h.OnChange(func(s domain.Session) { seen = append(seen, s) })

	if err := h.SignIn(ctx, 9, "ana", "ana@example.com", "555-0101", domain.UserCustomer); err != nil {
		t.Fatalf("signin: %v", err)
	}
	if len(seen) != 1 || !seen[0].IsAuthenticated {
		t.Fatalf("listener not called: %+v", seen)
	}

	// next process start
	h2, err := session.New(ctx, st)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := h2.Current()
	want := domain.Session{UserID: 9, UserName: "ana", Email: "ana@example.com", Phone: "555-0101", UserType: domain.UserCustomer, IsAuthenticated: true}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestSignIn_RejectsUnknownRole(t *testing.T) {
	h, _ := session.New(context.Background(), localstore.NewMemory())
	err := h.SignIn(context.Background(), 1, "x", "", "", domain.UserType("pilot"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if h.IsAuthenticated() {
		t.Fatalf("must stay anonymous")
	}
}

func TestSignIn_StoreFailureKeepsPreviousSession(t *testing.T) {
	h, _ := session.New(context.Background(), failingStore{localstore.NewMemory()})
	if err := h.SignIn(context.Background(), 1, "x", "", "", domain.UserAdmin); err == nil {
		t.Fatalf("expected persist error")
	}
	if h.IsAuthenticated() {
		t.Fatalf("session must not change when it cannot be persisted")
	}
}

func TestSignOutClearsExpiryAndCredential(t *testing.T) {
	ctx := context.Background()
	st := localstore.NewMemory()
	h, _ := session.New(ctx, st)
	_ = h.SignIn(ctx, 1, "drv", "", "", domain.UserDriver)
	_ = h.SetCredential(ctx, "tok")
	_ = st.Set(ctx, domain.KeyExpiry, "123")

	if err := h.SignOut(ctx); err != nil {
		t.Fatalf("signout: %v", err)
	}
	if h.IsAuthenticated() {
		t.Fatalf("still authenticated")
	}
	for _, k := range []string{domain.KeyExpiry, domain.KeyCredential} {
		if _, ok, _ := st.Get(ctx, k); ok {
			t.Fatalf("%s not cleared", k)
		}
	}
}

func TestRequireRole(t *testing.T) {
	ctx := context.Background()
	h, _ := session.New(ctx, localstore.NewMemory())
	if err := h.RequireRole(domain.UserCustomer); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("anonymous: %v", err)
	}
	_ = h.SignIn(ctx, 1, "h", "", "", domain.UserHotel)
	if err := h.RequireRole(domain.UserCustomer); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("wrong role: %v", err)
	}
	if err := h.RequireRole(domain.UserAdmin, domain.UserHotel); err != nil {
		t.Fatalf("allowed role: %v", err)
	}
}

// Package session owns the signed-in identity of the client and its
// persisted copy. A Holder is created once at startup and handed to
// whatever needs it; there is no package-level session.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"tripdesk/internal/adapters/observability"
	"tripdesk/internal/domain"
)

type Holder struct {
	store domain.StateStore

	mu        sync.RWMutex
	cur       domain.Session
	listeners []func(domain.Session)
}

// New restores the persisted session. A missing or unreadable entry leaves
// the holder anonymous; only a store failure is returned.
func New(ctx context.Context, store domain.StateStore) (*Holder, error) {
	h := &Holder{store: store, cur: domain.AnonymousSession()}
	raw, ok, err := store.Get(ctx, domain.KeySession)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return h, nil
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		log.Warn().Err(err).Msg("persisted session is malformed; starting anonymous")
		return h, nil
	}
	if _, err := domain.ParseUserType(string(s.UserType)); s.IsAuthenticated && err != nil {
		log.Warn().Str("user_type", string(s.UserType)).Msg("persisted session has unknown role; starting anonymous")
		return h, nil
	}
	h.cur = s
	return h, nil
}

func (h *Holder) Current() domain.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur
}

func (h *Holder) IsAuthenticated() bool { return h.Current().IsAuthenticated }

// OnChange registers fn to run after every sign-in/sign-out.
func (h *Holder) OnChange(fn func(domain.Session)) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// SignIn replaces the session wholesale and marks it authenticated.
func (h *Holder) SignIn(ctx context.Context, id int64, name, email, phone string, userType domain.UserType) error {
	if _, err := domain.ParseUserType(string(userType)); err != nil {
		return err
	}
	s := domain.Session{
		UserID:          id,
		UserName:        name,
		Email:           email,
		Phone:           phone,
		UserType:        userType,
		IsAuthenticated: true,
	}
	if err := h.replace(ctx, s); err != nil {
		return err
	}
	observability.ObserveSession("sign_in")
	log.Info().Int64("user_id", id).Str("user_type", string(userType)).Msg("signed in")
	return nil
}

// SignOut resets to anonymous defaults and forgets the expiry and credential.
func (h *Holder) SignOut(ctx context.Context) error {
	if err := h.replace(ctx, domain.AnonymousSession()); err != nil {
		return err
	}
	for _, k := range []string{domain.KeyExpiry, domain.KeyCredential} {
		if err := h.store.Del(ctx, k); err != nil {
			return fmt.Errorf("clear %s: %w", k, err)
		}
	}
	observability.ObserveSession("sign_out")
	log.Info().Msg("signed out")
	return nil
}

func (h *Holder) replace(ctx context.Context, s domain.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	h.mu.Lock()
	if err := h.store.Set(ctx, domain.KeySession, string(b)); err != nil {
		h.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	h.cur = s
	listeners := append([]func(domain.Session){}, h.listeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
	return nil
}

// Credential returns the persisted backend token, if any.
func (h *Holder) Credential(ctx context.Context) (string, error) {
	v, _, err := h.store.Get(ctx, domain.KeyCredential)
	return v, err
}

func (h *Holder) SetCredential(ctx context.Context, token string) error {
	if token == "" {
		return h.store.Del(ctx, domain.KeyCredential)
	}
	return h.store.Set(ctx, domain.KeyCredential, token)
}

// RequireRole fails unless the session is signed in with one of roles.
func (h *Holder) RequireRole(roles ...domain.UserType) error {
	s := h.Current()
	if !s.IsAuthenticated {
		return fmt.Errorf("sign in first: %w", domain.ErrUnauthorized)
	}
	for _, r := range roles {
		if s.UserType == r {
			return nil
		}
	}
	return fmt.Errorf("%s accounts cannot do this: %w", s.UserType, domain.ErrForbidden)
}

package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tripdesk/internal/domain"
)

// SetExpiry persists the session deadline as unix milliseconds.
func SetExpiry(ctx context.Context, store domain.StateStore, at time.Time) error {
	return store.Set(ctx, domain.KeyExpiry, strconv.FormatInt(at.UnixMilli(), 10))
}

// ReadExpiry returns the persisted deadline. ok is false when none is stored
// or the stored value is not a number.
func ReadExpiry(ctx context.Context, store domain.StateStore) (at time.Time, ok bool, err error) {
	raw, found, err := store.Get(ctx, domain.KeyExpiry)
	if err != nil || !found {
		return time.Time{}, false, err
	}
	ms, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil {
		log.Warn().Str("value", raw).Msg("ignoring malformed session expiry")
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}

// Watchdog signs the holder out when the persisted deadline passes.
type Watchdog struct {
	holder *Holder
	store  domain.StateStore

	// OnExpire runs once after the expiry sign-out (the redirect to sign-in).
	OnExpire func()
	// Now is the clock; tests replace it.
	Now func() time.Time

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
}

func NewWatchdog(h *Holder, store domain.StateStore) *Watchdog {
	return &Watchdog{holder: h, store: store, Now: time.Now}
}

// Start reads the deadline and either expires the session right away or
// schedules a one-shot timer. Calling Start again replaces the previous
// schedule, matching a re-mount after the deadline changed.
func (w *Watchdog) Start(ctx context.Context) error {
	w.Stop()

	at, ok, err := ReadExpiry(ctx, w.store)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var once sync.Once
	fire := func(ctx context.Context) {
		once.Do(func() {
			if err := w.holder.SignOut(ctx); err != nil {
				log.Error().Err(err).Msg("expiry sign-out failed")
			}
			log.Info().Time("expired_at", at).Msg("session expired")
			if w.OnExpire != nil {
				w.OnExpire()
			}
		})
	}

	left := at.Sub(w.Now())
	if left <= 0 {
		fire(ctx)
		return nil
	}

	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	w.mu.Lock()
	w.cancel = cancel
	w.timer = time.AfterFunc(left, func() {
		defer cancel()
		if wctx.Err() != nil {
			return
		}
		fire(wctx)
	})
	w.mu.Unlock()

	// the caller going away cancels the pending sign-out
	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-wctx.Done():
		}
	}()
	log.Debug().Dur("in", left).Msg("session expiry scheduled")
	return nil
}

// Stop cancels a pending expiry. Safe to call at any time.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

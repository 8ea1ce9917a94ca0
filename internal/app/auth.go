package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"tripdesk/internal/domain"
	"tripdesk/internal/session"
)

// AuthService runs the sign-in/sign-up/sign-out flows on top of the
// session holder.
type AuthService struct {
	api    domain.AuthAPI
	jar    domain.CredentialJar
	holder *session.Holder
	store  domain.StateStore
	notify domain.Notifier
	ttl    time.Duration

	Now func() time.Time
}

func NewAuthService(api domain.AuthAPI, jar domain.CredentialJar, h *session.Holder, store domain.StateStore, n domain.Notifier, ttl time.Duration) *AuthService {
	return &AuthService{api: api, jar: jar, holder: h, store: store, notify: n, ttl: ttl, Now: time.Now}
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		err := domain.Invalid("credentials", "Email and password are required")
		s.notify.Error(domain.Message(err))
		return domain.Session{}, err
	}

	res, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		s.notify.Error(domain.Message(err))
		return domain.Session{}, err
	}
	ut, err := domain.ParseUserType(res.UserType)
	if err != nil {
		s.notify.Error(domain.GenericMessage)
		return domain.Session{}, fmt.Errorf("sign in: %w", err)
	}
	if err := s.holder.SignIn(ctx, res.ID, res.Username, res.Email, res.Phone, ut); err != nil {
		s.notify.Error(domain.GenericMessage)
		return domain.Session{}, err
	}

	token := s.jar.Credential()
	if token != "" {
		if err := s.holder.SetCredential(ctx, token); err != nil {
			log.Warn().Err(err).Msg("credential not persisted")
		}
	}
	at := s.expiry(token)
	if err := session.SetExpiry(ctx, s.store, at); err != nil {
		log.Warn().Err(err).Msg("session expiry not persisted")
	}

	log.Info().Int64("user_id", res.ID).Str("user_type", string(ut)).Time("expires", at).Msg("signed in")
	s.notify.Success("Welcome back, " + res.Username + "!")
	return s.holder.Current(), nil
}

// expiry prefers the token's own exp claim and falls back to now+ttl.
func (s *AuthService) expiry(token string) time.Time {
	if token != "" {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				return exp.Time
			}
		}
	}
	return s.Now().Add(s.ttl)
}

func (s *AuthService) SignUp(ctx context.Context, in domain.SignUpInput) (domain.Profile, error) {
	if err := in.Validate(); err != nil {
		s.notify.Error(domain.Message(err))
		return domain.Profile{}, err
	}
	p, err := s.api.SignUp(ctx, in)
	if err != nil {
		s.notify.Error(domain.Message(err))
		return domain.Profile{}, err
	}
	s.notify.Success("Account created. You can sign in now.")
	return p, nil
}

// SignOut always clears the local session, even if the backend call fails.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.api.SignOut(ctx); err != nil {
		log.Warn().Err(err).Msg("backend sign-out failed; clearing local session anyway")
	}
	s.jar.SetCredential("")
	if err := s.holder.SignOut(ctx); err != nil {
		s.notify.Error(domain.GenericMessage)
		return err
	}
	s.notify.Success("Signed out")
	return nil
}

// Restore hands the persisted credential back to the HTTP client so a new
// process continues the previous session.
func (s *AuthService) Restore(ctx context.Context) error {
	if !s.holder.IsAuthenticated() {
		return nil
	}
	token, err := s.holder.Credential(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		s.jar.SetCredential(token)
	}
	return nil
}

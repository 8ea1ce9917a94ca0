package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"tripdesk/internal/domain"
	"tripdesk/internal/storage/memory"
)

const CookieName = "access_token"

// Tokens issues and checks the HS256 access tokens carried in the cookie.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

type claims struct {
	Role domain.UserType `json:"role"`
	jwt.RegisteredClaims
}

func (t *Tokens) Issue(userID int64, role domain.UserType, now time.Time) (string, time.Time, error) {
	exp := now.Add(t.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := tok.SignedString(t.secret)
	return s, exp, err
}

func (t *Tokens) Parse(raw string) (Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Principal{}, err
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return Principal{}, fmt.Errorf("token subject: %w", err)
	}
	return Principal{UserID: id, Role: c.Role}, nil
}

// ---- handlers ----

func (h *Handlers) signUp(w http.ResponseWriter, r *http.Request) {
	var in domain.SignUpInput
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		fail(w, r, err)
		return
	}
	if in.UserType == domain.UserAdmin {
		fail(w, r, forbidden("Admin accounts cannot be created by sign-up"))
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(w, r, err)
		return
	}
	u, err := h.Catalog.CreateUser(r.Context(), memory.User{
		Profile: domain.Profile{
			Username: strings.TrimSpace(in.Username),
			Email:    strings.TrimSpace(in.Email),
			Phone:    in.Phone,
			UserType: in.UserType,
		},
		PasswordHash: hash,
	})
	if errors.Is(err, domain.ErrConflict) {
		fail(w, r, conflict("An account with this email already exists"))
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	log.Info().Int64("user_id", u.ID).Str("user_type", string(u.UserType)).Msg("account created")
	writeJSON(w, http.StatusCreated, u.Profile)
}

type signInBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) signIn(w http.ResponseWriter, r *http.Request) {
	var in signInBody
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	u, err := h.Catalog.UserByEmail(r.Context(), strings.TrimSpace(in.Email))
	if err == nil {
		err = bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(in.Password))
	}
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tok, exp, err := h.Tokens.Issue(u.ID, u.UserType, h.now())
	if err != nil {
		fail(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, domain.SignInResult{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		UserType: string(u.UserType),
	})
}

func (h *Handlers) signOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

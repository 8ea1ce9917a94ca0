// Package api holds one client module per backend resource area. Each method
// maps a single user action to a single HTTP request against the backend.
package api

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"tripdesk/internal/adapters/observability"
	"tripdesk/internal/domain"
)

// CredentialCookie carries the signed session token issued at sign-in.
const CredentialCookie = "access_token"

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RPS        int // 0 disables client-side rate limiting
	MaxRetries int // GET only; 0 means every call is attempted once
	UserAgent  string
	Transport  http.RoundTripper
}

type Client struct {
	base       *url.URL
	hc         *http.Client
	rl         *rate.Limiter
	maxRetries int
	ua         string
}

func New(o Options) (*Client, error) {
	if o.BaseURL == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(o.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = "tripdesk/1.0"
	}
	rl := rate.NewLimiter(rate.Inf, 1)
	if o.RPS > 0 {
		rl = rate.NewLimiter(rate.Limit(o.RPS), o.RPS)
	}
	return &Client{
		base:       base,
		hc:         &http.Client{Timeout: o.Timeout, Jar: jar, Transport: o.Transport},
		rl:         rl,
		maxRetries: o.MaxRetries,
		ua:         o.UserAgent,
	}, nil
}

func (c *Client) Auth() *AuthClient           { return &AuthClient{c: c} }
func (c *Client) Customer() *CustomerClient   { return &CustomerClient{c: c} }
func (c *Client) Driver() *DriverClient       { return &DriverClient{c: c} }
func (c *Client) Admin() *AdminClient         { return &AdminClient{c: c} }
func (c *Client) Hotel() *HotelClient         { return &HotelClient{c: c} }
func (c *Client) Itinerary() *ItineraryClient { return &ItineraryClient{c: c} }

// Credential returns the session token currently held in the cookie jar.
func (c *Client) Credential() string {
	for _, ck := range c.hc.Jar.Cookies(c.base) {
		if ck.Name == CredentialCookie {
			return ck.Value
		}
	}
	return ""
}

// SetCredential restores a token saved by an earlier process. Empty clears it.
func (c *Client) SetCredential(token string) {
	ck := &http.Cookie{Name: CredentialCookie, Value: token, Path: "/"}
	if token == "" {
		ck.MaxAge = -1
	}
	c.hc.Jar.SetCookies(c.base, []*http.Cookie{ck})
}

// ---- Internals ----

type call struct {
	service string // metrics label: auth|customer|driver|admin|hotel|itinerary
	route   string // metrics label: path pattern, never the expanded path
	method  string
	path    string
	query   url.Values
	body    any
	out     any
}

func (c *Client) do(ctx context.Context, rc call) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var payload []byte
	if rc.body != nil {
		b, err := json.Marshal(rc.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", rc.method, rc.path, err)
		}
		payload = b
	}

	u := *c.base
	u.Path = c.base.Path + rc.path
	if len(rc.query) > 0 {
		u.RawQuery = rc.query.Encode()
	}

	attempts := 1
	if rc.method == http.MethodGet && c.maxRetries > 0 {
		attempts += c.maxRetries
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		// build a fresh request each attempt
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, rc.method, u.String(), body)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.ua)
		req.Header.Set("X-Request-ID", uuid.NewString())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(rc.service, rc.method+" "+rc.route, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%s %s: %w: %w", rc.method, rc.path, domain.ErrTransport, err)
			if i < attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(rc.service, rc.method+" "+rc.route, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := decodeBody(resp.Body, rc.out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode %s %s: %w", rc.method, rc.path, err)
			}
			return nil

		case retryable(resp.StatusCode) && i < attempts-1:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = &domain.APIError{Status: resp.StatusCode, Method: rc.method, Path: rc.path}
			log.Debug().Str("path", rc.path).Int("status", resp.StatusCode).Dur("wait", wait).Msg("retrying")
			if sleepCtx(ctx, wait) {
				continue
			}
			return ctx.Err()

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return &domain.APIError{
				Status: resp.StatusCode,
				Method: rc.method,
				Path:   rc.path,
				Detail: detail(b),
			}
		}
	}
	return lastErr
}

func decodeBody(r io.Reader, out any) error {
	if out == nil {
		_, err := io.Copy(io.Discard, r)
		return err
	}
	err := json.NewDecoder(r).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// detail extracts the human readable message from an error body. It accepts
// {"detail": "..."}, {"detail": [{"msg": "..."}]}, {"message"|"error": "..."}
// and falls back to short plain-text bodies.
func detail(b []byte) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(b, &body); err == nil {
		if len(body.Detail) > 0 {
			var s string
			if json.Unmarshal(body.Detail, &s) == nil && s != "" {
				return s
			}
			var items []struct {
				Msg string `json:"msg"`
			}
			if json.Unmarshal(body.Detail, &items) == nil {
				msgs := make([]string, 0, len(items))
				for _, it := range items {
					if it.Msg != "" {
						msgs = append(msgs, it.Msg)
					}
				}
				if len(msgs) > 0 {
					return strings.Join(msgs, "; ")
				}
			}
		}
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
		return ""
	}
	if s := strings.TrimSpace(string(b)); len(s) <= 200 {
		return s
	}
	return ""
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

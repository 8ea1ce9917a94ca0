package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"tripdesk/internal/adapters/api"
	"tripdesk/internal/adapters/localstore"
	"tripdesk/internal/adapters/observability"
	redisad "tripdesk/internal/adapters/redis"
	"tripdesk/internal/app"
	"tripdesk/internal/domain"
	"tripdesk/internal/session"
	"tripdesk/internal/shared"
)

const usage = `usage: tripdesk <command> [flags]

account:    signup, signin, signout, whoami, profile [show|update]
catalog:    hotels, rooms, book, bookings, cancel-booking, review, delete-review
itinerary:  itinerary list|create|show|update|delete|add-activity|remove-activity|add-room|remove-room|
            book-room|add-ride|cancel-ride|review-ride|driver-service|review-hotel|available|room|accept
driver:     driver trips|accept|decline|complete|profile
admin:      dashboard, admin drivers|hotels list|create|update|delete, admin rooms|bookings
hotel:      hotel rooms list|create|update|delete, hotel bookings|reviews
`

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain returns the exit code so deferred cleanup runs before exit.
func realMain(args []string) int {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, closeFn, err := wire(ctx, cfg)
	defer closeFn()
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return 1
	}

	// the watchdog runs for the life of the process
	wd := session.NewWatchdog(env.holder, env.store)
	wd.OnExpire = func() { fmt.Fprintln(os.Stderr, "Your session has expired. Please sign in again.") }
	if err := wd.Start(ctx); err != nil {
		log.Warn().Err(err).Msg("session watchdog not started")
	}
	defer wd.Stop()

	return exitCode(args[0], run(ctx, env, args[0], args[1:]))
}

func exitCode(cmd string, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprint(os.Stderr, usage)
		return 2
	case errors.Is(err, domain.ErrUnauthorized):
		fmt.Fprintln(os.Stderr, "Please sign in first.")
		return 1
	case errors.Is(err, domain.ErrForbidden):
		fmt.Fprintln(os.Stderr, "Your account cannot do that.")
		return 1
	default:
		// toasts already told the user; keep the cause in the log
		log.Debug().Err(err).Str("command", cmd).Msg("command failed")
		return 1
	}
}

// env is everything a command needs.
type env struct {
	cfg    shared.Config
	client *api.Client
	store  domain.StateStore
	holder *session.Holder
	auth   *app.AuthService
	dash   *app.Dashboard
	notify domain.Notifier
}

func wire(ctx context.Context, cfg shared.Config) (*env, func(), error) {
	closeFn := func() {}

	var store domain.StateStore
	switch cfg.StateBackend {
	case "redis":
		rs := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.StatePrefix)
		if err := rs.Ping(ctx); err != nil {
			return nil, closeFn, fmt.Errorf("redis state store: %w", err)
		}
		store, closeFn = rs, func() { _ = rs.Close() }
	default:
		fs, err := localstore.New(cfg.StatePath)
		if err != nil {
			return nil, closeFn, fmt.Errorf("file state store: %w", err)
		}
		store = fs
	}

	client, err := api.New(api.Options{
		BaseURL:    cfg.APIBase,
		Timeout:    cfg.RequestTimeout,
		RPS:        cfg.RateLimitRPS,
		MaxRetries: cfg.MaxRetries,
		UserAgent:  "tripdesk-cli",
	})
	if err != nil {
		return nil, closeFn, err
	}

	holder, err := session.New(ctx, store)
	if err != nil {
		return nil, closeFn, err
	}

	var notify domain.Notifier = console{}
	if os.Getenv("TRIPDESK_TOASTS") == "log" {
		notify = app.LogNotifier{L: log.Logger}
	}

	auth := app.NewAuthService(client.Auth(), client, holder, store, notify, cfg.SessionTTL)
	if err := auth.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("stored credential not restored")
	}

	dash := app.NewDashboard(holder, client.Admin(), client.Customer(), client.Itinerary(), client.Driver(), notify, cfg.DashboardFanout)

	return &env{
		cfg: cfg, client: client, store: store, holder: holder,
		auth: auth, dash: dash, notify: notify,
	}, closeFn, nil
}

func (e *env) orchestrator(id int64) *app.ItineraryOrchestrator {
	return app.NewItineraryOrchestrator(id, e.client.Itinerary(), e.client.Customer(), e.holder, e.notify, e.cfg.DriverRate)
}

// console prints toasts on stderr so stdout stays parseable.
type console struct{}

func (console) Success(msg string) { fmt.Fprintln(os.Stderr, "ok:", msg) }
func (console) Error(msg string)   { fmt.Fprintln(os.Stderr, "error:", msg) }

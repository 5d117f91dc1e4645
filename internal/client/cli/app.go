package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/distillr/internal/client/client"
	"github.com/dmitrijs2005/distillr/internal/client/config"
	"github.com/dmitrijs2005/distillr/internal/client/distill"
	"github.com/dmitrijs2005/distillr/internal/client/entitlement"
	"github.com/dmitrijs2005/distillr/internal/client/identity"
	"github.com/dmitrijs2005/distillr/internal/client/purchase"
	"github.com/dmitrijs2005/distillr/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/distillr/internal/client/session"
	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/logging"
)

// readyTimeout bounds how long a one-shot command waits for the entitlement.
const readyTimeout = 15 * time.Second

type App struct {
	config *config.Config
	log    logging.Logger
	out    io.Writer
	reader *bufio.Reader

	api       client.Client
	closeDB   func() error
	identity  *identity.Provider
	session   *session.Gate
	store     *entitlement.Store
	watcher   *statusWatcher
	distiller *distill.Coordinator
	purchases *purchase.Orchestrator

	deviceID string
	poll     *entitlement.PollTask
}

// deps are the collaborators that differ between a real run and tests.
type deps struct {
	api       client.Client
	repo      identity.Store
	billing   purchase.Billing
	processor purchase.Processor
	in        io.Reader
	out       io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	api, err := client.NewDistillrClient(cfg.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	d := deps{api: api, in: os.Stdin, out: os.Stdout}
	closeDB := func() error { return nil }

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		// identity falls back to an ephemeral id
		log.Warn(ctx, "local database unavailable", "path", cfg.DatabasePath, "error", err)
	} else {
		d.repo = metadata.NewSQLiteRepository(db)
		closeDB = db.Close
	}

	switch {
	case cfg.Platform.Native():
		d.billing = purchase.NewSandboxBilling()
	case cfg.StripePublishableKey() != "":
		d.processor = purchase.NewStripeProcessor(cfg.StripePublishableKey())
	}

	a, err := assemble(cfg, log, d)
	if err != nil {
		_ = api.Close()
		_ = closeDB()
		return nil, err
	}
	a.closeDB = closeDB
	return a, nil
}

func assemble(cfg *config.Config, log logging.Logger, d deps) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	var idOpts []identity.Option
	idOpts = append(idOpts, identity.WithLogger(log))
	if cfg.Platform == common.PlatformWeb {
		idOpts = append(idOpts, identity.WithFingerprinter(identity.NewHostFingerprinter()))
	}
	gate := session.NewGate(d.api, log)
	store := entitlement.NewStore(d.api, gate, log)

	orch, err := purchase.New(purchase.Config{
		Platform:          cfg.Platform,
		IsLive:            cfg.IsLive,
		StoreAPIKey:       cfg.StoreAPIKey(),
		SuccessCloseDelay: cfg.SuccessCloseDelay,
		Backend:           d.api,
		Session:           gate,
		Refresher:         store,
		Billing:           d.billing,
		Processor:         d.processor,
		Logger:            log,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		config:    cfg,
		log:       log,
		out:       d.out,
		reader:    bufio.NewReader(d.in),
		api:       d.api,
		closeDB:   func() error { return nil },
		identity:  identity.NewProvider(d.repo, cfg.Platform, idOpts...),
		session:   gate,
		store:     store,
		watcher:   newStatusWatcher(store),
		distiller: distill.NewCoordinator(d.api, store, gate, log),
		purchases: orch,
	}, nil
}

// Start resolves the device id, then signs in and starts the status poll.
func (a *App) Start(ctx context.Context) {
	a.deviceID = a.identity.GetOrCreate(ctx)
	a.session.Ensure(ctx)
	a.poll = a.store.Poll(ctx, a.config.StatusPollInterval, a.deviceID)
}

// Close stops background work and releases resources.
func (a *App) Close() {
	if a.poll != nil {
		a.poll.Stop()
	}
	a.watcher.close()
	if err := a.api.Close(); err != nil {
		a.log.Debug(context.Background(), "closing rpc client", "error", err)
	}
	if err := a.closeDB(); err != nil {
		a.log.Debug(context.Background(), "closing database", "error", err)
	}
}

// waitReady blocks until the entitlement is known, ctx ends or timeout passes.
func (a *App) waitReady(ctx context.Context, timeout time.Duration) error {
	if a.store.Known() {
		return nil
	}
	if a.poll == nil {
		return entitlement.ErrNoStatus
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-a.poll.Done():
		if a.store.Known() {
			return nil
		}
		return entitlement.ErrNoStatus
	case <-timer.C:
		return errNotReady
	case <-ctx.Done():
		return ctx.Err()
	}
}

var errNotReady = errors.New("backend not reachable")

// Run executes args as a one-shot command, or starts the REPL when args is
// empty.
func (a *App) Run(ctx context.Context, args []string) {
	a.Start(ctx)
	defer a.Close()

	if len(args) > 0 {
		if err := a.waitReady(ctx, readyTimeout); err != nil {
			fmt.Fprintf(a.out, "Could not load account status: %v\n", err)
			return
		}
		dispatch(ctx, a, args, a.out)
		return
	}

	fmt.Fprintln(a.out, "Welcome to Distillr CLI (type 'help' for commands)")
	runREPL(ctx, a, a.replPrompt, a.reader, a.out)
}

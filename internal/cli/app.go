// Package cli is the xsearch command-line shell around the search builder.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"twitter-search-builder/internal/common/config"
	apperrors "twitter-search-builder/internal/common/errors"
	"twitter-search-builder/internal/common/logger"
	"twitter-search-builder/internal/common/metrics"
	"twitter-search-builder/internal/common/observability"
	"twitter-search-builder/internal/filters"
	"twitter-search-builder/internal/history"
	"twitter-search-builder/internal/searchurl"
	"twitter-search-builder/internal/templates"

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// ConfigLoader resolves the configuration; path is empty unless --config was given.
type ConfigLoader func(path string) (*config.Config, error)

// StoreOpener opens the history store for a loaded configuration.
type StoreOpener func(ctx context.Context, cfg *config.Config, opts ...history.Option) (history.Store, error)

// App holds the collaborators shared by all commands.
type App struct {
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	loadConfig ConfigLoader
	openStore  StoreOpener
	obs        *observability.Observability

	configPath string
	outputJSON bool
	noColor    bool

	cfg        *config.Config
	zl         *zap.Logger
	log        logger.Logger
	errHandler *apperrors.ErrorHandler
	store      history.Store
	catalog    *templates.Catalog
}

type Option func(*App)

func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

func WithConfigLoader(load ConfigLoader) Option {
	return func(a *App) {
		a.loadConfig = load
	}
}

func WithStoreOpener(open StoreOpener) Option {
	return func(a *App) {
		a.openStore = open
	}
}

// WithObservability replaces the process-wide command metrics.
func WithObservability(obs *observability.Observability) Option {
	return func(a *App) {
		a.obs = obs
	}
}

func New(opts ...Option) *App {
	a := &App{
		out:        os.Stdout,
		errOut:     os.Stderr,
		now:        time.Now,
		loadConfig: defaultConfigLoader,
		openStore:  history.NewStore,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func defaultConfigLoader(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// exitError carries a non-zero exit status for outcomes that were already reported to the user.
type exitError struct {
	code   int
	reason string
}

func (e *exitError) Error() string {
	return e.reason
}

// Execute runs the command line and returns the process exit code.
func (a *App) Execute(args []string) int {
	root := a.NewRootCmd()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	start := time.Now()
	cmd, err := root.ExecuteC()
	if cmd == nil {
		cmd = root
	}
	a.recordCommand(cmd.CommandPath(), err, time.Since(start))
	a.shutdown()

	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	errorColor.Fprintf(a.errOut, "Error: %v\n", err)
	return 1
}

// setup loads configuration and builds the logger; it runs before every command.
func (a *App) setup() error {
	cfg, err := a.loadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.zl = logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output).Named("xsearch")
	a.log = logger.NewZapAdapter(a.zl)
	a.errHandler = apperrors.NewErrorHandler(a.log)
	return nil
}

func (a *App) recordCommand(command string, err error, elapsed time.Duration) {
	obs := a.obs
	if obs == nil {
		var oerr error
		obs, oerr = observability.Default("xsearch")
		if oerr != nil && a.log != nil {
			a.log.WithError(oerr).Warn("Command metrics disabled", nil)
		}
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	obs.RecordCommand(context.Background(), command, status, elapsed)
}

func (a *App) shutdown() {
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.log != nil {
			a.log.WithError(err).Warn("Failed to close history store", nil)
		}
		a.store = nil
	}
	if a.cfg != nil {
		if err := metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil && a.log != nil {
			a.log.WithError(err).Warn("Failed to write metrics textfile", nil)
		}
	}
	if a.zl != nil {
		// stderr and stdout do not support fsync on every platform
		_ = a.zl.Sync()
	}
}

// fail logs err and returns it in its standard form.
func (a *App) fail(operation string, err error) error {
	if a.errHandler == nil {
		return err
	}
	return a.errHandler.Handle(operation, err)
}

func (a *App) validator(lenient bool) *filters.Validator {
	policy := filters.UsernameStrict
	if lenient {
		policy = filters.UsernameLenient
	}
	return filters.NewValidator(filters.WithClock(a.now), filters.WithUsernamePolicy(policy))
}

func (a *App) generator(lenient bool) *searchurl.Generator {
	return searchurl.NewGenerator(a.validator(lenient), searchurl.NewBuilder(a.cfg.Search.BaseURL), a.log)
}

func (a *App) templateCatalog() (*templates.Catalog, error) {
	if a.catalog == nil {
		c, err := templates.LoadCatalog(a.cfg.Templates.RegistryPath, a.now)
		if err != nil {
			return nil, err
		}
		a.catalog = c
	}
	return a.catalog, nil
}

// historyStore opens the configured store once, retrying while the backend reports itself unavailable.
func (a *App) historyStore(ctx context.Context) (history.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	var store history.Store
	err := retryWithBackoff(func() error {
		s, err := a.openStore(ctx, a.cfg, history.WithLogger(a.log), history.WithClock(a.now))
		if err != nil {
			return err
		}
		store = s
		return nil
	}, 3, 200*time.Millisecond, a.log, "open history store")
	if err != nil {
		return nil, err
	}

	a.store = store
	return store, nil
}

// retryWithBackoff retries operation with exponential backoff for as long as the error is retryable.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil || !apperrors.IsRetryable(err) {
			return err
		}

		if i < maxRetries-1 {
			log.WithError(err).Warn(operationName+" failed, retrying", map[string]interface{}{
				"attempt":    i + 1,
				"maxRetries": maxRetries,
				"delay":      delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return err
}

func (a *App) commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultTimeout)
}

// Package cli is the command-line driving adapter. Commands are thin callers
// into the application layer; every error is translated to a message and exit
// code in one place (see errors.go).
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/passvault/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/passvault/internal/application"
	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// Prompter reads secrets and confirmations from the user.
type Prompter interface {
	Secret(prompt string) (string, error)
	Confirm(prompt string) (bool, error)
}

// Clipboard receives passwords instead of the terminal.
type Clipboard interface {
	WriteAll(text string) error
}

// PrivilegeChecker gates password commands behind OS privilege elevation.
type PrivilegeChecker interface {
	// Check reports whether the user currently holds elevated privileges
	// without prompting.
	Check(ctx context.Context) bool
	// Authenticate prompts the user to elevate.
	Authenticate(ctx context.Context) error
}

// Handler is the CLI driving adapter. It owns the collaborators every command
// needs and opens the vault on demand.
type Handler struct {
	dbPath    string
	kdf       application.KDFParams
	cache     driven.SecretCache
	prompter  Prompter
	clipboard Clipboard
	privilege PrivilegeChecker
	level     *slog.LevelVar
	logger    *slog.Logger
	out       io.Writer
	errOut    io.Writer

	// running is set once a command body starts; errors before that point
	// come from argument parsing.
	running bool
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	dbPath string,
	kdf application.KDFParams,
	cache driven.SecretCache,
	prompter Prompter,
	clipboard Clipboard,
	privilege PrivilegeChecker,
	level *slog.LevelVar,
	logger *slog.Logger,
	out, errOut io.Writer,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		dbPath:    dbPath,
		kdf:       kdf,
		cache:     cache,
		prompter:  prompter,
		clipboard: clipboard,
		privilege: privilege,
		level:     level,
		logger:    logger,
		out:       out,
		errOut:    errOut,
	}
}

// vault is an opened store for the duration of one command.
type vault struct {
	db     *sqliteadapter.DB
	keys   *application.KeyVault
	creds  *sqliteadapter.CredentialRepo
	health *application.HealthService
}

func (v *vault) close(logger *slog.Logger) {
	if err := v.db.Close(); err != nil {
		logger.Error("error closing database", "error", err)
	}
}

// openVault opens the database, applies migrations and wires the adapters.
func (h *Handler) openVault(ctx context.Context) (*vault, error) {
	db, err := sqliteadapter.NewDB(ctx, h.dbPath)
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}
	h.logger.Debug("database opened", "path", h.dbPath)

	verifiers := sqliteadapter.NewVerifierRepo(db)
	return &vault{
		db:     db,
		keys:   application.NewKeyVault(verifiers, h.cache, h.kdf, h.logger),
		creds:  sqliteadapter.NewCredentialRepo(db),
		health: application.NewHealthService(db, verifiers, h.cache),
	}, nil
}

// unlock resolves the master key (cache first, then prompt) and returns a
// credential service bound to the verified key. A stale cached key falls back
// to prompting once.
func (h *Handler) unlock(ctx context.Context, v *vault) (*application.CredentialService, error) {
	initialized, err := v.keys.HasKey(ctx)
	if err != nil {
		return nil, err
	}
	if !initialized {
		return nil, model.ErrNotInitialized
	}

	if key, ok := v.keys.CachedKey(ctx); ok {
		engine, err := v.keys.Unlock(ctx, key)
		if err == nil {
			return application.NewCredentialService(v.creds, engine, h.logger), nil
		}
		if !errors.Is(err, model.ErrInvalidKey) {
			return nil, err
		}
		h.logger.Warn("cached encryption key no longer matches the vault")
	}

	key, err := h.prompter.Secret("Enter encryption key: ")
	if err != nil {
		return nil, fmt.Errorf("read encryption key: %w", err)
	}
	engine, err := v.keys.Unlock(ctx, key)
	if err != nil {
		return nil, err
	}
	return application.NewCredentialService(v.creds, engine, h.logger), nil
}

// requirePrivilege enforces the sudo gate used by every password command.
func (h *Handler) requirePrivilege(ctx context.Context) error {
	if !h.privilege.Check(ctx) {
		return errAuthRequired
	}
	return nil
}

// withSession runs fn against an unlocked vault behind the privilege gate.
func (h *Handler) withSession(ctx context.Context, fn func(*application.CredentialService) error) error {
	if err := h.requirePrivilege(ctx); err != nil {
		return err
	}

	v, err := h.openVault(ctx)
	if err != nil {
		return err
	}
	defer v.close(h.logger)

	svc, err := h.unlock(ctx, v)
	if err != nil {
		return err
	}
	return fn(svc)
}

// NewRootCommand builds the command tree for h.
func NewRootCommand(h *Handler) *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "passvault",
		Short:         "A secure password manager CLI application.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug && h.level != nil {
				h.level.Set(slog.LevelDebug)
			}
		},
	}
	root.PersistentFlags().StringVar(&h.dbPath, "db", h.dbPath, "path to the vault database")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	root.SetOut(h.out)
	root.SetErr(h.errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	root.AddCommand(
		h.initCommand(),
		h.authCommand(),
		h.authCheckCommand(),
		h.doctorCommand(),
		h.generateCommand(),
		h.storeCommand(),
		h.retrieveCommand(),
		h.listCommand(),
		h.deleteCommand(),
	)

	for _, cmd := range root.Commands() {
		if cmd.RunE != nil {
			cmd.RunE = withRecovery(h.logger, withLogging(h.logger, h.markRunning(cmd.RunE)))
		}
	}
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, h *Handler, args []string) int {
	h.running = false
	root := NewRootCommand(h)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	var usage usageError
	if !h.running && !errors.As(err, &usage) {
		err = usageError{err}
	}
	h.writeError(err)
	return exitCode(err)
}

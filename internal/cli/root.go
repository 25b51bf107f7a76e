// Package cli implements the relations command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/relations/internal/logging"
	"github.com/mesh-intelligence/relations/internal/paths"
	"github.com/mesh-intelligence/relations/internal/sqlite"
	"github.com/mesh-intelligence/relations/pkg/kinds"
	"github.com/mesh-intelligence/relations/pkg/relationship"
	"github.com/mesh-intelligence/relations/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app carries the flags of one root command to its subcommands.
type app struct {
	flags rootFlags
}

// NewRootCmd creates the top-level "relations" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "relations",
		Short: "Resolve and serve relationship fields",
		Long: "Relations stores records (entries, terms, users) and exposes the\n" +
			"relationship fields configured in config.yaml: preload payloads,\n" +
			"value processing, validation rules, and the selection endpoints.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.relations-db)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newServeCmd())
	root.AddCommand(a.newFieldsCmd())
	root.AddCommand(a.newPreloadCmd())
	root.AddCommand(a.newProcessCmd())
	root.AddCommand(a.newRulesCmd())
	root.AddCommand(a.newRecordsCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "relations:", err)
		os.Exit(exitCode(err))
	}
}

// cliError attaches an exit code to an error.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func userError(err error) error { return &cliError{code: exitUserError, err: err} }
func sysError(err error) error  { return &cliError{code: exitSysError, err: err} }

// exitCode returns the exit code carried by err, exitUserError by default.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitUserError
}

// classify maps engine and store errors to CLI errors.
func classify(err error) error {
	var ce *cliError
	var verr *types.ValidationError
	var cerr *types.ConfigError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ce):
		return err
	case errors.As(err, &verr), errors.As(err, &cerr),
		errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrFieldNotFound),
		errors.Is(err, types.ErrUnknownKind), errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidID), errors.Is(err, types.ErrInvalidKind):
		return userError(err)
	}
	return sysError(err)
}

// resolveConfigDir returns the config directory from flag, env, or default.
func (a *app) resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(a.flags.configDir)
}

// settings loads config.yaml for this invocation.
func (a *app) settings() (*settings, error) {
	configDir, err := a.resolveConfigDir()
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	s, err := loadSettings(configDir, a.flags.dataDir)
	if err != nil {
		return nil, sysError(err)
	}
	return s, nil
}

// env is everything a field command needs: an attached store, the logger,
// and a registry holding the configured fields.
type env struct {
	settings *settings
	store    *sqlite.Backend
	logger   *slog.Logger
	registry *relationship.Registry
	closer   io.Closer
}

// Close detaches the store and closes the log output.
func (e *env) Close() error {
	err := e.store.Detach()
	if cerr := e.closer.Close(); err == nil {
		err = cerr
	}
	return err
}

// attachStore resolves settings and attaches the record store. The caller
// must Detach the returned backend.
func (a *app) attachStore() (*settings, *sqlite.Backend, error) {
	s, err := a.settings()
	if err != nil {
		return nil, nil, err
	}
	store := sqlite.NewBackend()
	if err := store.Attach(types.Config{Backend: s.Backend, DataDir: s.DataDir}); err != nil {
		return nil, nil, sysError(fmt.Errorf("attach store: %w", err))
	}
	return s, store, nil
}

// openEnv attaches the store and registers every configured field. Field
// configuration errors are user errors and are reported together.
func (a *app) openEnv(ctx context.Context) (*env, error) {
	s, store, err := a.attachStore()
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(logging.Config{File: s.LogFile, Level: s.LogLevel})
	if err != nil {
		store.Detach()
		return nil, userError(fmt.Errorf("logging: %w", err))
	}

	registry, err := kinds.NewRegistry(store, logger, s.Endpoints)
	if err != nil {
		store.Detach()
		closer.Close()
		return nil, sysError(fmt.Errorf("build registry: %w", err))
	}
	if err := registry.AddFields(s.Fields); err != nil {
		store.Detach()
		closer.Close()
		return nil, userError(fmt.Errorf("invalid field configuration: %w", err))
	}

	logger.DebugContext(ctx, "environment ready",
		"data_dir", s.DataDir, "fields", len(s.Fields), "kinds", registry.Kinds())
	return &env{settings: s, store: store, logger: logger, registry: registry, closer: closer}, nil
}

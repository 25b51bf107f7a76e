package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/relations/internal/paths"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and record storage",
		Long:  "Create the configuration directory with a default config.yaml, then initialize the record store.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	configDir, err := a.resolveConfigDir()
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	// Write config.yaml if missing; an explicit --data-dir is recorded in it.
	if err := ensureDefaultConfigFile(configDir, a.flags.dataDir); err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	// Initialize the data directory via Attach then Detach.
	s, store, err := a.attachStore()
	if err != nil {
		return err
	}
	if err := store.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"config": paths.ConfigFile(configDir),
			"data":   s.DataDir,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Relations initialized successfully")
	fmt.Fprintln(out, "  config:", paths.ConfigFile(configDir))
	fmt.Fprintln(out, "  data:  ", s.DataDir)
	return nil
}

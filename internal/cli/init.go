package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdxmph/taskflow/internal/config"
	"github.com/pdxmph/taskflow/internal/db"
	"github.com/pdxmph/taskflow/internal/logging"
	"github.com/pdxmph/taskflow/internal/persist"
	"github.com/pdxmph/taskflow/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and task database",
	Long: `Init writes a default config file if none exists and creates the SQLite
database it points at. With --seed the sample tasks are saved as well.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("seed", false, "Save the sample task list")
}

func runInit(cmd *cobra.Command, args []string) error {
	if ephemeral {
		return errors.New("init writes to disk and cannot be combined with --ephemeral")
	}
	seed, _ := cmd.Flags().GetBool("seed")
	out := cmd.OutOrStdout()

	path := configPath
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cfg.SaveTo(path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote config to %s\n", path)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logger.Sync()

	_, statErr := os.Stat(cfg.Storage.Path)
	existed := statErr == nil

	database, err := db.OpenOrInitialize(cfg.Storage.Path, logger)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer database.Close()

	if existed {
		fmt.Fprintf(out, "Database already exists at %s\n", cfg.Storage.Path)
	} else {
		fmt.Fprintf(out, "Created database at %s\n", cfg.Storage.Path)
	}

	if !seed {
		return nil
	}

	adapter := persist.NewAdapter(database, cfg.Storage.Slot, logger)
	if _, ok, err := adapter.Load(); err != nil || ok {
		fmt.Fprintln(out, "Tasks already saved; run 'taskflow reset' to start over")
		return nil
	}

	s := store.New(adapter, store.WithLogger(logger))
	if err := s.Open(); err != nil {
		return err
	}
	if err := s.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %d sample tasks\n", len(s.Tasks()))
	return nil
}

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdxmph/taskflow/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where tasks are stored",
	Long: `Status prints the config file, the database and the slots saved in it.
The slot taskflow reads and writes is marked with '*'.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()

	cfgFile := configPath
	if cfgFile == "" {
		if dir, err := config.Dir(); err == nil {
			cfgFile = filepath.Join(dir, "config.toml")
		}
	}
	fmt.Fprintf(out, "Config:   %s\n", cfgFile)
	fmt.Fprintf(out, "Slot:     %s\n", e.adapter.Slot())
	fmt.Fprintf(out, "Tasks:    %d\n", len(e.store.Tasks()))
	if e.notice != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", e.notice)
	}

	if e.db == nil {
		fmt.Fprintln(out, "Database: in memory (--ephemeral)")
		return nil
	}
	fmt.Fprintf(out, "Database: %s\n", e.cfg.Storage.Path)

	slots, err := e.db.ListSlots()
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintln(out, "\nNothing saved yet.")
		return nil
	}

	fmt.Fprintln(out, "\nSlots:")
	for _, s := range slots {
		mark := " "
		if s.Name == e.adapter.Slot() {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %-20s %8d bytes  updated %s\n",
			mark, s.Name, s.Size, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

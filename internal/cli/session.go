package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdxmph/taskflow/internal/telemetry"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in as a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().String("name", "", "Display name (defaults to the part of the email before @)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	u, err := e.sessions.Login(args[0], name)
	if err != nil {
		return err
	}
	e.telemetry.Identify(u.ID, telemetry.Props{"email": u.Email, "name": u.Name})
	e.emit(telemetry.EventUserLoggedIn, nil)

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", u.Name, u.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.sessions.Logout(); err != nil {
		return err
	}
	e.emit(telemetry.EventUserLoggedOut, nil)
	e.telemetry.Reset()

	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	u, ok, err := e.sessions.Current()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", u.Name, u.Email)
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"tasktracker/backend/internal/client"
)

const defaultServer = "http://localhost:8080"

// app is shared by every subcommand. Only the refresh cookie outlives a run.
type app struct {
	server    string
	configDir string

	session   *client.Session
	store     *client.CookieStore
	loggedOut bool
}

// execute runs one invocation. The refresh cookie is saved even when the command fails, since a
// refresh during the run has already rotated it on the server.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.persist())
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Manage your tasks from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
	}
	root.PersistentFlags().StringVarP(&a.server, "server", "s", envOr("TASKCTL_SERVER", defaultServer), "API base URL")
	root.PersistentFlags().StringVar(&a.configDir, "config-dir", envOr("TASKCTL_CONFIG_DIR", ""), "directory holding the saved session")

	root.AddCommand(a.registerCmd(), a.loginCmd(), a.logoutCmd(), a.tasksCmd(), a.activityCmd())
	return root
}

func (a *app) open() error {
	s, err := client.New(a.server, nil)
	if err != nil {
		return err
	}
	store, err := client.NewCookieStore(a.configDir)
	if err != nil {
		return err
	}
	saved, err := store.Load()
	if err != nil {
		return err
	}
	s.SetRefreshCookie(saved)
	a.session, a.store = s, store
	return nil
}

func (a *app) persist() error {
	if a.session == nil {
		return nil
	}
	if a.loggedOut {
		return a.store.Clear()
	}
	return a.store.Save(a.session.RefreshCookie())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

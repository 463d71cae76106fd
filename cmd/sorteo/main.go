// Command sorteo is the terminal client for the raffle ticket system:
// registrants submit tickets and look up their own, administrators review
// and resolve submissions and export the records.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lenninsorteos/sorteo/internal/api"
	"github.com/lenninsorteos/sorteo/internal/config"
	"github.com/lenninsorteos/sorteo/internal/form"
	"github.com/lenninsorteos/sorteo/internal/moderation"
	"github.com/lenninsorteos/sorteo/internal/session"
)

var verbose bool

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "sorteo: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sorteo",
		Short: "Raffle ticket registration and moderation client",
		Long: `sorteo talks to the raffle backend: register a ticket with a payment
proof, look up your tickets by DNI, and (for administrators) review
submissions, approve or reject them and export the records as CSV.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.AddCommand(
		newRegisterCmd(),
		newSearchCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newListCmd(),
		newStatusCmd("approve", "Approve a ticket under review"),
		newStatusCmd("reject", "Reject a ticket under review"),
		newStatsCmd(),
		newExportCmd(),
		newTUICmd(),
	)
	return cmd
}

// app bundles the wired client-side components. Each command builds one
// from the environment so configuration is read exactly once per run.
type app struct {
	cfg     *config.Config
	client  *api.Client
	session *session.Session
	form    *form.Controller
	view    *moderation.View
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
	})
	if err != nil {
		return nil, err
	}
	sess := session.New(client, session.NewTokenStore(cfg.TokenFile), nil)
	sess.Load()
	policy, err := moderation.ParseTerminalPolicy(cfg.TerminalPolicy)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		client:  client,
		session: sess,
		form: form.New(client, form.Options{
			MaxImageBytes:     cfg.MaxImageBytes,
			AllowedImageTypes: cfg.AllowedImageTypes,
			SubmitTimeout:     cfg.HTTPTimeout,
		}),
		view: moderation.NewView(client, sess, policy, nil),
	}, nil
}

// requireAdmin makes admin commands fail fast with a clear message when
// no session exists.
func (a *app) requireAdmin() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not logged in (run `sorteo login` first)")
	}
	return nil
}

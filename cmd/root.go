package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"cinemox-cli/config"
	"cinemox-cli/logging"
	"cinemox-cli/model"
	"cinemox-cli/service"
	"cinemox-cli/store"
	"cinemox-cli/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "cinemox"

// env is what every subcommand gets after the persistent pre-run.
type env struct {
	cfg    *config.Config
	client *service.Client
	logger *zap.Logger
}

// token prefers CINEMOX_TOKEN over the stored login.
func (r *env) token() string {
	if r.cfg != nil && r.cfg.Token != "" {
		return r.cfg.Token
	}
	return store.Token()
}

func (r *env) loggedIn() bool {
	return r.token() != ""
}

func (r *env) requireLogin() error {
	if !r.loggedIn() {
		return fmt.Errorf("please login first: %s login", appName)
	}
	return nil
}

var errNotAdmin = errors.New("You do not have permission to access the admin dashboard.")

// requireAdmin checks the role locally; the server still enforces it.
func (r *env) requireAdmin() error {
	if err := r.requireLogin(); err != nil {
		return err
	}
	if !model.IsAdminRole(store.Role(r.token())) {
		return errNotAdmin
	}
	return nil
}

func (r *env) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := 20 * time.Second
	if r.cfg != nil && r.cfg.Timeout > 0 {
		timeout = r.cfg.Timeout * 2
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

// NewRootCmd wires the command tree. Running it without a subcommand starts
// the interactive TUI.
func NewRootCmd(version string, commit string) *cobra.Command {
	v := config.New()
	rt := &env{}
	var envFile string

	root := &cobra.Command{
		Use:           appName,
		Short:         "Cinemox CLI",
		Long:          `Browse movies, pick a showtime and book your seats from the terminal :)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logPath, err := store.LogPath()
			if err != nil {
				logPath = ""
			}
			logger, err := logging.New(logPath, cfg.Debug)
			if err != nil {
				logger = zap.NewNop()
			}
			rt.cfg = cfg
			rt.logger = logger.With(zap.String("command", cmd.Name()))
			rt.client = newClient(cfg, rt)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := tea.NewProgram(tui.New(rt.client, rt.logger, rt.loggedIn), tea.WithAltScreen()).Run()
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.String("api-url", service.DefaultBaseURL, "Cinemox API base URL")
	flags.Bool("debug", false, "write debug logs")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to load")
	_ = v.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = v.BindPFlag("debug", flags.Lookup("debug"))

	root.AddCommand(
		newLoginCmd(rt),
		newLogoutCmd(),
		newWhoamiCmd(),
		newMoviesCmd(rt),
		newSchedulesCmd(rt),
		newSeatsCmd(rt),
		newBookCmd(rt),
		newBookingsCmd(rt),
		newProfileCmd(rt),
		newPasswdCmd(rt),
		newAdminCmd(rt),
		newVersionCmd(version, commit),
	)
	return root
}

func newClient(cfg *config.Config, rt *env) *service.Client {
	return service.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.Timeout},
		service.WithToken(rt.token),
		service.WithUnauthorizedHandler(func() {
			if err := store.ClearAuth(); err != nil {
				rt.logger.Warn("failed to clear session", zap.Error(err))
			}
		}),
		service.WithRetry(cfg.MaxAttempts, cfg.RetryBase, cfg.RetryCap),
		service.WithLogger(rt.logger),
	)
}

func newVersionCmd(version string, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of Cinemox CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion(cmd.OutOrStdout(), version, commit)
			return nil
		},
	}
}

func printVersion(out io.Writer, version string, commit string) {
	fmt.Fprintf(out, "%s %s", appName, version)
	if commit != "none" && commit != "" {
		fmt.Fprintf(out, " (%s)", commit)
	}
	fmt.Fprintln(out)
}

func Execute(version string, commit string) {
	if err := NewRootCmd(version, commit).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

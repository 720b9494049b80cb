package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cinemox-cli/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func newLoginCmd(rt *env) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to your Cinemox account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				value, err := promptEmail()
				if err != nil {
					return err
				}
				email = value
			}
			password, err := promptPassword()
			if err != nil {
				return err
			}

			ctx, cancel := rt.context(cmd)
			defer cancel()
			session, err := rt.client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := store.SaveAuth(session); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			name := session.FullName
			if name == "" {
				name = session.Email
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func promptEmail() (string, error) {
	prompt := promptui.Prompt{
		Label: "Email",
		Validate: func(input string) error {
			if !strings.Contains(input, "@") {
				return errors.New("invalid email")
			}
			return nil
		},
	}
	value, err := prompt.Run()
	return strings.TrimSpace(value), err
}

func promptPassword() (string, error) {
	return promptSecret("Password", requirePassword)
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored login",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.ClearAuth(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			session, err := store.LoadAuth()
			if err != nil {
				return err
			}
			if session.Token == "" {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			fmt.Fprintf(out, "%s <%s> role=%s\n", session.FullName, session.Email, session.Role)
			if session.IsAdmin() {
				fmt.Fprintf(out, "Admin commands: %s admin --help\n", appName)
			}
			if exp, ok := store.TokenExpiry(session.Token); ok {
				if store.TokenExpired(session.Token, time.Now()) {
					fmt.Fprintf(out, "Session expired at %s\n", exp.Local().Format(time.DateTime))
				} else {
					fmt.Fprintf(out, "Session valid until %s\n", exp.Local().Format(time.DateTime))
				}
			}
			return nil
		},
	}
}

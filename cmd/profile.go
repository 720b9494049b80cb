package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cinemox-cli/model"
	"cinemox-cli/service"
	"cinemox-cli/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newProfileCmd(rt *env) *cobra.Command {
	var (
		name  string
		phone string
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireLogin(); err != nil {
				return err
			}
			ctx, cancel := rt.context(cmd)
			defer cancel()

			var update model.ProfileUpdate
			if cmd.Flags().Changed("name") {
				value := strings.TrimSpace(name)
				update.FullName = &value
			}
			if cmd.Flags().Changed("phone") {
				value := strings.TrimSpace(phone)
				update.PhoneNumber = &value
			}
			if !update.Empty() {
				msg, err := rt.client.UpdateProfile(ctx, update)
				if err != nil {
					return err
				}
				if msg == "" {
					msg = "Profile updated successfully"
				}
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
				if update.FullName != nil {
					syncStoredName(rt, *update.FullName)
				}
			}

			user, err := rt.client.GetProfile(ctx)
			if err != nil {
				return err
			}
			renderProfile(cmd.OutOrStdout(), user)
			if user.IsAdmin() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Admin commands: %s admin --help\n", appName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new full name")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone number")
	return cmd
}

// syncStoredName keeps whoami and the TUI header in step with a rename.
func syncStoredName(rt *env, name string) {
	session, err := store.LoadAuth()
	if err != nil || session.Token == "" || session.Token != rt.token() {
		return
	}
	session.FullName = name
	if err := store.SaveAuth(session); err != nil {
		rt.logger.Warn("failed to update stored session", zap.Error(err))
	}
}

func renderProfile(out io.Writer, user model.User) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	phone := user.PhoneNumber
	if phone == "" {
		phone = "N/A"
	}
	verified := "No"
	if user.EmailVerified {
		verified = "Yes"
	}
	t.AppendRows([]table.Row{
		{"Name", user.FullName},
		{"Email", user.Email},
		{"Phone", phone},
		{"Roles", strings.Join(user.Roles, ", ")},
		{"Email Verified", verified},
		{"Member Since", formatDate(user.CreatedAt)},
	})
	t.Render()
}

func formatDate(t model.LocalTime) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func newPasswdCmd(rt *env) *cobra.Command {
	var fromStdin bool
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Long:  "Change your password. With --stdin the current password, the new one and its confirmation are read from three lines of standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireLogin(); err != nil {
				return err
			}
			var (
				change model.PasswordChange
				err    error
			)
			if fromStdin {
				change, err = readPasswordChange(cmd.InOrStdin())
			} else {
				change, err = promptPasswordChange()
			}
			if err != nil {
				return err
			}

			ctx, cancel := rt.context(cmd)
			defer cancel()
			msg, err := changePassword(ctx, rt.client, change)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read passwords from standard input")
	return cmd
}

func changePassword(ctx context.Context, client *service.Client, change model.PasswordChange) (string, error) {
	msg, err := client.ChangePassword(ctx, change)
	if err != nil {
		return "", err
	}
	if msg == "" {
		msg = "Password changed successfully"
	}
	return msg, nil
}

func checkNewPassword(newPassword string, confirm string) error {
	if newPassword != confirm {
		return errors.New("new passwords do not match")
	}
	if len(newPassword) < service.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", service.MinPasswordLength)
	}
	return nil
}

func readPasswordChange(in io.Reader) (model.PasswordChange, error) {
	scanner := bufio.NewScanner(in)
	lines := make([]string, 0, 3)
	for len(lines) < 3 && scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return model.PasswordChange{}, err
	}
	if len(lines) < 3 {
		return model.PasswordChange{}, errors.New("--stdin expects three lines of input")
	}
	if lines[0] == "" {
		return model.PasswordChange{}, errors.New("current password is required")
	}
	if err := checkNewPassword(lines[1], lines[2]); err != nil {
		return model.PasswordChange{}, err
	}
	return model.PasswordChange{CurrentPassword: lines[0], NewPassword: lines[1]}, nil
}

func promptPasswordChange() (model.PasswordChange, error) {
	current, err := promptSecret("Current Password", requirePassword)
	if err != nil {
		return model.PasswordChange{}, err
	}
	next, err := promptSecret("New Password", func(input string) error {
		if len(input) < service.MinPasswordLength {
			return fmt.Errorf("at least %d characters", service.MinPasswordLength)
		}
		return nil
	})
	if err != nil {
		return model.PasswordChange{}, err
	}
	confirm, err := promptSecret("Confirm New Password", nil)
	if err != nil {
		return model.PasswordChange{}, err
	}
	if err := checkNewPassword(next, confirm); err != nil {
		return model.PasswordChange{}, err
	}
	return model.PasswordChange{CurrentPassword: current, NewPassword: next}, nil
}

func requirePassword(input string) error {
	if input == "" {
		return errors.New("password is required")
	}
	return nil
}

func promptSecret(label string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: validate,
	}
	return prompt.Run()
}

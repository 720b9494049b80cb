package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cinemox-cli/model"
)

// MinPasswordLength matches the server-side rule for new passwords.
const MinPasswordLength = 6

// GetProfile returns the account behind the current token.
func (c *Client) GetProfile(ctx context.Context) (model.User, error) {
	var user model.User
	if err := c.getData(ctx, "/profile", &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// UpdateProfile changes the name and/or phone number. It returns the
// server's confirmation message.
func (c *Client) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (string, error) {
	if update.Empty() {
		return "", errors.New("nothing to update")
	}
	if update.FullName != nil && *update.FullName == "" {
		return "", errors.New("full name cannot be empty")
	}
	return c.sendData(ctx, http.MethodPut, "/profile", update, nil)
}

// ChangePassword is sent once. A wrong current password comes back as an
// APIError with the server's message.
func (c *Client) ChangePassword(ctx context.Context, change model.PasswordChange) (string, error) {
	if change.CurrentPassword == "" {
		return "", errors.New("current password is required")
	}
	if len(change.NewPassword) < MinPasswordLength {
		return "", fmt.Errorf("new password must be at least %d characters", MinPasswordLength)
	}
	return c.sendData(ctx, http.MethodPost, "/profile/change-password", change, nil)
}

package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cinemox-cli/model"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email string, password string) (model.AuthSession, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.AuthSession{}, errors.New("email and password are required")
	}
	env, err := c.do(ctx, http.MethodPost, "/auth/login", model.LoginRequest{Email: email, Password: password}, nil)
	if err != nil {
		return model.AuthSession{}, err
	}
	if !env.Success {
		return model.AuthSession{}, &APIError{StatusCode: http.StatusOK, Endpoint: "/auth/login", Message: env.Message}
	}
	var session model.AuthSession
	if err := decodeData("/auth/login", env.Data, &session); err != nil {
		return model.AuthSession{}, err
	}
	if session.Token == "" {
		return model.AuthSession{}, errors.New("login response did not include a token")
	}
	return session, nil
}

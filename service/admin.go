package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cinemox-cli/model"
)

// AdminResource names what DeleteResource removes.
type AdminResource string

const (
	AdminMovies    AdminResource = "movies"
	AdminSchedules AdminResource = "schedules"
	AdminUsers     AdminResource = "users"
)

func (c *Client) GetStatistics(ctx context.Context) (model.AdminStats, error) {
	var stats model.AdminStats
	if err := c.getData(ctx, "/admin/statistics", &stats); err != nil {
		return model.AdminStats{}, err
	}
	return stats, nil
}

func (c *Client) GetBookingsByMonth(ctx context.Context) (model.MonthlyStats, error) {
	var stats model.MonthlyStats
	if err := c.getData(ctx, "/admin/statistics/bookings-by-month", &stats); err != nil {
		return model.MonthlyStats{}, err
	}
	return stats, nil
}

// GetAllBookings lists every booking of every user.
func (c *Client) GetAllBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.getData(ctx, "/admin/bookings", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) GetAllSchedules(ctx context.Context) ([]model.Schedule, error) {
	var schedules []model.Schedule
	if err := c.getData(ctx, "/admin/schedules", &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (c *Client) GetUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.getData(ctx, "/admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ToggleUserActive flips the active flag and returns the updated user.
func (c *Client) ToggleUserActive(ctx context.Context, userID string) (model.User, error) {
	if strings.TrimSpace(userID) == "" {
		return model.User{}, errors.New("user id is required")
	}
	var user model.User
	path := fmt.Sprintf("/admin/users/%s/toggle-active", url.PathEscape(userID))
	if _, err := c.sendData(ctx, http.MethodPut, path, nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// DeleteResource removes one admin-managed record by id.
func (c *Client) DeleteResource(ctx context.Context, resource AdminResource, id string) (string, error) {
	switch resource {
	case AdminMovies, AdminSchedules, AdminUsers:
	default:
		return "", fmt.Errorf("unknown resource %q", resource)
	}
	if strings.TrimSpace(id) == "" {
		return "", errors.New("id is required")
	}
	return c.sendData(ctx, http.MethodDelete, fmt.Sprintf("/admin/%s/%s", resource, url.PathEscape(id)), nil, nil)
}

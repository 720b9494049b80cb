package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"cinemox-cli/model"
)

// GetSchedulesByMovie lists every screening of a movie. Schedules carry live
// seat availability and are never cached.
func (c *Client) GetSchedulesByMovie(ctx context.Context, movieID string) ([]model.Schedule, error) {
	if strings.TrimSpace(movieID) == "" {
		return nil, errors.New("movie id is required")
	}
	var schedules []model.Schedule
	if err := c.getData(ctx, fmt.Sprintf("/schedules/movie/%s", url.PathEscape(movieID)), &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// GetSchedule fetches a single screening.
func (c *Client) GetSchedule(ctx context.Context, scheduleID string) (model.Schedule, error) {
	if strings.TrimSpace(scheduleID) == "" {
		return model.Schedule{}, errors.New("schedule id is required")
	}
	var schedule model.Schedule
	if err := c.getData(ctx, fmt.Sprintf("/schedules/%s", url.PathEscape(scheduleID)), &schedule); err != nil {
		return model.Schedule{}, err
	}
	if schedule.Id == "" {
		return model.Schedule{}, errors.New("schedule not found")
	}
	return schedule, nil
}

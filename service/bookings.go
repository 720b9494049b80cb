package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cinemox-cli/model"

	"github.com/google/uuid"
)

const IdempotencyKeyHeader = "X-Idempotency-Key"

// CreateBooking submits a booking once. A success=false envelope is returned
// as a result, not an error; non-2xx answers and transport failures are errors.
func (c *Client) CreateBooking(ctx context.Context, req model.BookingRequest) (model.BookingResult, error) {
	if strings.TrimSpace(req.ScheduleId) == "" {
		return model.BookingResult{}, errors.New("schedule id is required")
	}
	if len(req.Seats) == 0 {
		return model.BookingResult{}, errors.New("at least one seat must be selected")
	}

	header := http.Header{}
	header.Set(IdempotencyKeyHeader, uuid.NewString())
	env, err := c.do(ctx, http.MethodPost, "/bookings", req, header)
	if err != nil {
		return model.BookingResult{}, err
	}

	result := model.BookingResult{Success: env.Success, Message: env.Message}
	if env.Success {
		var booking model.Booking
		if err := decodeData("/bookings", env.Data, &booking); err == nil && booking.Id != "" {
			result.Booking = &booking
		}
	}
	return result, nil
}

// GetMyBookings lists the bookings of the logged-in user.
func (c *Client) GetMyBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.getData(ctx, "/bookings/my-bookings", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetBookingByCode looks a booking up by its ticket code.
func (c *Client) GetBookingByCode(ctx context.Context, code string) (model.Booking, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.Booking{}, errors.New("booking code is required")
	}
	var booking model.Booking
	if err := c.getData(ctx, fmt.Sprintf("/bookings/code/%s", url.PathEscape(code)), &booking); err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

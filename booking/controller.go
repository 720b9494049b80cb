package booking

import (
	"context"
	"errors"

	"cinemox-cli/model"

	"go.uber.org/zap"
)

const (
	msgSelectSeat     = "Please select at least one seat"
	msgSubmitting     = "Your booking is still being submitted"
	msgBookingSuccess = "Booking successful! Check your email for ticket confirmation."
)

// Submitter sends a booking request to the backend.
type Submitter interface {
	CreateBooking(ctx context.Context, req model.BookingRequest) (model.BookingResult, error)
}

// Notifier surfaces transient messages to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
	Warning(message string)
	Info(message string)
}

// Controller owns the booking view: at most one open Session, the
// notifications it raises and the navigation that follows a booking.
type Controller struct {
	session  *Session
	notifier Notifier
	onBooked func(Outcome)
	logger   *zap.Logger
}

func NewController(notifier Notifier, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{notifier: notifier, logger: logger}
}

// OnBooked registers the navigation step run after a successful booking.
func (c *Controller) OnBooked(fn func(Outcome)) {
	c.onBooked = fn
}

// Open starts a fresh session for schedule, discarding any previous one.
func (c *Controller) Open(schedule model.Schedule) *Session {
	if c.session != nil {
		c.session.Close()
	}
	c.session = NewSession(schedule)
	c.logger.Debug("booking view opened",
		zap.String("session_id", c.session.ID()),
		zap.String("schedule_id", schedule.Id),
		zap.Int("booked", len(c.session.booked)),
	)
	return c.session
}

// Close discards the open session. An in-flight submission is not
// cancelled; its result will resolve as stale.
func (c *Controller) Close() {
	if c.session == nil {
		return
	}
	c.logger.Debug("booking view closed", zap.String("session_id", c.session.ID()))
	c.session.Close()
	c.session = nil
}

// Session returns the open session, or nil.
func (c *Controller) Session() *Session {
	return c.session
}

func (c *Controller) Toggle(label SeatLabel, booked bool) bool {
	if c.session == nil {
		return false
	}
	return c.session.Toggle(label, booked)
}

// Confirm validates the selection and starts a submission. It returns false
// when nothing should be sent.
func (c *Controller) Confirm() (Attempt, bool) {
	if c.session == nil {
		return Attempt{}, false
	}
	attempt, err := c.session.BeginSubmit()
	switch {
	case err == nil:
		c.logger.Info("submitting booking",
			zap.String("session_id", attempt.Token.SessionID),
			zap.Int("seq", attempt.Token.Seq),
			zap.String("schedule_id", attempt.Request.ScheduleId),
			zap.Strings("seats", attempt.Request.Seats),
			zap.Float64("total_price", attempt.Request.TotalPrice),
		)
		return attempt, true
	case errors.Is(err, ErrNoSeats):
		c.warn(msgSelectSeat)
	case errors.Is(err, ErrSubmitting):
		c.info(msgSubmitting)
	}
	return Attempt{}, false
}

// Resolve applies the response of attempt to the open session.
func (c *Controller) Resolve(attempt Attempt, result model.BookingResult, err error) Outcome {
	if c.session == nil {
		c.logger.Debug("dropping booking response for closed view", zap.String("session_id", attempt.Token.SessionID))
		return Outcome{Kind: OutcomeStale}
	}
	outcome := c.session.Resolve(attempt.Token, result, err)
	switch outcome.Kind {
	case OutcomeStale:
		c.logger.Debug("dropping stale booking response",
			zap.String("session_id", attempt.Token.SessionID),
			zap.Int("seq", attempt.Token.Seq),
		)
	case OutcomeFailed:
		c.logger.Warn("booking failed", zap.String("message", outcome.Message), zap.Error(err))
		c.fail(outcome.Message)
	case OutcomeSucceeded:
		c.logger.Info("booking confirmed", zap.String("session_id", attempt.Token.SessionID))
		c.succeed(msgBookingSuccess)
		c.Close()
		if c.onBooked != nil {
			c.onBooked(outcome)
		}
	}
	return outcome
}

// Submit runs Confirm, CreateBooking and Resolve in one call. It returns
// ErrNoSeats or ErrSubmitting when no request was sent.
func (c *Controller) Submit(ctx context.Context, submitter Submitter) (Outcome, error) {
	if c.session == nil {
		return Outcome{}, ErrSessionClosed
	}
	attempt, ok := c.Confirm()
	if !ok {
		switch c.session.State() {
		case StateSubmitting:
			return Outcome{}, ErrSubmitting
		case StateSeatsSelecting:
			return Outcome{}, ErrNoSeats
		default:
			return Outcome{}, ErrSessionClosed
		}
	}
	result, err := submitter.CreateBooking(ctx, attempt.Request)
	return c.Resolve(attempt, result, err), nil
}

func (c *Controller) succeed(msg string) {
	if c.notifier != nil {
		c.notifier.Success(msg)
	}
}

func (c *Controller) fail(msg string) {
	if c.notifier != nil {
		c.notifier.Error(msg)
	}
}

func (c *Controller) warn(msg string) {
	if c.notifier != nil {
		c.notifier.Warning(msg)
	}
}

func (c *Controller) info(msg string) {
	if c.notifier != nil {
		c.notifier.Info(msg)
	}
}

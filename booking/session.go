package booking

import (
	"errors"
	"net/url"
	"slices"
	"strings"

	"cinemox-cli/model"

	"github.com/google/uuid"
)

const (
	FallbackMessage     = "Something went wrong"
	NetworkErrorMessage = "Network error. Please check your connection."
)

var (
	ErrNoSeats       = errors.New("please select at least one seat")
	ErrSubmitting    = errors.New("booking is already being submitted")
	ErrSessionClosed = errors.New("booking session is closed")
)

// State is the lifecycle of one booking attempt.
type State int

const (
	StateIdle State = iota
	StateSeatsSelecting
	StateSubmitting
	StateSucceeded
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeatsSelecting:
		return "selecting"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Token identifies one submission of one session. A response whose token no
// longer matches the session is stale and must be dropped.
type Token struct {
	SessionID string
	Seq       int
}

// Attempt is a submission in flight.
type Attempt struct {
	Token   Token
	Request model.BookingRequest
}

type OutcomeKind int

const (
	OutcomeSucceeded OutcomeKind = iota
	OutcomeFailed
	OutcomeStale
)

type Outcome struct {
	Kind    OutcomeKind
	Message string
	Booking *model.Booking
}

// Summary is the booking footer: selected seats and running total.
type Summary struct {
	Seats     []SeatLabel
	SeatsText string
	Total     float64
	TotalText string
}

// Session holds the state of booking one schedule. It is owned by a single
// view and is not safe for concurrent use.
type Session struct {
	id       string
	schedule model.Schedule
	grid     Grid
	booked   map[SeatLabel]bool
	selected []SeatLabel
	state    State
	seq      int
}

// NewSession opens the booking view for schedule with an empty selection.
func NewSession(schedule model.Schedule) *Session {
	grid := GridFor(schedule.TotalSeats)
	return &Session{
		id:       uuid.NewString(),
		schedule: schedule,
		grid:     grid,
		booked:   bookedSet(grid, schedule.BookedSeats),
		state:    StateSeatsSelecting,
	}
}

func (s *Session) ID() string               { return s.id }
func (s *Session) Schedule() model.Schedule { return s.schedule }
func (s *Session) Grid() Grid               { return s.grid }
func (s *Session) State() State             { return s.state }

// Cells renders the seat grid for the session's schedule.
func (s *Session) Cells() []SeatCell {
	return Render(s.grid, s.schedule.BookedSeats)
}

func (s *Session) IsBooked(label SeatLabel) bool {
	return s.booked[label]
}

func (s *Session) IsSelected(label SeatLabel) bool {
	return slices.Contains(s.selected, label)
}

// Selected returns the selection in the order seats were picked.
func (s *Session) Selected() []SeatLabel {
	return slices.Clone(s.selected)
}

// Toggle flips label in or out of the selection and reports whether the
// selection changed. booked is the flag the caller rendered the seat with;
// booked seats, labels off the grid and finished sessions are ignored.
func (s *Session) Toggle(label SeatLabel, booked bool) bool {
	if booked || s.booked[label] {
		return false
	}
	if s.state != StateSeatsSelecting && s.state != StateSubmitting {
		return false
	}
	if !s.grid.Contains(label) {
		return false
	}
	if i := slices.Index(s.selected, label); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		return true
	}
	s.selected = append(s.selected, label)
	return true
}

func (s *Session) Total() float64 {
	return s.schedule.Price * float64(len(s.selected))
}

func (s *Session) Summary() Summary {
	seats := s.Selected()
	text := "None"
	if len(seats) > 0 {
		parts := make([]string, len(seats))
		for i, seat := range seats {
			parts[i] = string(seat)
		}
		text = strings.Join(parts, ", ")
	}
	total := s.Total()
	return Summary{
		Seats:     seats,
		SeatsText: text,
		Total:     total,
		TotalText: FormatRupiah(total),
	}
}

// Request builds the POST /bookings body from the current selection.
func (s *Session) Request() (model.BookingRequest, error) {
	if len(s.selected) == 0 {
		return model.BookingRequest{}, ErrNoSeats
	}
	seats := make([]string, len(s.selected))
	for i, seat := range s.selected {
		seats[i] = string(seat)
	}
	return model.BookingRequest{
		ScheduleId: s.schedule.Id,
		Seats:      seats,
		TotalPrice: s.Total(),
	}, nil
}

// BeginSubmit moves the session to Submitting and returns the attempt to send.
func (s *Session) BeginSubmit() (Attempt, error) {
	switch s.state {
	case StateSubmitting:
		return Attempt{}, ErrSubmitting
	case StateSucceeded, StateClosed, StateIdle:
		return Attempt{}, ErrSessionClosed
	}
	req, err := s.Request()
	if err != nil {
		return Attempt{}, err
	}
	s.seq++
	s.state = StateSubmitting
	return Attempt{Token: Token{SessionID: s.id, Seq: s.seq}, Request: req}, nil
}

// Resolve applies the result of a submission. Failures return the session
// to SeatsSelecting with the selection intact.
func (s *Session) Resolve(token Token, result model.BookingResult, err error) Outcome {
	if token.SessionID != s.id || token.Seq != s.seq || s.state != StateSubmitting {
		return Outcome{Kind: OutcomeStale}
	}
	if err != nil || !result.Success {
		s.state = StateSeatsSelecting
		return Outcome{Kind: OutcomeFailed, Message: failureMessage(result, err)}
	}
	s.state = StateSucceeded
	s.selected = nil
	return Outcome{Kind: OutcomeSucceeded, Message: result.Message, Booking: result.Booking}
}

// Close tears the session down. Late responses resolve as stale.
func (s *Session) Close() {
	s.state = StateClosed
	s.selected = nil
}

// failureMessage keeps transport details out of the UI; the controller logs
// the full error.
func failureMessage(result model.BookingResult, err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return NetworkErrorMessage
	}
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			return msg
		}
		return FallbackMessage
	}
	if msg := strings.TrimSpace(result.Message); msg != "" {
		return msg
	}
	return FallbackMessage
}

package tui

import (
	"fmt"
	"strings"

	"cinemox-cli/booking"
	"cinemox-cli/model"

	"github.com/charmbracelet/bubbles/list"
)

var (
	weekdaysID = []string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}
	monthsID   = []string{"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli", "Agustus", "September", "Oktober", "November", "Desember"}
)

type movieItem struct {
	movie  model.Movie
	recent bool
}

func (m movieItem) Title() string {
	if m.recent {
		return m.movie.Title + " •"
	}
	return m.movie.Title
}

func (m movieItem) Description() string {
	return movieMeta(m.movie)
}

func (m movieItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{m.movie.Title, m.movie.Genre, m.movie.Director}, " "))
}

type scheduleItem struct {
	schedule model.Schedule
}

func (s scheduleItem) Title() string {
	return fmt.Sprintf("%s • %s", formatShowDate(s.schedule), s.schedule.TimeLabel())
}

func (s scheduleItem) Description() string {
	parts := []string{}
	if s.schedule.Theater != "" {
		parts = append(parts, s.schedule.Theater)
	}
	parts = append(parts, booking.FormatRupiah(s.schedule.Price))
	parts = append(parts, fmt.Sprintf("%d seats available", s.schedule.AvailableSeats))
	return strings.Join(parts, " • ")
}

func (s scheduleItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{s.schedule.Theater, s.schedule.ShowDate, s.schedule.ShowTime, formatShowDate(s.schedule)}, " "))
}

type bookingItem struct {
	booking model.Booking
}

func (b bookingItem) Title() string {
	return fmt.Sprintf("%s • %s", firstNonEmpty(b.booking.BookingCode, b.booking.Id), b.booking.MovieTitle)
}

func (b bookingItem) Description() string {
	sch := model.Schedule{ShowDate: b.booking.ShowDate, ShowTime: b.booking.ShowTime}
	parts := []string{
		b.booking.Theater,
		fmt.Sprintf("%s %s", formatShowDate(sch), sch.TimeLabel()),
		strings.Join(b.booking.Seats, ", "),
		booking.FormatRupiah(b.booking.TotalPrice),
	}
	if b.booking.Status != "" {
		parts = append(parts, b.booking.Status)
	}
	return strings.Join(parts, " • ")
}

func (b bookingItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{b.booking.BookingCode, b.booking.MovieTitle, b.booking.Theater}, " "))
}

func buildMovieItems(movies []model.Movie, recent map[string]bool) []list.Item {
	items := make([]list.Item, 0, len(movies))
	for _, mv := range movies {
		items = append(items, movieItem{movie: mv, recent: recent[mv.Id]})
	}
	return items
}

func buildScheduleItems(schedules []model.Schedule) []list.Item {
	items := make([]list.Item, 0, len(schedules))
	for _, sch := range schedules {
		items = append(items, scheduleItem{schedule: sch})
	}
	return items
}

func buildBookingItems(bookings []model.Booking) []list.Item {
	items := make([]list.Item, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, bookingItem{booking: b})
	}
	return items
}

func movieMeta(mv model.Movie) string {
	parts := []string{}
	if mv.Genre != "" {
		parts = append(parts, mv.Genre)
	}
	if mv.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%d min", mv.Duration))
	}
	if mv.Rating != "" {
		parts = append(parts, mv.Rating)
	}
	if mv.ImdbRating > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f", mv.ImdbRating))
	}
	if year := mv.ReleaseYear(); year > 0 {
		parts = append(parts, fmt.Sprintf("%d", year))
	}
	return strings.Join(parts, " • ")
}

// formatShowDate renders the show date the way tickets print it,
// e.g. "Senin, 20 Oktober 2026". Unparseable dates are shown raw.
func formatShowDate(sch model.Schedule) string {
	date, ok := sch.Date()
	if !ok {
		return sch.ShowDate
	}
	return fmt.Sprintf("%s, %d %s %d", weekdaysID[date.Weekday()], date.Day(), monthsID[date.Month()-1], date.Year())
}

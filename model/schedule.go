package model

import (
	"encoding/json"
	"strings"
	"time"
)

type Schedule struct {
	Id             string   `json:"id"`
	MovieId        string   `json:"movieId"`
	MovieTitle     string   `json:"movieTitle"`
	Theater        string   `json:"theater"`
	ShowDate       string   `json:"showDate"`
	ShowTime       string   `json:"showTime"`
	Price          float64  `json:"price"`
	TotalSeats     int      `json:"totalSeats"`
	AvailableSeats int      `json:"availableSeats"`
	BookedSeats    SeatList `json:"bookedSeats"`
}

// Date parses ShowDate, accepting both plain dates and full timestamps.
func (s Schedule) Date() (time.Time, bool) {
	raw := strings.TrimSpace(s.ShowDate)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TimeLabel trims the seconds off ShowTime ("19:30:00" -> "19:30").
func (s Schedule) TimeLabel() string {
	raw := strings.TrimSpace(s.ShowTime)
	if len(raw) == len("15:04:05") && strings.Count(raw, ":") == 2 {
		return raw[:5]
	}
	return raw
}

// SeatList is the booked-seat set of a schedule. Decoding never fails: a
// missing, null or non-array value becomes an empty list and non-string
// entries are skipped, so corrupt upstream data degrades to "no seats booked".
type SeatList []string

func (l *SeatList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = nil
		return nil
	}
	out := make(SeatList, 0, len(raw))
	for _, item := range raw {
		var label string
		if err := json.Unmarshal(item, &label); err != nil {
			continue
		}
		if label = strings.TrimSpace(label); label != "" {
			out = append(out, label)
		}
	}
	*l = out
	return nil
}

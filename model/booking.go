package model

// BookingRequest is the body of POST /bookings.
type BookingRequest struct {
	ScheduleId string   `json:"scheduleId"`
	Seats      []string `json:"seats"`
	TotalPrice float64  `json:"totalPrice"`
}

// BookingResult is the envelope returned by POST /bookings.
type BookingResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Booking *Booking `json:"data,omitempty"`
}

type Booking struct {
	Id           string    `json:"id"`
	UserId       string    `json:"userId"`
	UserEmail    string    `json:"userEmail"`
	UserName     string    `json:"userName"`
	ScheduleId   string    `json:"scheduleId"`
	MovieId      string    `json:"movieId"`
	MovieTitle   string    `json:"movieTitle"`
	Theater      string    `json:"theater"`
	ShowDate     string    `json:"showDate"`
	ShowTime     string    `json:"showTime"`
	Seats        []string  `json:"seats"`
	TotalTickets int       `json:"totalTickets"`
	TotalPrice   float64   `json:"totalPrice"`
	BookingCode  string    `json:"bookingCode"`
	BarcodeUrl   string    `json:"barcodeUrl"`
	Status       string    `json:"status"`
	BookingDate  LocalTime `json:"bookingDate"`
	CreatedAt    LocalTime `json:"createdAt"`
}

package model

// AdminStats is the dashboard summary from GET /admin/statistics.
// MonthlyBookings counts bookings since the first day of the current month.
type AdminStats struct {
	TotalUsers      int64   `json:"totalUsers"`
	TotalMovies     int64   `json:"totalMovies"`
	TotalSchedules  int64   `json:"totalSchedules"`
	TotalBookings   int64   `json:"totalBookings"`
	MonthlyBookings int64   `json:"monthlyBookings"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// MonthlyStats is keyed by month labels such as "OCTOBER 2026".
type MonthlyStats struct {
	BookingsByMonth map[string]int64   `json:"bookingsByMonth"`
	RevenueByMonth  map[string]float64 `json:"revenueByMonth"`
}

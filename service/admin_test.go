package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetStatistics_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/statistics":
			_, _ = w.Write([]byte(`{"success":true,"data":{"totalUsers":12,"totalMovies":5,"totalSchedules":30,"totalBookings":44,"monthlyBookings":9,"totalRevenue":2200000.0}}`))
		case "/admin/statistics/bookings-by-month":
			_, _ = w.Write([]byte(`{"success":true,"data":{"bookingsByMonth":{"SEPTEMBER 2026":35,"OCTOBER 2026":9},"revenueByMonth":{"SEPTEMBER 2026":1750000.0,"OCTOBER 2026":450000.0}}}`))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server)
	stats, err := client.GetStatistics(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if stats.TotalUsers != 12 || stats.MonthlyBookings != 9 || stats.TotalRevenue != 2200000 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	monthly, err := client.GetBookingsByMonth(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if monthly.BookingsByMonth["OCTOBER 2026"] != 9 || monthly.RevenueByMonth["SEPTEMBER 2026"] != 1750000 {
		t.Fatalf("unexpected monthly stats: %+v", monthly)
	}
}

func TestGetUsersAndToggle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/admin/users":
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"u1","email":"admin@cinemox.com","roles":["ADMIN"],"active":true},{"id":"u2","email":"budi@example.com","roles":["USER"],"active":true}]}`))
		case r.Method == http.MethodPut && r.URL.Path == "/admin/users/u2/toggle-active":
			_, _ = w.Write([]byte(`{"success":true,"message":"User status updated","data":{"id":"u2","email":"budi@example.com","roles":["USER"],"active":false}}`))
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server)
	users, err := client.GetUsers(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(users) != 2 || !users[0].IsAdmin() {
		t.Fatalf("unexpected users: %+v", users)
	}
	user, err := client.ToggleUserActive(context.Background(), "u2")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if user.Id != "u2" || user.Active {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestGetAllBookings_IncludesOwner(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/bookings" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"b1","userId":"u2","userEmail":"budi@example.com","bookingCode":"CNX-1","seats":["A2"],"totalPrice":50000,"status":"CONFIRMED","createdAt":"2026-10-18T20:15:00"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	bookings, err := client.GetAllBookings(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(bookings) != 1 || bookings[0].UserId != "u2" || bookings[0].CreatedAt.Day() != 18 {
		t.Fatalf("unexpected bookings: %+v", bookings)
	}
}

func TestDeleteResource(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"success":true,"message":"Schedule deleted successfully","data":null}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	msg, err := client.DeleteResource(context.Background(), AdminSchedules, "s 1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/admin/schedules/s%201" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if msg != "Schedule deleted successfully" {
		t.Fatalf("unexpected message %q", msg)
	}
	if _, err := client.DeleteResource(context.Background(), AdminResource("bookings"), "b1"); err == nil {
		t.Fatal("expected error for unknown resource")
	}
}

func TestAdmin_ForbiddenCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"message":"Access denied"}`))
	}))
	defer server.Close()

	client := newTestClient(server, WithToken(func() string { return "user-token" }))
	_, err := client.GetUsers(context.Background())
	if err == nil || err.Error() != "Access denied" {
		t.Fatalf("unexpected error: %v", err)
	}
	if IsUnauthorized(err) {
		t.Fatal("403 must not log the user out")
	}
}

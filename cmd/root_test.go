package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"cinemox-cli/model"
	"cinemox-cli/service"
	"cinemox-cli/store"
)

const scheduleJSON = `{"success":true,"data":{"id":"s1","movieId":"m1","movieTitle":"Dune","theater":"Theater 1","showDate":"2026-10-19","showTime":"19:30:00","price":50000,"totalSeats":50,"availableSeats":49,"bookedSeats":["A1"]}}`

func setTestEnv(t *testing.T, token string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", root)
	t.Setenv("CINEMOX_TOKEN", token)
	t.Setenv("CINEMOX_API_URL", "")
}

func run(t *testing.T, server *httptest.Server, args ...string) (string, string, error) {
	t.Helper()
	return runWithInput(t, server, "", args...)
}

func runWithInput(t *testing.T, server *httptest.Server, input string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd("1.0.0", "abc123")
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(input))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	base := []string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}
	if server != nil {
		base = append(base, "--api-url", server.URL+"/api")
	}
	root.SetArgs(append(args, base...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	setTestEnv(t, "")
	out, _, err := run(t, nil, "version")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if out != "cinemox 1.0.0 (abc123)\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestMovies_NowShowing(t *testing.T) {
	setTestEnv(t, "")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/movies/now-showing" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"m1","title":"Dune","genre":"Sci-Fi","duration":166,"releaseDate":"2024-03-01T00:00:00"}]}`))
	}))
	defer server.Close()

	out, _, err := run(t, server, "movies", "--now-showing")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	for _, want := range []string{"Dune", "Sci-Fi", "166 min", "2024"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMovies_ExclusiveFlags(t *testing.T) {
	setTestEnv(t, "")
	if _, _, err := run(t, nil, "movies", "--now-showing", "--coming-soon"); err == nil {
		t.Fatal("expected error for exclusive flags")
	}
}

func TestSchedules(t *testing.T) {
	setTestEnv(t, "")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/movies/m1":
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"m1","title":"Dune","genre":"Sci-Fi","duration":166}}`))
		case "/api/schedules/movie/m1":
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"s1","theater":"Theater 1","showDate":"2026-10-19","showTime":"19:30:00","price":50000,"totalSeats":50,"availableSeats":49}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	out, _, err := run(t, server, "schedules", "m1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	for _, want := range []string{"Dune (Sci-Fi, 166 min)", "19:30", "Rp 50.000", "49/50", "s1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSeats_RendersGrid(t *testing.T) {
	setTestEnv(t, "")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(scheduleJSON))
	}))
	defer server.Close()

	out, _, err := run(t, server, "seats", "s1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	lines := strings.Split(out, "\n")
	var firstRow string
	for _, line := range lines {
		if strings.HasPrefix(line, "XX") {
			firstRow = line
			break
		}
	}
	if !strings.Contains(firstRow, "A2") || !strings.Contains(firstRow, "A10") {
		t.Fatalf("unexpected first row %q in:\n%s", firstRow, out)
	}
	if !strings.Contains(out, "E10") || strings.Contains(out, "F1") {
		t.Fatalf("expected a 5x10 grid:\n%s", out)
	}
}

func TestBook_Success(t *testing.T) {
	setTestEnv(t, "test-token")
	var posted model.BookingRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/schedules/s1":
			_, _ = w.Write([]byte(scheduleJSON))
		case r.Method == http.MethodPost && r.URL.Path == "/api/bookings":
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("unexpected auth header %q", got)
			}
			if r.Header.Get(service.IdempotencyKeyHeader) == "" {
				t.Error("expected an idempotency key")
			}
			if err := json.NewDecoder(r.Body).Decode(&posted); err != nil {
				t.Errorf("decode body: %v", err)
			}
			_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"id":"b1","bookingCode":"CNX-123","movieTitle":"Dune","theater":"Theater 1","showDate":"2026-10-19","showTime":"19:30:00","seats":["A2","A3"],"totalPrice":100000,"status":"CONFIRMED"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	out, stderr, err := run(t, server, "book", "s1", "--seats", "a2,A3", "--yes")
	if err != nil {
		t.Fatalf("expected nil error, got %v (stderr %s)", err, stderr)
	}
	if posted.ScheduleId != "s1" || strings.Join(posted.Seats, ",") != "A2,A3" || posted.TotalPrice != 100000 {
		t.Fatalf("unexpected request: %+v", posted)
	}
	for _, want := range []string{"Selected Seats: A2, A3", "Total: Rp 100.000", "CNX-123"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if !strings.Contains(stderr, "Booking successful!") {
		t.Fatalf("expected success notification, got %q", stderr)
	}
}

func TestBook_FailureMessageShown(t *testing.T) {
	setTestEnv(t, "test-token")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"success":false,"message":"Seat taken"}`))
			return
		}
		_, _ = w.Write([]byte(scheduleJSON))
	}))
	defer server.Close()

	_, stderr, err := run(t, server, "book", "s1", "--seats", "A2", "--yes")
	if err != errBookingFailed {
		t.Fatalf("expected booking failure, got %v", err)
	}
	if !strings.Contains(stderr, "Seat taken") {
		t.Fatalf("expected server message, got %q", stderr)
	}
}

func TestBook_RejectsBookedSeat(t *testing.T) {
	setTestEnv(t, "test-token")
	posts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
		}
		_, _ = w.Write([]byte(scheduleJSON))
	}))
	defer server.Close()

	_, _, err := run(t, server, "book", "s1", "--seats", "A1", "--yes")
	if err == nil || !strings.Contains(err.Error(), "already booked") {
		t.Fatalf("expected booked seat error, got %v", err)
	}
	_, _, err = run(t, server, "book", "s1", "--seats", "Z9", "--yes")
	if err == nil || !strings.Contains(err.Error(), "not on this screen") {
		t.Fatalf("expected off-grid error, got %v", err)
	}
	if posts != 0 {
		t.Fatalf("expected no booking request, got %d", posts)
	}
}

func TestBook_RequiresLogin(t *testing.T) {
	setTestEnv(t, "")
	_, _, err := run(t, nil, "book", "s1", "--seats", "A2", "--yes")
	if err == nil || !strings.Contains(err.Error(), "please login first") {
		t.Fatalf("expected login error, got %v", err)
	}
}

func TestBookings_Unauthorized(t *testing.T) {
	setTestEnv(t, "stale-token")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, _, err := run(t, server, "bookings")
	if !service.IsUnauthorized(err) {
		t.Fatalf("expected session expired, got %v", err)
	}
}

func TestWhoami_AdminHint(t *testing.T) {
	setTestEnv(t, "")
	if err := store.SaveAuth(model.AuthSession{Token: "opaque", Email: "admin@cinemox.com", FullName: "Admin", Role: "ADMIN"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	out, _, err := run(t, nil, "whoami")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "role=ADMIN") || !strings.Contains(out, "cinemox admin --help") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestWhoami_LoggedOut(t *testing.T) {
	setTestEnv(t, "")
	out, _, err := run(t, nil, "whoami")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if strings.TrimSpace(out) != "Not logged in" {
		t.Fatalf("unexpected output %q", out)
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"cinemox-cli/model"
)

func newTestClient(server *httptest.Server, opts ...Option) *Client {
	client := NewClient(server.URL, server.Client(), opts...)
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond
	return client
}

func TestDo_Non2xxCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Schedule not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.do(context.Background(), http.MethodGet, "/fail", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Schedule not found" {
		t.Fatalf("unexpected error: %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected APIError with 400, got %#v", err)
	}
}

func TestDo_Non2xxWithoutMessageUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html>nope</html>"))
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.do(context.Background(), http.MethodGet, "/missing", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != fallbackMessage {
		t.Fatalf("expected fallback message, got %q", err.Error())
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDo_RetriesTransientServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt32(&attempts, 1)
		if current < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("retry later"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "data": {"ok": true}}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	client.maxAttempts = 3

	var out map[string]any
	if err := client.getData(context.Background(), "/retry", &out); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if ok, _ := out["ok"].(bool); !ok {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestDo_DoesNotRetryOnClientErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer server.Close()

	client := newTestClient(server)
	client.maxAttempts = 3

	_, err := client.do(context.Background(), http.MethodGet, "/bad-request", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_NeverRetriesWrites(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server)
	client.maxAttempts = 3

	_, err := client.do(context.Background(), http.MethodPost, "/bookings", map[string]string{"a": "b"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := newTestClient(server, WithToken(func() string { return "abc.def.ghi" }))
	if _, err := client.do(context.Background(), http.MethodGet, "/movies", nil, nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if gotAuth != "Bearer abc.def.ghi" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
	if gotType != "application/json" {
		t.Fatalf("unexpected Content-Type header: %q", gotType)
	}

	client = newTestClient(server, WithToken(func() string { return "" }))
	if _, err := client.do(context.Background(), http.MethodGet, "/movies", nil, nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestDo_UnauthorizedForcesLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	loggedOut := false
	client := newTestClient(server,
		WithToken(func() string { return "expired" }),
		WithUnauthorizedHandler(func() { loggedOut = true }),
	)
	_, err := client.do(context.Background(), http.MethodGet, "/bookings/my-bookings", nil, nil)
	if !IsUnauthorized(err) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if !loggedOut {
		t.Fatal("expected unauthorized handler to run")
	}
}

func TestDo_EmptyAndNonJSONBodiesAreSuccess(t *testing.T) {
	bodies := []string{"", "   ", "OK", "<html></html>"}
	for _, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		client := newTestClient(server)
		env, err := client.do(context.Background(), http.MethodPost, "/anything", nil, nil)
		server.Close()
		if err != nil {
			t.Fatalf("body %q: expected nil error, got %v", body, err)
		}
		if !env.Success {
			t.Fatalf("body %q: expected success envelope", body)
		}
	}
}

func TestDo_OversizedBodyIsAnError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"success":true,"data":"`))
		_, _ = w.Write([]byte(strings.Repeat("x", maxBodyBytes)))
		_, _ = w.Write([]byte(`"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	env, err := client.do(context.Background(), http.MethodGet, "/movies", nil, nil)
	if err == nil {
		t.Fatalf("expected error, got envelope with %d bytes of data", len(env.Data))
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
}

func TestDo_BodyAtLimitIsRead(t *testing.T) {
	payload := `{"success":true,"data":"` + strings.Repeat("x", maxBodyBytes-len(`{"success":true,"data":""}`)) + `"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	client := newTestClient(server)
	env, err := client.do(context.Background(), http.MethodGet, "/movies", nil, nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !env.Success || len(env.Data) != maxBodyBytes-len(`{"success":true,"data":}`) {
		t.Fatalf("unexpected envelope: success=%v len=%d", env.Success, len(env.Data))
	}
}

func TestParseEnvelope_BareValues(t *testing.T) {
	env := parseEnvelope([]byte(`[{"id":"1"}]`))
	if !env.Success || string(env.Data) != `[{"id":"1"}]` {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	env = parseEnvelope([]byte(`{"id":"1","title":"x"}`))
	if !env.Success || !strings.Contains(string(env.Data), `"title"`) {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	env = parseEnvelope([]byte(`{"success":false,"message":"nope"}`))
	if env.Success || env.Message != "nope" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestGetData_FailureEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Booking not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.GetBookingByCode(context.Background(), "CNX-404")
	if err == nil || err.Error() != "Booking not found" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetSchedulesByMovie_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schedules/movie/m1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "success": true,
  "message": "Schedules retrieved",
  "data": [
    {"id": "s1", "movieId": "m1", "theater": "Theater 1", "showDate": "2026-10-20", "showTime": "19:30:00",
     "price": 50000, "totalSeats": 50, "availableSeats": 48, "bookedSeats": ["A1", "A2"]},
    {"id": "s2", "movieId": "m1", "theater": "Theater 2", "showDate": "2026-10-20", "showTime": "21:00:00",
     "price": 45000, "totalSeats": 50, "availableSeats": 50, "bookedSeats": "corrupt"}
  ]
}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	schedules, err := client.GetSchedulesByMovie(context.Background(), "m1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(schedules) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(schedules))
	}
	if len(schedules[0].BookedSeats) != 2 {
		t.Fatalf("unexpected booked seats: %+v", schedules[0].BookedSeats)
	}
	if len(schedules[1].BookedSeats) != 0 {
		t.Fatalf("corrupt booked seats should decode empty, got %+v", schedules[1].BookedSeats)
	}
	if schedules[0].TimeLabel() != "19:30" {
		t.Fatalf("unexpected time label: %s", schedules[0].TimeLabel())
	}
}

func TestCreateBooking_SendsRequestOnce(t *testing.T) {
	var got model.BookingRequest
	var key string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/bookings" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		key = r.Header.Get(IdempotencyKeyHeader)
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Booking successful","data":{"id":"b1","bookingCode":"CNX-ABC","seats":["A2","A3"]}}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	req := model.BookingRequest{ScheduleId: "s1", Seats: []string{"A2", "A3"}, TotalPrice: 100000}
	result, err := client.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !result.Success || result.Booking == nil || result.Booking.BookingCode != "CNX-ABC" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got.ScheduleId != "s1" || len(got.Seats) != 2 || got.TotalPrice != 100000 {
		t.Fatalf("unexpected request body: %+v", got)
	}
	if key == "" {
		t.Fatal("expected idempotency key header")
	}
}

func TestCreateBooking_FailureFlagIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Seat taken"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	result, err := client.CreateBooking(context.Background(), model.BookingRequest{ScheduleId: "s1", Seats: []string{"A2"}})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Success || result.Message != "Seat taken" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", nil)
	if _, err := client.CreateBooking(context.Background(), model.BookingRequest{Seats: []string{"A1"}}); err == nil {
		t.Fatal("expected error for empty schedule id")
	}
	if _, err := client.CreateBooking(context.Background(), model.BookingRequest{ScheduleId: "s1"}); err == nil {
		t.Fatal("expected error for empty seats")
	}
}

func TestLogin_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var body model.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "rina@example.com" || body.Password != "secret" {
			t.Fatalf("unexpected credentials: %+v", body)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"t0k","email":"rina@example.com","fullName":"Rina","role":"USER"}}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	session, err := client.Login(context.Background(), " rina@example.com ", "secret")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if session.Token != "t0k" || session.FullName != "Rina" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestLogin_BadCredentialsIsNotSessionExpiry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid email or password"}`))
	}))
	defer server.Close()

	client := newTestClient(server, WithUnauthorizedHandler(func() { t.Fatal("no session to expire") }))
	_, err := client.Login(context.Background(), "rina@example.com", "wrong")
	if err == nil || err.Error() != "Invalid email or password" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetMovie_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movies/m1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"m1","title":"Dune","duration":166,"cast":["Timothee"]}}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	movie, err := client.GetMovie(context.Background(), "m1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if movie.Title != "Dune" || movie.Duration != 166 {
		t.Fatalf("unexpected movie: %+v", movie)
	}
}

func TestSearchMovies_EscapesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movies/search" || r.URL.Query().Get("query") != "star wars" {
			t.Fatalf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"m9","title":"Star Wars"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	movies, err := client.SearchMovies(context.Background(), "star wars")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("expected 1 movie, got %d", len(movies))
	}
}

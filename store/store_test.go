package store

import (
	"testing"
	"time"

	"cinemox-cli/model"

	"github.com/golang-jwt/jwt/v5"
)

func setTestConfigDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", root)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	return signedTokenWithRole(t, exp, "USER")
}

func signedTokenWithRole(t *testing.T, exp time.Time, role string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "rina@example.com", "exp": exp.Unix()}
	if role != "" {
		claims["role"] = role
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuth_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	if IsLoggedIn() {
		t.Fatal("expected logged out before any login")
	}

	token := signedToken(t, time.Now().Add(time.Hour))
	if err := SaveAuth(model.AuthSession{Token: token, Email: "rina@example.com", FullName: "Rina", Role: "USER"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	session, err := LoadAuth()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if session.FullName != "Rina" || session.Token != token {
		t.Fatalf("unexpected session: %+v", session)
	}
	if Token() != token {
		t.Fatal("expected stored token")
	}

	if err := ClearAuth(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if IsLoggedIn() {
		t.Fatal("expected logged out after clear")
	}
	if err := ClearAuth(); err != nil {
		t.Fatalf("clearing twice should not fail, got %v", err)
	}
}

func TestToken_ExpiredIsIgnored(t *testing.T) {
	setTestConfigDir(t)

	token := signedToken(t, time.Now().Add(-time.Minute))
	if err := SaveAuth(model.AuthSession{Token: token}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if Token() != "" {
		t.Fatal("expected expired token to be ignored")
	}
}

func TestTokenExpired_OpaqueToken(t *testing.T) {
	if TokenExpired("not-a-jwt", time.Now()) {
		t.Fatal("opaque tokens are left to the server")
	}
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := TokenExpiry(signedToken(t, exp))
	if !ok || !got.Equal(exp) {
		t.Fatalf("unexpected expiry: %v %v", got, ok)
	}
}

func TestRole(t *testing.T) {
	setTestConfigDir(t)
	exp := time.Now().Add(time.Hour)

	if got := Role(signedTokenWithRole(t, exp, "ADMIN")); got != "ADMIN" {
		t.Fatalf("expected role from claim, got %q", got)
	}

	noClaim := signedTokenWithRole(t, exp, "")
	if got := Role(noClaim); got != "" {
		t.Fatalf("expected no role without claim or session, got %q", got)
	}
	if err := SaveAuth(model.AuthSession{Token: noClaim, Role: "ADMIN"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := Role(noClaim); got != "ADMIN" {
		t.Fatalf("expected role from stored session, got %q", got)
	}
	if got := Role("some-other-token"); got != "" {
		t.Fatalf("stored role must not apply to another token, got %q", got)
	}
}

func TestSaveAuth_RequiresToken(t *testing.T) {
	setTestConfigDir(t)
	if err := SaveAuth(model.AuthSession{Email: "x@example.com"}); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestRememberMovie_MovesToFront(t *testing.T) {
	setTestConfigDir(t)

	for _, id := range []string{"m1", "m2", "m3", "m1"} {
		if err := RememberMovie(model.Movie{Id: id, Title: "Movie " + id}); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	recents, err := LoadRecentMovies()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(recents) != 3 || recents[0].ID != "m1" || recents[1].ID != "m3" {
		t.Fatalf("unexpected history: %+v", recents)
	}
}

func TestMovieCache_Fresh(t *testing.T) {
	setTestConfigDir(t)

	if err := SaveMovieCache("now-showing", []model.Movie{{Id: "m1", Title: "Dune"}}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	movies, fresh, err := LoadMovieCache("now-showing")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !fresh || len(movies) != 1 {
		t.Fatalf("unexpected cache: fresh=%v movies=%+v", fresh, movies)
	}

	movies, fresh, err = LoadMovieCache("coming-soon")
	if err != nil || fresh || len(movies) != 0 {
		t.Fatalf("expected empty stale cache, got %v %v %v", movies, fresh, err)
	}
}

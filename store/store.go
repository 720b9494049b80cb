package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cinemox-cli/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	appDir          = "cinemox-cli"
	movieCacheTTL   = 10 * time.Minute
	maxRecentMovies = 8
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

type RecentMovie struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type movieHistory struct {
	Movies []RecentMovie `json:"movies"`
}

// LoadAuth returns the stored login, or a zero session when nobody is logged in.
func LoadAuth() (model.AuthSession, error) {
	path, err := configPath("session.json")
	if err != nil {
		return model.AuthSession{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.AuthSession{}, nil
		}
		return model.AuthSession{}, err
	}
	var session model.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return model.AuthSession{}, errors.New("invalid session format")
	}
	return session, nil
}

func SaveAuth(session model.AuthSession) error {
	if strings.TrimSpace(session.Token) == "" {
		return errors.New("token is required")
	}
	path, err := configPath("session.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// ClearAuth logs out. Removing a session that does not exist is not an error.
func ClearAuth() error {
	path, err := configPath("session.json")
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Token returns the stored bearer token, or "" when it is missing or expired.
func Token() string {
	session, err := LoadAuth()
	if err != nil || session.Token == "" {
		return ""
	}
	if TokenExpired(session.Token, time.Now()) {
		return ""
	}
	return session.Token
}

func IsLoggedIn() bool {
	return Token() != ""
}

// TokenExpiry reads the exp claim without verifying the signature; the
// client never holds the signing key.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// TokenRole reads the role claim the server signs into its tokens, without
// verifying the signature.
func TokenRole(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// Role resolves the role behind token: the token's own claim first, then the
// stored login when token is the stored one.
func Role(token string) string {
	if role := TokenRole(token); role != "" {
		return role
	}
	session, err := LoadAuth()
	if err != nil || session.Token == "" || session.Token != token {
		return ""
	}
	return session.Role
}

// TokenExpired reports whether token carries an exp claim in the past.
// Opaque tokens are left for the server to judge.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && !now.Before(exp)
}

func LoadMovieCache(kind string) ([]model.Movie, bool, error) {
	path, err := cachePath(fmt.Sprintf("movies_%s.json", kind))
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Movie](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= movieCacheTTL, nil
}

func SaveMovieCache(kind string, movies []model.Movie) error {
	path, err := cachePath(fmt.Sprintf("movies_%s.json", kind))
	if err != nil {
		return err
	}
	return saveCache(path, movies)
}

func LoadRecentMovies() ([]RecentMovie, error) {
	path, err := configPath("movies.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history movieHistory
	if err := json.Unmarshal(data, &history); err == nil {
		return history.Movies, nil
	}
	return nil, errors.New("invalid movie history format")
}

func RememberMovie(movie model.Movie) error {
	if strings.TrimSpace(movie.Id) == "" {
		return errors.New("movie id is required")
	}
	history, _ := LoadRecentMovies()
	next := []RecentMovie{{ID: movie.Id, Title: movie.Title}}

	for _, existing := range history {
		if existing.ID == movie.Id {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentMovies {
			break
		}
	}

	return saveRecentMovies(next)
}

// LogPath is where the application log is written.
func LogPath() (string, error) {
	return cachePath("cinemox.log")
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func saveRecentMovies(movies []RecentMovie) error {
	path, err := configPath("movies.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	history := movieHistory{Movies: movies}
	payload, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

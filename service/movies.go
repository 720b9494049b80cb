package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"cinemox-cli/model"
)

// GetMovies returns the full catalog.
func (c *Client) GetMovies(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	if err := c.getData(ctx, "/movies", &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (c *Client) GetNowShowing(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	if err := c.getData(ctx, "/movies/now-showing", &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (c *Client) GetComingSoon(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	if err := c.getData(ctx, "/movies/coming-soon", &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetMovie fetches one movie by id.
func (c *Client) GetMovie(ctx context.Context, movieID string) (model.Movie, error) {
	if strings.TrimSpace(movieID) == "" {
		return model.Movie{}, errors.New("movie id is required")
	}
	var movie model.Movie
	if err := c.getData(ctx, fmt.Sprintf("/movies/%s", url.PathEscape(movieID)), &movie); err != nil {
		return model.Movie{}, err
	}
	if movie.Id == "" {
		return model.Movie{}, errors.New("movie not found")
	}
	return movie, nil
}

// SearchMovies runs a free-text search over titles.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]model.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is required")
	}
	var movies []model.Movie
	if err := c.getData(ctx, "/movies/search?query="+url.QueryEscape(query), &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

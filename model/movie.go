package model

type Movie struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genre       string    `json:"genre"`
	Duration    int       `json:"duration"`
	Director    string    `json:"director"`
	Cast        []string  `json:"cast"`
	PosterUrl   string    `json:"posterUrl"`
	TrailerUrl  string    `json:"trailerUrl"`
	Rating      string    `json:"rating"`
	ImdbRating  float64   `json:"imdbRating"`
	ReleaseDate LocalTime `json:"releaseDate"`
	NowShowing  bool      `json:"nowShowing"`
	ComingSoon  bool      `json:"comingSoon"`
}

// ReleaseYear returns the release year, or 0 when the date is unknown.
func (m Movie) ReleaseYear() int {
	if m.ReleaseDate.IsZero() {
		return 0
	}
	return m.ReleaseDate.Year()
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cinemox-cli/booking"
	"cinemox-cli/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func newMoviesCmd(rt *env) *cobra.Command {
	var (
		nowShowing bool
		comingSoon bool
		search     string
	)
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "List movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			if nowShowing && comingSoon {
				return errors.New("--now-showing and --coming-soon are exclusive")
			}
			ctx, cancel := rt.context(cmd)
			defer cancel()

			var (
				movies []model.Movie
				err    error
			)
			switch {
			case strings.TrimSpace(search) != "":
				movies, err = rt.client.SearchMovies(ctx, search)
			case nowShowing:
				movies, err = rt.client.GetNowShowing(ctx)
			case comingSoon:
				movies, err = rt.client.GetComingSoon(ctx)
			default:
				movies, err = rt.client.GetMovies(ctx)
			}
			if err != nil {
				return err
			}
			if len(movies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No movies found")
				return nil
			}
			renderMovies(cmd.OutOrStdout(), movies)
			return nil
		},
	}
	cmd.Flags().BoolVar(&nowShowing, "now-showing", false, "only movies showing now")
	cmd.Flags().BoolVar(&comingSoon, "coming-soon", false, "only upcoming movies")
	cmd.Flags().StringVar(&search, "search", "", "search by title")
	return cmd
}

func renderMovies(out io.Writer, movies []model.Movie) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Title", "Genre", "Duration", "Rating", "IMDb", "Year"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 30},
	})
	for _, mv := range movies {
		year := ""
		if y := mv.ReleaseYear(); y > 0 {
			year = fmt.Sprintf("%d", y)
		}
		imdb := ""
		if mv.ImdbRating > 0 {
			imdb = fmt.Sprintf("%.1f", mv.ImdbRating)
		}
		t.AppendRow(table.Row{mv.Id, mv.Title, mv.Genre, fmt.Sprintf("%d min", mv.Duration), mv.Rating, imdb, year})
	}
	t.Render()
}

func newSchedulesCmd(rt *env) *cobra.Command {
	return &cobra.Command{
		Use:   "schedules [movieId]",
		Short: "List showtimes of a movie",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := rt.context(cmd)
			defer cancel()

			movieID := ""
			if len(args) == 1 {
				movieID = args[0]
			} else {
				movies, err := rt.client.GetNowShowing(ctx)
				if err != nil {
					return err
				}
				movieID, err = promptSelectMovie(movies)
				if err != nil {
					return err
				}
			}

			movie, err := rt.client.GetMovie(ctx, movieID)
			if err != nil {
				return err
			}
			schedules, err := rt.client.GetSchedulesByMovie(ctx, movieID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s, %d min)\n", movie.Title, movie.Genre, movie.Duration)
			if len(schedules) == 0 {
				fmt.Fprintln(out, "No schedules available for this movie")
				return nil
			}
			renderSchedules(out, schedules)
			return nil
		},
	}
}

func renderSchedules(out io.Writer, schedules []model.Schedule) {
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Date", "Time", "Theater", "Price", "Available", "Schedule ID"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	for _, sch := range schedules {
		t.AppendRow(table.Row{
			sch.ShowDate,
			sch.TimeLabel(),
			sch.Theater,
			booking.FormatRupiah(sch.Price),
			fmt.Sprintf("%d/%d", sch.AvailableSeats, booking.GridFor(sch.TotalSeats).Capacity),
			sch.Id,
		}, rowConfigAutoMerge)
	}
	t.Render()
}

func promptSelectMovie(movies []model.Movie) (string, error) {
	if len(movies) == 0 {
		return "", errors.New("no movies available")
	}
	titles := make([]string, len(movies))
	for i, mv := range movies {
		titles[i] = mv.Title
	}

	searcher := func(input string, index int) bool {
		return strings.Contains(strings.ToLower(titles[index]), strings.ToLower(strings.TrimSpace(input)))
	}

	selectMovie := promptui.Select{
		Label:    "Select Movie",
		Items:    titles,
		Size:     10,
		Searcher: searcher,
	}
	index, _, err := selectMovie.Run()
	if err != nil {
		return "", fmt.Errorf("invalid movie: %w", err)
	}
	return movies[index].Id, nil
}

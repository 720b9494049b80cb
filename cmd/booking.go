package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cinemox-cli/booking"
	"cinemox-cli/model"
	"cinemox-cli/notify"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var errBookingFailed = errors.New("booking failed")

func newSeatsCmd(rt *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seats <scheduleId>",
		Short: "Show the seat map of a showtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := rt.context(cmd)
			defer cancel()
			schedule, err := rt.client.GetSchedule(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s • %s • %s %s • %s\n\n", schedule.MovieTitle, schedule.Theater, schedule.ShowDate, schedule.TimeLabel(), booking.FormatRupiah(schedule.Price))
			renderSeatGrid(out, booking.GridFor(schedule.TotalSeats), schedule.BookedSeats)
			return nil
		},
	}
}

// renderSeatGrid prints a plain seat map: labels for free seats, XX for booked ones.
func renderSeatGrid(out io.Writer, grid booking.Grid, bookedSeats []string) {
	for _, row := range booking.Rows(booking.Render(grid, bookedSeats)) {
		cells := make([]string, len(row))
		for i, cell := range row {
			text := string(cell.Label)
			if cell.Booked {
				text = "XX"
			}
			cells[i] = fmt.Sprintf("%-3s", text)
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, " "), " "))
	}
	fmt.Fprintln(out, "\n"+strings.Repeat("─", grid.Cols*4-1))
	fmt.Fprintln(out, "SCREEN")
}

func newBookCmd(rt *env) *cobra.Command {
	var (
		seats []string
		yes   bool
	)
	cmd := &cobra.Command{
		Use:   "book <scheduleId>",
		Short: "Book seats for a showtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireLogin(); err != nil {
				return err
			}
			ctx, cancel := rt.context(cmd)
			defer cancel()

			schedule, err := rt.client.GetSchedule(ctx, args[0])
			if err != nil {
				return err
			}

			controller := booking.NewController(notify.Printer{Out: cmd.ErrOrStderr()}, rt.logger)
			var confirmed *model.Booking
			controller.OnBooked(func(outcome booking.Outcome) {
				confirmed = outcome.Booking
			})
			session := controller.Open(schedule)
			defer controller.Close()

			if err := selectSeats(controller, session, seats); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sum := session.Summary()
			fmt.Fprintf(out, "Selected Seats: %s\nTotal: %s\n", sum.SeatsText, sum.TotalText)

			if !yes {
				prompt := promptui.Prompt{Label: "Confirm booking", IsConfirm: true}
				if _, err := prompt.Run(); err != nil {
					return errors.New("booking cancelled")
				}
			}

			outcome, err := controller.Submit(ctx, rt.client)
			if err != nil {
				return err
			}
			if outcome.Kind != booking.OutcomeSucceeded {
				return errBookingFailed
			}
			if confirmed != nil {
				renderBookings(out, []model.Booking{*confirmed})
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&seats, "seats", nil, "seats to book, e.g. A1,A2")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// selectSeats toggles the requested seats on. Unknown or booked seats are
// rejected up front rather than silently skipped.
func selectSeats(controller *booking.Controller, session *booking.Session, seats []string) error {
	if len(seats) == 0 {
		return errors.New("use --seats to pick at least one seat")
	}
	for _, raw := range seats {
		label := booking.SeatLabel(strings.ToUpper(strings.TrimSpace(raw)))
		if label == "" {
			continue
		}
		if !session.Grid().Contains(label) {
			return fmt.Errorf("seat %s is not on this screen", label)
		}
		if session.IsBooked(label) {
			return fmt.Errorf("seat %s is already booked", label)
		}
		if session.IsSelected(label) {
			continue
		}
		controller.Toggle(label, false)
	}
	return nil
}

func newBookingsCmd(rt *env) *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List your bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireLogin(); err != nil {
				return err
			}
			ctx, cancel := rt.context(cmd)
			defer cancel()

			if code != "" {
				b, err := rt.client.GetBookingByCode(ctx, code)
				if err != nil {
					return err
				}
				renderBookings(cmd.OutOrStdout(), []model.Booking{b})
				return nil
			}
			bookings, err := rt.client.GetMyBookings(ctx)
			if err != nil {
				return err
			}
			if len(bookings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookings yet")
				return nil
			}
			renderBookings(cmd.OutOrStdout(), bookings)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "look up a single booking code")
	return cmd
}

func renderBookings(out io.Writer, bookings []model.Booking) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Code", "Movie", "Theater", "Show", "Seats", "Total", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 24},
	})
	for _, b := range bookings {
		show := model.Schedule{ShowDate: b.ShowDate, ShowTime: b.ShowTime}
		t.AppendRow(table.Row{
			b.BookingCode,
			b.MovieTitle,
			b.Theater,
			strings.TrimSpace(b.ShowDate + " " + show.TimeLabel()),
			strings.Join(b.Seats, ", "),
			booking.FormatRupiah(b.TotalPrice),
			b.Status,
		})
	}
	t.Render()
}

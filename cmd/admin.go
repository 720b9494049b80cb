package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"cinemox-cli/booking"
	"cinemox-cli/model"
	"cinemox-cli/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func newAdminCmd(rt *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin dashboard commands",
	}
	cmd.AddCommand(
		newAdminStatsCmd(rt),
		newAdminBookingsCmd(rt),
		newAdminSchedulesCmd(rt),
		newAdminUsersCmd(rt),
		newAdminToggleUserCmd(rt),
		newAdminDeleteCmd(rt),
	)
	return cmd
}

func newAdminStatsCmd(rt *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals and bookings per month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAdmin(); err != nil {
				return err
			}
			ctx, cancel := rt.context(cmd)
			defer cancel()

			stats, err := rt.client.GetStatistics(ctx)
			if err != nil {
				return err
			}
			monthly, err := rt.client.GetBookingsByMonth(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderStats(out, stats)
			fmt.Fprintln(out)
			renderMonthly(out, monthly)
			return nil
		},
	}
}

func renderStats(out io.Writer, stats model.AdminStats) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Users", "Movies", "Schedules", "Bookings", "This Month", "Revenue"})
	t.AppendRow(table.Row{
		stats.TotalUsers,
		stats.TotalMovies,
		stats.TotalSchedules,
		stats.TotalBookings,
		stats.MonthlyBookings,
		booking.FormatRupiah(stats.TotalRevenue),
	})
	t.Render()
}

func renderMonthly(out io.Writer, monthly model.MonthlyStats) {
	months := make([]string, 0, len(monthly.BookingsByMonth))
	for month := range monthly.BookingsByMonth {
		months = append(months, month)
	}
	for month := range monthly.RevenueByMonth {
		if _, ok := monthly.BookingsByMonth[month]; !ok {
			months = append(months, month)
		}
	}
	sortMonths(months)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Month", "Bookings", "Revenue"})
	for _, month := range months {
		t.AppendRow(table.Row{month, monthly.BookingsByMonth[month], booking.FormatRupiah(monthly.RevenueByMonth[month])})
	}
	t.Render()
}

// sortMonths orders labels like "OCTOBER 2026" by date. Labels that do not
// parse sort after the rest, alphabetically.
func sortMonths(months []string) {
	parse := func(label string) (time.Time, bool) {
		ts, err := time.Parse("January 2006", strings.TrimSpace(label))
		return ts, err == nil
	}
	sort.SliceStable(months, func(i, j int) bool {
		a, okA := parse(months[i])
		b, okB := parse(months[j])
		switch {
		case okA && okB:
			return a.Before(b)
		case okA != okB:
			return okA
		default:
			return months[i] < months[j]
		}
	})
}

func newAdminBookingsCmd(rt *env) *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List every booking",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAdmin(); err != nil {
				return err
			}
			ctx, cancel := rt.context(cmd)
			defer cancel()

			bookings, err := rt.client.GetAllBookings(ctx)
			if err != nil {
				return err
			}
			if len(bookings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookings yet")
				return nil
			}
			renderAllBookings(cmd.OutOrStdout(), bookings)
			return nil
		},
	}
}

func renderAllBookings(out io.Writer, bookings []model.Booking) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Code", "User", "Movie", "Show", "Seats", "Total", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 24},
	})
	for _, b := range bookings {
		show := model.Schedule{ShowDate: b.ShowDate, ShowTime: b.ShowTime}
		t.AppendRow(table.Row{
			b.BookingCode,
			firstNonEmpty(b.UserName, b.UserEmail, b.UserId),
			b.MovieTitle,
			strings.TrimSpace(b.ShowDate + " " + show.TimeLabel()),
			strings.Join(b.Seats, ", "),
			booking.FormatRupiah(b.TotalPrice),
			b.Status,
		})
	}
	t.Render()
}

func newAdminSchedulesCmd(rt *env) *cobra.Command {
	return &cobra.Command{
		Use:   "schedules",
		Short: "List every showtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAdmin(); err != nil {
				return err
			}
			ctx, cancel := rt.context(cmd)
			defer cancel()

			schedules, err := rt.client.GetAllSchedules(ctx)
			if err != nil {
				return err
			}
			if len(schedules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No schedules")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Movie", "Theater", "Date", "Time", "Price", "Available"})
			for _, sch := range schedules {
				t.AppendRow(table.Row{
					sch.Id,
					sch.MovieTitle,
					sch.Theater,
					sch.ShowDate,
					sch.TimeLabel(),
					booking.FormatRupiah(sch.Price),
					fmt.Sprintf("%d/%d", sch.AvailableSeats, sch.TotalSeats),
				})
			}
			t.Render()
			return nil
		},
	}
}

func newAdminUsersCmd(rt *env) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAdmin(); err != nil {
				return err
			}
			ctx, cancel := rt.context(cmd)
			defer cancel()

			users, err := rt.client.GetUsers(ctx)
			if err != nil {
				return err
			}
			renderUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}
}

func renderUsers(out io.Writer, users []model.User) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Name", "Email", "Phone", "Role", "Status"})
	for _, u := range users {
		t.AppendRow(table.Row{
			u.Id,
			u.FullName,
			u.Email,
			firstNonEmpty(u.PhoneNumber, "N/A"),
			strings.Join(u.Roles, ", "),
			activeLabel(u.Active),
		})
	}
	t.Render()
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func newAdminToggleUserCmd(rt *env) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-user <userId>",
		Short: "Activate or deactivate a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAdmin(); err != nil {
				return err
			}
			ctx, cancel := rt.context(cmd)
			defer cancel()

			user, err := rt.client.ToggleUserActive(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User status updated: %s is now %s\n", firstNonEmpty(user.Email, user.Id, args[0]), activeLabel(user.Active))
			return nil
		},
	}
}

var deleteTargets = map[string]service.AdminResource{
	"movie":    service.AdminMovies,
	"schedule": service.AdminSchedules,
	"user":     service.AdminUsers,
}

func newAdminDeleteCmd(rt *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:       "delete <movie|schedule|user> <id>",
		Short:     "Delete a movie, schedule or user",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"movie", "schedule", "user"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := strings.ToLower(args[0])
			resource, ok := deleteTargets[kind]
			if !ok {
				return fmt.Errorf("cannot delete %q: use movie, schedule or user", args[0])
			}
			if err := rt.requireAdmin(); err != nil {
				return err
			}
			if !yes {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Delete %s %s? This action cannot be undone", kind, args[1]),
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					return errors.New("delete cancelled")
				}
			}
			ctx, cancel := rt.context(cmd)
			defer cancel()

			msg, err := rt.client.DeleteResource(ctx, resource, args[1])
			if err != nil {
				return err
			}
			if msg == "" {
				msg = fmt.Sprintf("%s%s deleted successfully", strings.ToUpper(kind[:1]), kind[1:])
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

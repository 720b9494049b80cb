package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"cinemox-cli/booking"
	"cinemox-cli/model"
	"cinemox-cli/notify"
	"cinemox-cli/service"
	"cinemox-cli/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type appState int

const (
	stateLoadingMovies appState = iota
	stateSelectMovie
	stateLoadingSchedules
	stateSelectSchedule
	stateBooking
	stateConfirmBooking
	stateLoadingBookings
	stateShowBookings
	stateLogin
	stateError
)

const (
	catalogNowShowing = "now-showing"
	catalogComingSoon = "coming-soon"

	notifyTickInterval = 500 * time.Millisecond
	requestTimeout     = 20 * time.Second
)

type appModel struct {
	client     *service.Client
	controller *booking.Controller
	notes      *notify.Center
	logger     *zap.Logger
	loggedIn   func() bool

	state     appState
	lastState appState
	err       error

	width  int
	height int

	catalog   string
	movies    []model.Movie
	movie     model.Movie
	schedules []model.Schedule
	auth      model.AuthSession

	movieList    list.Model
	scheduleList list.Model
	bookingList  list.Model

	cursor int

	login       [2]textinput.Model
	loginFocus  int
	loginReturn appState
	loggingIn   bool

	spinner spinner.Model
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type moviesMsg struct {
	catalog string
	movies  []model.Movie
	err     error
}

type schedulesMsg struct {
	movieID   string
	schedules []model.Schedule
	err       error
}

type bookingResultMsg struct {
	attempt booking.Attempt
	result  model.BookingResult
	err     error
}

type bookingsMsg struct {
	bookings []model.Booking
	err      error
}

type loginMsg struct {
	session model.AuthSession
	err     error
}

type notifyTickMsg time.Time

// New builds the root model. client must already carry its token source
// and unauthorized handler; loggedIn must agree with that token source.
// A nil loggedIn falls back to the stored login.
func New(client *service.Client, logger *zap.Logger, loggedIn func() bool) tea.Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loggedIn == nil {
		loggedIn = store.IsLoggedIn
	}
	notes := notify.NewCenter()
	m := appModel{
		client:     client,
		controller: booking.NewController(notes, logger),
		notes:      notes,
		logger:     logger,
		loggedIn:   loggedIn,
		state:      stateLoadingMovies,
		catalog:    catalogNowShowing,
	}

	m.movieList = newList("Now Showing")
	m.scheduleList = newList("Schedules")
	m.bookingList = newList("My Bookings")
	m.login = newLoginInputs()
	m.auth, _ = store.LoadAuth()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchMoviesCmd(m.catalog), m.spinner.Tick, notifyTick())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.handleFilterInput(msg) {
			return m, nil
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		// fallthrough to component update
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() || m.isSubmitting() || m.loggingIn {
			return m, cmd
		}
		return m, nil

	case notifyTickMsg:
		m.notes.Prune(time.Time(msg))
		return m, notifyTick()

	case errMsg:
		if service.IsUnauthorized(msg.err) {
			return m.redirectToLogin(recoverStateFrom(m.state))
		}
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		return m, nil

	case moviesMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectMovie)
		}
		m.catalog = msg.catalog
		m.movies = msg.movies
		m.movieList.Title = catalogTitle(msg.catalog)
		m.movieList.SetItems(buildMovieItems(msg.movies, recentMovieIDs()))
		m.state = stateSelectMovie
		return m, nil

	case schedulesMsg:
		if msg.movieID != m.movie.Id {
			return m, nil
		}
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectMovie)
		}
		m.schedules = msg.schedules
		m.scheduleList.Title = fmt.Sprintf("Schedules • %s", m.movie.Title)
		m.scheduleList.SetItems(buildScheduleItems(msg.schedules))
		m.state = stateSelectSchedule
		return m, nil

	case bookingResultMsg:
		outcome := m.controller.Resolve(msg.attempt, msg.result, msg.err)
		if service.IsUnauthorized(msg.err) {
			m.controller.Close()
			return m.redirectToLogin(stateSelectSchedule)
		}
		if outcome.Kind == booking.OutcomeSucceeded {
			m.state = stateLoadingBookings
			return m, tea.Batch(m.fetchBookingsCmd(), m.spinner.Tick)
		}
		return m, nil

	case bookingsMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectMovie)
		}
		m.bookingList.SetItems(buildBookingItems(msg.bookings))
		m.state = stateShowBookings
		return m, nil

	case loginMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.notes.Error(msg.err.Error())
			return m, nil
		}
		if err := store.SaveAuth(msg.session); err != nil {
			m.logger.Warn("failed to persist login", zap.Error(err))
		}
		m.auth = msg.session
		m.login = newLoginInputs()
		m.loginFocus = 0
		m.notes.Success(fmt.Sprintf("Welcome back, %s", firstNonEmpty(msg.session.FullName, msg.session.Email)))
		m.state = m.loginReturn
		if m.state == stateLoadingMovies {
			return m, tea.Batch(m.fetchMoviesCmd(m.catalog), m.spinner.Tick)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectMovie:
		m.movieList, cmd = m.movieList.Update(msg)
	case stateSelectSchedule:
		m.scheduleList, cmd = m.scheduleList.Update(msg)
	case stateShowBookings:
		m.bookingList, cmd = m.bookingList.Update(msg)
	case stateLogin:
		m.login[m.loginFocus], cmd = m.login[m.loginFocus].Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	body := ""
	switch m.state {
	case stateLoadingMovies, stateLoadingSchedules, stateLoadingBookings:
		body = m.loadingView()
	case stateSelectMovie:
		body = m.movieList.View()
	case stateSelectSchedule:
		body = m.movieDetailView() + "\n" + m.scheduleList.View()
	case stateBooking:
		body = m.renderBookingView()
	case stateConfirmBooking:
		body = m.confirmModal().Render(m.width)
	case stateShowBookings:
		body = m.bookingList.View()
	case stateLogin:
		body = m.loginView()
	case stateError:
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	}
	out := header + "\n\n" + body
	if toasts := m.notes.View(); toasts != "" {
		out += "\n\n" + toasts
	}
	return out
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Cinemox")
	sub := []string{}
	if m.auth.Token != "" {
		sub = append(sub, fmt.Sprintf("User: %s", firstNonEmpty(m.auth.FullName, m.auth.Email)))
	} else {
		sub = append(sub, "Not logged in")
	}
	if m.movie.Title != "" && (m.state == stateSelectSchedule || m.state == stateBooking || m.state == stateConfirmBooking) {
		sub = append(sub, fmt.Sprintf("Movie: %s", m.movie.Title))
	}
	if session := m.controller.Session(); session != nil && (m.state == stateBooking || m.state == stateConfirmBooking) {
		sch := session.Schedule()
		sub = append(sub, fmt.Sprintf("%s - %s - %s", formatShowDate(sch), sch.TimeLabel(), sch.Theater))
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}
	hints := "ctrl+c quit • esc back • type to filter"
	switch m.state {
	case stateSelectMovie:
		hints = "ctrl+c quit • type to filter • enter schedules • tab now showing/coming soon • ctrl+b my bookings • ctrl+r refresh • ctrl+l login • ctrl+o logout"
	case stateSelectSchedule:
		hints = "ctrl+c quit • esc back • type to filter • enter book seats • ctrl+t trailer"
	case stateBooking:
		hints = "ctrl+c quit • esc close • arrows/hjkl move • space toggle seat • c confirm"
	case stateConfirmBooking:
		hints = "y confirm • n/esc cancel"
	case stateLogin:
		hints = "ctrl+c quit • esc back • tab switch field • enter login"
	}
	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	return title + meta + filterLine + "\n" + hint(hints)
}

func (m appModel) movieDetailView() string {
	mv := m.movie
	if mv.Id == "" {
		return ""
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render(mv.Title)}
	if meta := movieMeta(mv); meta != "" {
		lines = append(lines, hint(meta))
	}
	if mv.Director != "" {
		lines = append(lines, "Director: "+mv.Director)
	}
	if len(mv.Cast) > 0 {
		lines = append(lines, "Cast: "+strings.Join(mv.Cast, ", "))
	}
	if mv.Description != "" {
		style := lipgloss.NewStyle()
		if m.width > 20 {
			style = style.Width(m.width - 4)
		}
		lines = append(lines, style.Render(mv.Description))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m appModel) loginView() string {
	label := lipgloss.NewStyle().Bold(true)
	var b strings.Builder
	b.WriteString(label.Render("Login to book tickets"))
	b.WriteString("\n\n")
	b.WriteString(m.login[0].View())
	b.WriteString("\n")
	b.WriteString(m.login[1].View())
	b.WriteString("\n\n")
	if m.loggingIn {
		b.WriteString(m.spinner.View() + " Signing in")
	} else {
		b.WriteString(hint("Press enter to sign in."))
	}
	return b.String()
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	switch m.state {
	case stateBooking:
		return m.handleBookingKey(msg)
	case stateConfirmBooking:
		return m.handleConfirmKey(msg)
	case stateLogin:
		return m.handleLoginKey(msg)
	}

	switch msg.String() {
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		next, cmd := m.goBack()
		return next, cmd, true
	case "tab":
		if m.state == stateSelectMovie {
			next := catalogComingSoon
			if m.catalog == catalogComingSoon {
				next = catalogNowShowing
			}
			m.state = stateLoadingMovies
			return m, tea.Batch(m.fetchMoviesCmd(next), m.spinner.Tick), true
		}
	case "ctrl+r":
		if m.state == stateSelectMovie {
			_ = store.SaveMovieCache(m.catalog, nil)
			m.state = stateLoadingMovies
			return m, tea.Batch(m.fetchMoviesCmd(m.catalog), m.spinner.Tick), true
		}
		if m.state == stateSelectSchedule {
			m.state = stateLoadingSchedules
			return m, tea.Batch(m.fetchSchedulesCmd(m.movie.Id), m.spinner.Tick), true
		}
	case "ctrl+b":
		if m.state == stateSelectMovie || m.state == stateSelectSchedule {
			if !m.loggedIn() {
				return m.redirectToLoginHandled(m.state)
			}
			m.state = stateLoadingBookings
			return m, tea.Batch(m.fetchBookingsCmd(), m.spinner.Tick), true
		}
	case "ctrl+l":
		if m.state == stateSelectMovie {
			return m.redirectToLoginHandled(stateSelectMovie)
		}
	case "ctrl+o":
		if m.state == stateSelectMovie {
			if err := store.ClearAuth(); err != nil {
				return m, errCmd(err), true
			}
			m.auth = model.AuthSession{}
			m.notes.Info("Logged out")
			return m, nil, true
		}
	case "ctrl+t":
		if m.state == stateSelectSchedule && m.movie.TrailerUrl != "" {
			return m, openURLCmd(m.movie.TrailerUrl), true
		}
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case stateSelectMovie:
			item, ok := m.movieList.SelectedItem().(movieItem)
			if !ok {
				return m, nil, true
			}
			m.movie = item.movie
			_ = store.RememberMovie(m.movie)
			m.state = stateLoadingSchedules
			return m, tea.Batch(m.fetchSchedulesCmd(m.movie.Id), m.spinner.Tick), true
		case stateSelectSchedule:
			item, ok := m.scheduleList.SelectedItem().(scheduleItem)
			if !ok {
				return m, nil, true
			}
			return m.openBooking(item.schedule)
		case stateError:
			next, cmd := m.goBack()
			return next, cmd, true
		}
	}
	return m, nil, false
}

// openBooking opens the booking view for schedule with a fresh session.
func (m appModel) openBooking(schedule model.Schedule) (tea.Model, tea.Cmd, bool) {
	if !m.loggedIn() {
		m.notes.Warning("Please login to book tickets")
		return m.redirectToLoginHandled(stateSelectSchedule)
	}
	session := m.controller.Open(schedule)
	m.cursor = firstAvailable(session)
	m.state = stateBooking
	return m, nil, true
}

func (m appModel) handleBookingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	session := m.controller.Session()
	if session == nil {
		m.state = stateSelectSchedule
		return m, nil, true
	}
	switch msg.String() {
	case "esc", "q":
		m.controller.Close()
		m.state = stateSelectSchedule
		return m, nil, true
	case "left", "h":
		m.cursor = moveCursor(session.Grid(), m.cursor, 0, -1)
	case "right", "l":
		m.cursor = moveCursor(session.Grid(), m.cursor, 0, 1)
	case "up", "k":
		m.cursor = moveCursor(session.Grid(), m.cursor, -1, 0)
	case "down", "j":
		m.cursor = moveCursor(session.Grid(), m.cursor, 1, 0)
	case " ", "space", "enter", "x":
		label, ok := session.Grid().Label(m.cursor)
		if ok {
			m.toggleSeat(label, session.IsBooked(label))
		}
	case "c":
		return m.requestConfirm()
	}
	return m, nil, true
}

// toggleSeat is the seat click handler: it receives the seat and the booked
// flag it was rendered with.
func (m appModel) toggleSeat(label booking.SeatLabel, booked bool) {
	m.controller.Toggle(label, booked)
}

func (m appModel) requestConfirm() (tea.Model, tea.Cmd, bool) {
	session := m.controller.Session()
	if session == nil {
		return m, nil, true
	}
	if session.State() != booking.StateSeatsSelecting || len(session.Selected()) == 0 {
		// Confirm raises the warning or "still submitting" notice itself.
		if attempt, ok := m.controller.Confirm(); ok {
			return m, tea.Batch(m.submitBookingCmd(attempt), m.spinner.Tick), true
		}
		return m, nil, true
	}
	m.state = stateConfirmBooking
	return m, nil, true
}

func (m appModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.state = stateBooking
		attempt, ok := m.controller.Confirm()
		if !ok {
			return m, nil, true
		}
		return m, tea.Batch(m.submitBookingCmd(attempt), m.spinner.Tick), true
	case "n", "N", "esc":
		m.state = stateBooking
		return m, nil, true
	}
	return m, nil, true
}

func (m appModel) confirmModal() notify.Modal {
	session := m.controller.Session()
	if session == nil {
		return notify.Modal{Title: "Confirm Booking"}
	}
	sum := session.Summary()
	sch := session.Schedule()
	return notify.Modal{
		Title: "Confirm Booking",
		Message: strings.Join([]string{
			fmt.Sprintf("%s • %s", firstNonEmpty(sch.MovieTitle, m.movie.Title), sch.Theater),
			fmt.Sprintf("%s %s", formatShowDate(sch), sch.TimeLabel()),
			fmt.Sprintf("Seats: %s", sum.SeatsText),
			fmt.Sprintf("Total: %s", sum.TotalText),
		}, "\n"),
		ConfirmText: "Book now",
		CancelText:  "Keep selecting",
	}
}

func (m appModel) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		m.state = m.loginReturn
		if m.state == stateLoadingMovies {
			return m, tea.Batch(m.fetchMoviesCmd(m.catalog), m.spinner.Tick), true
		}
		return m, nil, true
	case "tab", "shift+tab", "up", "down":
		m.login[m.loginFocus].Blur()
		m.loginFocus = (m.loginFocus + 1) % len(m.login)
		return m, m.login[m.loginFocus].Focus(), true
	case "enter":
		if m.loggingIn {
			return m, nil, true
		}
		email := strings.TrimSpace(m.login[0].Value())
		password := m.login[1].Value()
		if email == "" || password == "" {
			m.notes.Warning("Please enter your email and password")
			return m, nil, true
		}
		m.loggingIn = true
		return m, tea.Batch(m.loginCmd(email, password), m.spinner.Tick), true
	}
	return m, nil, false
}

func (m appModel) redirectToLogin(returnState appState) (tea.Model, tea.Cmd) {
	m.auth = model.AuthSession{}
	if returnState == stateLogin || returnState == stateError {
		returnState = stateSelectMovie
	}
	if returnState == stateSelectMovie && len(m.movieList.Items()) == 0 {
		returnState = stateLoadingMovies
	}
	m.loginReturn = returnState
	m.loginFocus = 0
	m.login = newLoginInputs()
	m.state = stateLogin
	if m.controller.Session() != nil {
		m.controller.Close()
	}
	return m, m.login[0].Focus()
}

func (m appModel) redirectToLoginHandled(returnState appState) (tea.Model, tea.Cmd, bool) {
	next, cmd := m.redirectToLogin(returnState)
	return next, cmd, true
}

func (m appModel) goBack() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateSelectSchedule:
		m.state = stateSelectMovie
	case stateShowBookings:
		if len(m.movieList.Items()) == 0 {
			m.state = stateLoadingMovies
			return m, tea.Batch(m.fetchMoviesCmd(m.catalog), m.spinner.Tick)
		}
		m.state = stateSelectMovie
	case stateError:
		m.state = m.lastState
		if m.state == stateLoadingMovies {
			return m, tea.Batch(m.fetchMoviesCmd(m.catalog), m.spinner.Tick)
		}
	default:
		return m, nil
	}
	return m, nil
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectMovie:
		return &m.movieList
	case stateSelectSchedule:
		return &m.scheduleList
	case stateShowBookings:
		return &m.bookingList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingMovies ||
		m.state == stateLoadingSchedules ||
		m.state == stateLoadingBookings
}

func (m appModel) isSubmitting() bool {
	session := m.controller.Session()
	return session != nil && session.State() == booking.StateSubmitting
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingMovies:
		title = "Loading movies"
	case stateLoadingSchedules:
		title = "Loading schedules"
	case stateLoadingBookings:
		title = "Loading your bookings"
	}

	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 8
	if h < 6 {
		h = 6
	}
	m.movieList.SetSize(m.width, h)
	m.scheduleList.SetSize(m.width, h-6)
	m.bookingList.SetSize(m.width, h)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func newLoginInputs() [2]textinput.Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email:    "
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return [2]textinput.Model{email, password}
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithOptionsCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{
			err:            err,
			returnState:    returnState,
			returnStateSet: true,
		}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingMovies:
		return stateLoadingMovies
	case stateLoadingSchedules:
		return stateSelectMovie
	case stateLoadingBookings:
		return stateSelectMovie
	case stateBooking, stateConfirmBooking:
		return stateSelectSchedule
	case stateError, stateLogin:
		return stateSelectMovie
	default:
		return state
	}
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func catalogTitle(catalog string) string {
	if catalog == catalogComingSoon {
		return "Coming Soon"
	}
	return "Now Showing"
}

func notifyTick() tea.Cmd {
	return tea.Tick(notifyTickInterval, func(t time.Time) tea.Msg {
		return notifyTickMsg(t)
	})
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := openURL(url); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func openURL(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("unsupported OS for opening browser: %s", runtime.GOOS)
	}
}

func recentMovieIDs() map[string]bool {
	recents, err := store.LoadRecentMovies()
	if err != nil {
		return nil
	}
	ids := make(map[string]bool, len(recents))
	for _, r := range recents {
		ids[r.ID] = true
	}
	return ids
}

func (m appModel) fetchMoviesCmd(catalog string) tea.Cmd {
	return func() tea.Msg {
		if cached, fresh, err := store.LoadMovieCache(catalog); err == nil && fresh && len(cached) > 0 {
			return moviesMsg{catalog: catalog, movies: cached}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var (
			movies []model.Movie
			err    error
		)
		if catalog == catalogComingSoon {
			movies, err = m.client.GetComingSoon(ctx)
		} else {
			movies, err = m.client.GetNowShowing(ctx)
		}
		if err == nil && len(movies) > 0 {
			_ = store.SaveMovieCache(catalog, movies)
		}
		if err == nil && len(movies) == 0 {
			err = errors.New("no movies available")
		}
		return moviesMsg{catalog: catalog, movies: movies, err: err}
	}
}

func (m appModel) fetchSchedulesCmd(movieID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		schedules, err := m.client.GetSchedulesByMovie(ctx, movieID)
		if err == nil && len(schedules) == 0 {
			err = errors.New("no schedules available for this movie")
		}
		return schedulesMsg{movieID: movieID, schedules: schedules, err: err}
	}
}

func (m appModel) submitBookingCmd(attempt booking.Attempt) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		result, err := m.client.CreateBooking(ctx, attempt.Request)
		return bookingResultMsg{attempt: attempt, result: result, err: err}
	}
}

func (m appModel) fetchBookingsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		bookings, err := m.client.GetMyBookings(ctx)
		return bookingsMsg{bookings: bookings, err: err}
	}
}

func (m appModel) loginCmd(email string, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		session, err := m.client.Login(ctx, email, password)
		return loginMsg{session: session, err: err}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cinetx/internal/collections"
	"github.com/desertthunder/cinetx/internal/formatter"
	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/notify"
	"github.com/desertthunder/cinetx/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CatalogView ViewState = iota
	MovieView
	ComposeView
	ConfirmView
)

// CatalogSource fetches the movie catalog for the list view.
// [services.MovieService] satisfies this interface.
type CatalogSource interface {
	Popular(ctx context.Context) ([]models.Movie, error)
}

// ThreadFactory builds the comment thread mirror for a movie.
type ThreadFactory func(movieID string) *collections.Thread

// SlotFactory builds the rating slot mirror for a movie.
type SlotFactory func(movieID string) *collections.RatingSlot

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	catalog   CatalogSource
	favorites *collections.Membership
	newThread ThreadFactory
	newSlot   SlotFactory
	notices   *notify.Channel

	width  int
	height int

	movies      []models.Movie
	movieList   list.Model
	selected    *models.Movie
	thread      *collections.Thread
	slot        *collections.RatingSlot
	commentList list.Model

	input         textinput.Model
	editingID     string
	pendingDelete string

	err  error
	help help.Model
	keys keyMap
}

type moviesFetchedMsg struct {
	movies []models.Movie
	err    error
}

type favoritesLoadedMsg struct {
	err error
}

type socialLoadedMsg struct {
	thread *collections.Thread
	slot   *collections.RatingSlot
	err    error
}

type mutationDoneMsg struct {
	verb   string
	result collections.Result[models.Comment]
}

type favoriteToggledMsg struct {
	title  string
	added  bool
	result collections.Result[models.Favorite]
}

type ratingSubmittedMsg struct {
	result collections.Result[models.Rating]
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, catalog CatalogSource, favorites *collections.Membership, newThread ThreadFactory, newSlot SlotFactory, notices *notify.Channel) *Model {
	input := textinput.New()
	input.Placeholder = "Escribe un comentario..."
	input.CharLimit = 500

	return &Model{
		ctx:       ctx,
		view:      CatalogView,
		catalog:   catalog,
		favorites: favorites,
		newThread: newThread,
		newSlot:   newSlot,
		notices:   notices,
		input:     input,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init fetches the catalog and, when a session exists, the favorites set.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchMovies(), m.loadFavorites())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.movieList.Width() == 0 {
			m.movieList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.commentList.Width() == 0 {
			m.commentList.SetSize(msg.Width-4, msg.Height-12)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CatalogView:
			return m.handleCatalogKeys(msg)
		case MovieView:
			return m.handleMovieKeys(msg)
		case ComposeView:
			return m.handleComposeKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case moviesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.movies = msg.movies
		m.rebuildMovieList()
		return m, nil

	case favoritesLoadedMsg:
		if msg.err == nil {
			m.rebuildMovieList()
		}
		return m, nil

	case socialLoadedMsg:
		if msg.err != nil {
			m.notices.Errorf(msg.err.Error())
			return m, nil
		}
		m.thread = msg.thread
		m.slot = msg.slot
		m.rebuildCommentList()
		m.view = MovieView
		return m, nil

	case favoriteToggledMsg:
		switch msg.result.Kind {
		case collections.Applied:
			if msg.added {
				m.notices.Successf(fmt.Sprintf("%s agregada a favoritos", msg.title))
			} else {
				m.notices.Infof(fmt.Sprintf("%s eliminada de favoritos", msg.title))
			}
			m.rebuildMovieList()
		case collections.Rejected:
			m.notices.Errorf(msg.result.Reason.Error())
		}
		return m, nil

	case ratingSubmittedMsg:
		switch msg.result.Kind {
		case collections.Applied:
			m.notices.Successf(fmt.Sprintf("Calificación guardada: %s", formatter.Stars(float64(msg.result.Item.Value))))
		case collections.Rejected:
			m.notices.Errorf(msg.result.Reason.Error())
		}
		return m, nil

	case mutationDoneMsg:
		switch msg.result.Kind {
		case collections.Applied:
			m.notices.Successf(fmt.Sprintf("Comentario %s", msg.verb))
			m.rebuildCommentList()
		case collections.Rejected:
			m.notices.Errorf(msg.result.Reason.Error())
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	banner := m.renderBanner()

	switch m.view {
	case CatalogView:
		return banner + m.renderCatalog()
	case MovieView:
		return banner + m.renderMovie()
	case ComposeView:
		return banner + m.renderCompose()
	case ConfirmView:
		// The prompt itself is the only notification on screen.
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.movieList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.movieList, cmd = m.movieList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if item, ok := m.movieList.SelectedItem().(movieItem); ok {
			movie := item.movie
			m.selected = &movie
			return m, m.loadSocial(movie.ID)
		}
	case "f":
		if item, ok := m.movieList.SelectedItem().(movieItem); ok {
			return m, m.toggleFavorite(item.movie)
		}
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) handleMovieKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CatalogView
		m.selected = nil
		m.thread = nil
		m.slot = nil
		return m, nil
	case "f":
		if m.selected != nil {
			return m, m.toggleFavorite(*m.selected)
		}
	case "c":
		m.editingID = ""
		m.input.SetValue("")
		m.input.Focus()
		m.view = ComposeView
		return m, textinput.Blink
	case "e":
		if item, ok := m.commentList.SelectedItem().(commentItem); ok && item.mine {
			m.editingID = item.comment.ID
			m.input.SetValue(item.comment.Content)
			m.input.Focus()
			m.view = ComposeView
			return m, textinput.Blink
		}
	case "d":
		if item, ok := m.commentList.SelectedItem().(commentItem); ok && item.mine {
			id := item.comment.ID
			m.notices.Prompt("¿Eliminar este comentario?\nEsta acción no se puede deshacer.",
				func() { m.pendingDelete = id },
				func() { m.pendingDelete = "" })
			m.view = ConfirmView
			return m, nil
		}
	case "1", "2", "3", "4", "5":
		if m.slot != nil {
			value := int(msg.String()[0] - '0')
			return m, m.submitRating(value)
		}
	}

	var cmd tea.Cmd
	m.commentList, cmd = m.commentList.Update(msg)
	return m, cmd
}

func (m *Model) handleComposeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = MovieView
		m.input.Blur()
		return m, nil
	case "enter":
		content := m.input.Value()
		m.input.Blur()
		m.view = MovieView
		if m.editingID != "" {
			return m, m.editComment(m.editingID, content)
		}
		return m, m.postComment(content)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleConfirmKeys resolves the pending Danger prompt through the channel.
// The delete dispatches only when Confirm actually fired the prompt's
// callback; a prompt replaced by a newer notification confirms nothing.
func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n", "esc", "q":
		m.notices.Cancel()
		m.view = MovieView
		return m, nil
	case "y":
		m.notices.Confirm()
		m.view = MovieView
		if id := m.pendingDelete; id != "" {
			m.pendingDelete = ""
			return m, m.removeComment(id)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CatalogView:
		m.movieList, cmd = m.movieList.Update(msg)
	case MovieView:
		m.commentList, cmd = m.commentList.Update(msg)
	case ComposeView:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) rebuildMovieList() {
	items := make([]list.Item, len(m.movies))
	for i, movie := range m.movies {
		items[i] = movieItem{movie: movie, favorite: m.favorites != nil && m.favorites.Contains(movie.ID)}
	}

	index := m.movieList.Index()
	m.movieList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.movieList.Title = "Películas populares"
	m.movieList.SetSize(m.width-4, m.height-8)
	if index > 0 && index < len(items) {
		m.movieList.Select(index)
	}
}

func (m *Model) rebuildCommentList() {
	if m.thread == nil {
		return
	}

	comments := m.thread.Items()
	items := make([]list.Item, len(comments))
	for i, comment := range comments {
		items[i] = commentItem{comment: comment, mine: m.thread.CanModify(comment.ID)}
	}

	m.commentList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.commentList.Title = "Comentarios"
	m.commentList.SetFilteringEnabled(false)
	m.commentList.SetSize(m.width-4, m.height-12)
}

func (m *Model) fetchMovies() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.catalog.Popular(m.ctx)
		return moviesFetchedMsg{movies: movies, err: err}
	}
}

func (m *Model) loadFavorites() tea.Cmd {
	if m.favorites == nil {
		return nil
	}
	return func() tea.Msg {
		return favoritesLoadedMsg{err: m.favorites.Load(m.ctx)}
	}
}

func (m *Model) loadSocial(movieID string) tea.Cmd {
	return func() tea.Msg {
		thread := m.newThread(movieID)
		if err := thread.Load(m.ctx); err != nil {
			return socialLoadedMsg{err: err}
		}

		var slot *collections.RatingSlot
		if m.newSlot != nil {
			slot = m.newSlot(movieID)
			// An unauthenticated viewer can still read the thread; the slot
			// just stays empty when the rating fetch is refused.
			if err := slot.Load(m.ctx); err != nil {
				slot = nil
			}
		}

		return socialLoadedMsg{thread: thread, slot: slot}
	}
}

func (m *Model) toggleFavorite(movie models.Movie) tea.Cmd {
	if m.favorites == nil {
		return func() tea.Msg {
			m.notices.Errorf("Debes iniciar sesión para usar favoritos.")
			return nil
		}
	}
	added := !m.favorites.Contains(movie.ID)
	return func() tea.Msg {
		result := m.favorites.Toggle(m.ctx, movie.ID)
		return favoriteToggledMsg{title: movie.Title, added: added, result: result}
	}
}

func (m *Model) submitRating(value int) tea.Cmd {
	return func() tea.Msg {
		return ratingSubmittedMsg{result: m.slot.Submit(m.ctx, value)}
	}
}

func (m *Model) postComment(content string) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{verb: "publicado", result: m.thread.Post(m.ctx, content)}
	}
}

func (m *Model) editComment(id, content string) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{verb: "actualizado", result: m.thread.Edit(m.ctx, id, content)}
	}
}

func (m *Model) removeComment(id string) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{verb: "eliminado", result: m.thread.Remove(m.ctx, id)}
	}
}

func (m *Model) renderBanner() string {
	if m.notices == nil {
		return ""
	}
	current := m.notices.Current()
	if current == nil {
		return ""
	}

	style := styles.warn
	switch current.Level {
	case notify.Success:
		style = styles.ok
	case notify.Error, notify.Danger:
		style = styles.err
	}

	out := ""
	for _, line := range current.Lines() {
		out += style.Render(line) + "\n"
	}
	return out + "\n"
}

func (m *Model) renderCatalog() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.favorite, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.movieList.View(), helpView)
}

func (m *Model) renderMovie() string {
	if m.selected == nil {
		return ""
	}

	title := styles.title.Render(m.selected.Title)

	favorite := ""
	if m.favorites != nil && m.favorites.Contains(m.selected.ID) {
		favorite = " ♥"
	}

	displayed := 0.0
	if m.slot != nil {
		displayed = float64(m.slot.Displayed())
	}
	ratingLine := fmt.Sprintf("Promedio: %s (%d votos)", formatter.Stars(m.selected.AverageRating), m.selected.TotalRatings)
	if m.slot != nil {
		ratingLine += fmt.Sprintf("   Tu calificación: %s", styles.stars.Render(formatter.Stars(displayed)))
	}

	info := fmt.Sprintf("%s%s\n%s\n%s\n\n%s\n",
		title,
		favorite,
		shared.FormatDuration(m.selected.Duration),
		ratingLine,
		m.selected.Description,
	)

	helpKeys := []key.Binding{m.keys.favorite, m.keys.comment, m.keys.rate, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", info, m.commentList.View(), helpView)
}

func (m *Model) renderCompose() string {
	verb := "Nuevo comentario"
	if m.editingID != "" {
		verb = "Editar comentario"
	}
	title := styles.title.Render(verb)

	helpKeys := []key.Binding{m.keys.enter, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.input.View(), helpView)
}

func (m *Model) renderConfirm() string {
	current := m.notices.Current()
	if current == nil || current.Level != notify.Danger {
		// The prompt was replaced or dismissed underneath us.
		return m.renderBanner() + m.renderMovie()
	}

	lines := current.Lines()
	title := styles.title.Render(lines[0])
	body := ""
	if len(lines) > 1 {
		body = lines[1]
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, body, helpView)
}

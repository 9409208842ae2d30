package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	SearchView
	DetailView
	ConfirmView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	tracker  *tasks.Tracker
	session  models.Session
	query    models.Query
	page     *models.Page
	jobList  list.Model
	search   textinput.Model
	selected *models.JobRecord
	returnTo ViewState
	status   string
	err      error
	width    int
	height   int
	help     help.Model
	keys     keyMap
}

// NewModel creates a TUI model browsing the records of session's user.
func NewModel(ctx context.Context, tracker *tasks.Tracker, session models.Session) *Model {
	jobList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	jobList.Title = fmt.Sprintf("Job applications: %s", session.User)
	jobList.SetFilteringEnabled(false)
	jobList.SetShowHelp(false)
	jobList.KeyMap.Quit.SetEnabled(false)
	jobList.KeyMap.NextPage.SetEnabled(false)
	jobList.KeyMap.PrevPage.SetEnabled(false)

	search := textinput.New()
	search.Placeholder = "company, title, status, country..."
	search.Prompt = "/ "
	search.Cursor.SetMode(cursor.CursorStatic)

	return &Model{
		ctx:     ctx,
		view:    ListView,
		tracker: tracker,
		session: session,
		query:   models.Query{Limit: tracker.Config().PageSize},
		jobList: jobList,
		search:  search,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init loads the first page of records.
func (m *Model) Init() tea.Cmd {
	return m.fetchPage()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.jobList.SetSize(msg.Width-4, msg.Height-8)
		m.search.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	if m.view == SearchView {
		m.search, cmd = m.search.Update(msg)
	} else {
		m.jobList, cmd = m.jobList.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPageFetched:
		data := msg.data.(pageFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.page = data.page
		m.query.Offset = data.page.Offset
		cmd := m.jobList.SetItems(jobItems(data.page.Records))
		if m.jobList.Index() >= len(data.page.Records) {
			m.jobList.Select(0)
		}
		return m, cmd

	case MsgRecordDeleted:
		data := msg.data.(recordDeleted)
		m.view = ListView
		m.selected = nil
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		if data.deleted {
			m.status = "Deleted record " + data.id
		} else {
			m.status = "Record " + data.id + " was already gone"
		}
		if m.page != nil && len(m.page.Records) == 1 && m.query.Offset > 0 {
			m.query.Offset = max(0, m.query.Offset-m.limit())
		}
		return m, m.fetchPage()
	}
	return m, nil
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		m.status = ""
		return m, m.fetchPage()
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.search.SetValue(m.query.Text)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.next):
		if m.page == nil || !m.page.HasMore {
			return m, nil
		}
		m.query.Offset += m.limit()
		return m, m.fetchPage()
	case key.Matches(msg, m.keys.prev):
		if m.query.Offset == 0 {
			return m, nil
		}
		m.query.Offset = max(0, m.query.Offset-m.limit())
		return m, m.fetchPage()
	case key.Matches(msg, m.keys.enter):
		if rec := m.selectedRecord(); rec != nil {
			m.selected = rec
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if rec := m.selectedRecord(); rec != nil {
			m.selected = rec
			m.returnTo = ListView
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.jobList, cmd = m.jobList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.search.Blur()
		m.view = ListView
		return m, nil
	case "enter":
		m.search.Blur()
		m.view = ListView
		m.query.Text = strings.TrimSpace(m.search.Value())
		m.query.Offset = 0
		m.status = ""
		return m, m.fetchPage()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		m.selected = nil
	case key.Matches(msg, m.keys.remove):
		m.returnTo = DetailView
		m.view = ConfirmView
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes):
		return m, m.deleteRecord(m.selected.ID)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = m.returnTo
		if m.view == ListView {
			m.selected = nil
		}
	}
	return m, nil
}

func (m *Model) limit() int {
	if m.page != nil && m.page.Limit > 0 {
		return m.page.Limit
	}
	if m.query.Limit > 0 {
		return m.query.Limit
	}
	return 10
}

func (m *Model) selectedRecord() *models.JobRecord {
	if item, ok := m.jobList.SelectedItem().(jobItem); ok {
		return item.record
	}
	return nil
}

func (m *Model) fetchPage() tea.Cmd {
	q := m.query
	return func() tea.Msg {
		page, err := m.tracker.Search(m.ctx, m.session, q)
		return pageFetchedMsg(page, err)
	}
}

func (m *Model) deleteRecord(id string) tea.Cmd {
	return func() tea.Msg {
		deleted, err := m.tracker.Delete(m.ctx, m.session, id)
		return recordDeletedMsg(id, deleted, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case ListView:
		return m.renderList()
	case SearchView:
		return m.renderSearch()
	case DetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) renderList() string {
	if m.page == nil {
		return styles.help.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(m.jobList.View())
	b.WriteString("\n\n")
	b.WriteString(m.pageSummary())
	if m.query.Text != "" {
		b.WriteString(styles.help.Render(fmt.Sprintf("  matching %q", m.query.Text)))
	}
	if m.status != "" {
		b.WriteString("\n" + styles.ok.Render(m.status))
	}
	b.WriteString("\n" + m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) pageSummary() string {
	if m.page.Total == 0 {
		return styles.warn.Render("No job applications")
	}
	limit := m.limit()
	current := m.page.Offset/limit + 1
	pages := (m.page.Total + limit - 1) / limit
	return fmt.Sprintf("Page %d of %d • %d records", current, pages, m.page.Total)
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search job applications")
	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		m.keys.back,
	})
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.search.View(), helpView)
}

func (m *Model) renderDetail() string {
	r := m.selected
	if r == nil {
		return ""
	}

	title := styles.title.Render(fmt.Sprintf("%s • %s", r.CompanyName, r.JobTitle))
	rows := []struct{ label, value string }{
		{"Applied", r.ApplicationDate},
		{"Status", styles.status(r.Status).Render(r.Status)},
		{"Country", r.CountryName},
		{"Recruiter", r.Recruiter},
		{"Link", r.JobLink},
		{"Remarks", r.ResponseRemarks},
		{"ID", r.ID},
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	for _, row := range rows {
		b.WriteString(styles.label.Render(row.label) + row.value + "\n")
	}
	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.remove, m.keys.back, m.keys.quit}))
	return b.String()
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Delete '%s • %s'?", m.selected.CompanyName, m.selected.JobTitle))
	info := styles.warn.Render("This cannot be undone.")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

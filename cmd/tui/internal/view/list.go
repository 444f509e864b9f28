package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

const recentLimit = 100

type listState int

const (
	listStateBrowse listState = iota
	listStateTimeframe
)

// ListModel browses recent transactions, newest first.
type ListModel struct {
	CommonModel
	txService       *transaction.Service
	categoryService *category.Service

	state           listState
	table           table.Model
	timeframePicker TimeframePicker
	txs             []*transaction.Transaction

	categories     []*category.Category
	categoryIdx    int // 0 is all categories
	timeframeLabel string

	filter  transaction.Filter
	loading bool
	err     error
}

func NewListModel(txSvc *transaction.Service, catSvc *category.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 32},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 18},
		{Title: "Type", Width: 8},
		{Title: "Account", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		txService:       txSvc,
		categoryService: catSvc,
		table:           t,
		timeframePicker: NewTimeframePicker(),
		timeframeLabel:  TimeframeAll.String(),
		filter:          transaction.Filter{Limit: recentLimit},
		loading:         true,
	}
}

func (m ListModel) Title() string { return "Recent Transactions" }

func (m ListModel) ShortHelp() string {
	if m.state == listStateTimeframe {
		return "Enter: select | Esc: cancel"
	}

	return "Esc: back | t: timeframe | c: category | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return tea.Batch(m.loadCategoriesCmd(), m.loadTxsCmd())
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case loadCategoriesMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.categories = msg.categories

		return m, nil

	case TimeframeSelectedMsg:
		m.state = listStateBrowse
		m.filter.Start, m.filter.End = msg.Start, msg.End
		m.timeframeLabel = msg.Label
		m.table.Focus()
		m.loading = true

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == listStateTimeframe {
		return m.updateTimeframe(msg)
	}

	return m.updateBrowse(msg)
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "t":
			m.state = listStateTimeframe
			m.timeframePicker.Reset()
			m.table.Blur()

			return m, nil
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(m.categories) + 1)
			m.filter.CategoryIDs = m.selectedCategoryIDs()
			m.loading = true

			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			m.state = listStateBrowse
			m.table.Focus()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ListModel) selectedCategoryIDs() []uuid.UUID {
	if m.categoryIdx == 0 || m.categoryIdx > len(m.categories) {
		return nil
	}

	return []uuid.UUID{m.categories[m.categoryIdx-1].ID}
}

func (m ListModel) categoryLabel() string {
	if m.categoryIdx == 0 || m.categoryIdx > len(m.categories) {
		return "All"
	}

	return m.categories[m.categoryIdx-1].Label()
}

func (m ListModel) View() string {
	if m.state == listStateTimeframe {
		return paneStyle.Render(m.timeframePicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filter: [t] Timeframe: %s | [c] Category: %s | showing %d",
		activeStyle(m.timeframeLabel),
		activeStyle(m.categoryLabel()),
		len(m.txs),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	))
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.Description,
			FormatAmount(tx.Amount),
			tx.CategoryName,
			string(tx.CategoryKind),
			tx.Account,
		})
	}

	m.table.SetRows(rows)
}

type loadListMsg struct {
	txs []*transaction.Transaction
	err error
}

type loadCategoriesMsg struct {
	categories []*category.Category
	err        error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)

		return loadListMsg{txs: txs, err: err}
	}
}

func (m ListModel) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cats, err := m.categoryService.ListAll(ctx)

		return loadCategoriesMsg{categories: cats, err: err}
	}
}

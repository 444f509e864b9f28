package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

// SummaryModel shows one month's expenses against the monthly budget.
type SummaryModel struct {
	CommonModel
	txService *transaction.Service
	budget    decimal.Decimal

	month   time.Time
	summary *transaction.Summary
	bar     progress.Model
	loading bool
	err     error
}

func NewSummaryModel(txSvc *transaction.Service, budget decimal.Decimal) SummaryModel {
	return SummaryModel{
		txService: txSvc,
		budget:    budget,
		month:     time.Now(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		loading:   true,
	}
}

func (m SummaryModel) Title() string { return "Monthly Summary" }

func (m SummaryModel) ShortHelp() string {
	return "Esc: back | [/]: previous/next month | r: refresh"
}

func (m SummaryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		m.loading = false
		m.summary, m.err = msg.summary, msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "[":
			m.month = m.month.AddDate(0, 0, -m.month.Day())
		case "]":
			m.month = m.month.AddDate(0, 1, 1-m.month.Day())
		case "r":
		default:
			return m, nil
		}

		m.loading = true

		return m, m.loadCmd()
	}

	return m, nil
}

func (m SummaryModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render(m.month.Format("January 2006"))

	if m.loading {
		return paneStyle.Render(title + "\n\nLoading...")
	}

	if m.err != nil {
		return paneStyle.Render(title + "\n\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	s := m.summary
	pct, _ := s.Percent.Div(decimal.NewFromInt(100)).Float64()

	remaining := successStyle.Render(FormatAmount(s.Remaining))
	if s.Remaining.IsZero() && s.Budget.IsPositive() {
		remaining = errorStyle.Render(FormatAmount(s.Remaining))
	}

	body := fmt.Sprintf(
		"Spent:        %s\nBudget:       %s\nRemaining:    %s\nTransactions: %d\n\n%s %s%%",
		FormatAmount(s.Spent),
		FormatAmount(s.Budget),
		remaining,
		s.Count,
		m.bar.ViewAs(pct),
		s.Percent.StringFixed(1),
	)

	return paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))
}

type summaryMsg struct {
	summary *transaction.Summary
	err     error
}

func (m SummaryModel) loadCmd() tea.Cmd {
	start, end := transaction.MonthRange(m.month)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.txService.Summary(ctx, transaction.Filter{Start: &start, End: &end}, m.budget)

		return summaryMsg{summary: summary, err: err}
	}
}

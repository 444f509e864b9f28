package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/account"
	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

type addState int

const (
	addStateLoading addState = iota
	addStateForm
	addStateSaving
	addStateResult
)

// addFields is bound to the form; it lives on the heap so the bindings
// survive the model being copied between updates.
type addFields struct {
	date        string
	description string
	amount      string
	kind        category.Kind
	category    string
	account     string
}

// AddModel records a single transaction by category name.
type AddModel struct {
	CommonModel
	txService       *transaction.Service
	categoryService *category.Service
	accountService  *account.Service

	state      addState
	form       *huh.Form
	fields     *addFields
	categories []*category.Category
	accounts   []string

	saved *transaction.Transaction
	err   error
}

func NewAddModel(txSvc *transaction.Service, catSvc *category.Service, accSvc *account.Service) AddModel {
	return AddModel{
		txService:       txSvc,
		categoryService: catSvc,
		accountService:  accSvc,
	}
}

func (m AddModel) Title() string { return "Add Transaction" }

func (m AddModel) ShortHelp() string {
	if m.state == addStateResult {
		return "Esc: back | n: add another"
	}

	return "Esc: back | Enter/Tab: navigate form"
}

func (m AddModel) Init() tea.Cmd {
	return m.loadOptionsCmd()
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case addOptionsMsg:
		if msg.err != nil {
			m.state = addStateResult
			m.err = msg.err

			return m, nil
		}

		m.categories = msg.categories
		m.accounts = msg.accounts

		return m.startForm()

	case addSavedMsg:
		m.state = addStateResult
		m.saved, m.err = msg.tx, msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == addStateResult && msg.String() == "n" {
			return m.startForm()
		}
	}

	if m.state != addStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = addStateSaving

	return m, m.saveCmd()
}

func (m AddModel) startForm() (tea.Model, tea.Cmd) {
	m.fields = &addFields{
		date:    FormatDate(time.Now()),
		kind:    category.KindExpense,
		account: transaction.DefaultAccount,
	}
	m.form = m.buildForm()
	m.saved = nil
	m.err = nil
	m.state = addStateForm

	return m, m.form.Init()
}

func (m AddModel) buildForm() *huh.Form {
	kinds := make([]huh.Option[category.Kind], len(category.Kinds))
	for i, k := range category.Kinds {
		kinds[i] = huh.NewOption(string(k), k)
	}

	f := m.fields

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return errors.New("date must be YYYY-MM-DD")
					}

					return nil
				}),

			huh.NewInput().
				Title("Description").
				Value(&f.description),

			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&f.amount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return errors.New("amount must be a number")
					}

					if d.IsNegative() {
						return errors.New("amount must not be negative")
					}

					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[category.Kind]().
				Title("Type").
				Options(kinds...).
				Value(&f.kind),

			huh.NewSelect[string]().
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					return m.categoryOptions(f.kind)
				}, &f.kind).
				Value(&f.category),

			huh.NewInput().
				Title("Account").
				Suggestions(m.accounts).
				Value(&f.account),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AddModel) categoryOptions(kind category.Kind) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("(uncategorized)", "")}

	for _, c := range m.categories {
		if c.Kind == kind {
			opts = append(opts, huh.NewOption(c.Name, c.Name))
		}
	}

	return opts
}

func (m AddModel) View() string {
	switch m.state {
	case addStateLoading:
		return paneStyle.Render("Loading categories...")
	case addStateForm:
		return paneStyle.Render(m.form.View())
	case addStateSaving:
		return paneStyle.Render("Saving...")
	}

	if m.err != nil {
		return paneStyle.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	label := m.saved.CategoryName
	if label == "" {
		label = "uncategorized"
	}

	return paneStyle.Render(successStyle.Render(fmt.Sprintf(
		"Saved %s  %s  %s [%s]",
		FormatDate(m.saved.Date),
		FormatAmount(m.saved.Amount),
		m.saved.Description,
		label,
	)))
}

type addOptionsMsg struct {
	categories []*category.Category
	accounts   []string
	err        error
}

type addSavedMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m AddModel) loadOptionsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cats, err := m.categoryService.ListAll(ctx)
		if err != nil {
			return addOptionsMsg{err: err}
		}

		accounts, err := m.accountService.List(ctx)
		if err != nil {
			return addOptionsMsg{err: err}
		}

		return addOptionsMsg{categories: cats, accounts: accounts}
	}
}

func (m AddModel) saveCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		date, err := time.Parse(time.DateOnly, f.date)
		if err != nil {
			return addSavedMsg{err: err}
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(f.amount))
		if err != nil {
			return addSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.txService.AddByName(ctx, transaction.CreateParams{
			Date:         date,
			Description:  f.description,
			Amount:       amount,
			Account:      f.account,
			CategoryName: f.category,
			CategoryKind: f.kind,
		})

		return addSavedMsg{tx: tx, err: err}
	}
}

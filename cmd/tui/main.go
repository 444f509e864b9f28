package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pocketbook/internal/account"
	accountStore "github.com/MrJamesThe3rd/pocketbook/internal/account/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	categoryStore "github.com/MrJamesThe3rd/pocketbook/internal/category/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/config"
	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/export"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pocketbook/internal/transaction/store"
)

type model struct {
	txService       *transaction.Service
	categoryService *category.Service
	accountService  *account.Service
	importService   *importer.Service
	exportService   *export.Service
	budget          decimal.Decimal
	importDefaults  view.ImportDefaults

	currentView View

	summaryView view.SummaryModel
	addView     view.AddModel
	listView    view.ListModel
	importView  view.ImportModel
	exportView  view.ExportModel
}

type View int

const (
	ViewMenu    View = 0
	ViewSummary View = 1
	ViewAdd     View = 2
	ViewList    View = 3
	ViewImport  View = 4
	ViewExport  View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(cfg.ConnectionString()); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	defaultKind, err := category.ParseKind(cfg.Import.DefaultKind)
	if err != nil {
		slog.Error("invalid IMPORT_DEFAULT_KIND", "error", err)
		os.Exit(1)
	}

	txSvc := transaction.NewService(txStore.New(db))
	catSvc := category.NewService(categoryStore.New(db))
	accSvc := account.NewService(accountStore.New(db))
	impSvc := importer.NewService(catSvc, txSvc)
	expSvc := export.NewService(txSvc)

	return model{
		txService:       txSvc,
		categoryService: catSvc,
		accountService:  accSvc,
		importService:   impSvc,
		exportService:   expSvc,
		budget:          cfg.Budget.Monthly,
		importDefaults: view.ImportDefaults{
			DateFormat:              cfg.Import.DateFormat,
			CreateMissingCategories: cfg.Import.CreateMissingCategories,
			DefaultKind:             defaultKind,
		},
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewSummary
				m.summaryView = view.NewSummaryModel(m.txService, m.budget)

				return m, m.summaryView.Init()
			case "2":
				m.currentView = ViewAdd
				m.addView = view.NewAddModel(m.txService, m.categoryService, m.accountService)

				return m, m.addView.Init()
			case "3":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.txService, m.categoryService)

				return m, m.listView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService, m.importDefaults)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSummary:
		var newModel tea.Model
		newModel, cmd = m.summaryView.Update(msg)
		m.summaryView = newModel.(view.SummaryModel)
	case ViewAdd:
		var newModel tea.Model
		newModel, cmd = m.addView.Update(msg)
		m.addView = newModel.(view.AddModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Pocketbook\n\n" +
				"1. Monthly Summary\n" +
				"2. Add Transaction\n" +
				"3. Recent Transactions\n" +
				"4. Import File\n" +
				"5. Export Transactions\n\n" +
				"q. Quit",
		)
	case ViewSummary:
		current = m.summaryView
	case ViewAdd:
		current = m.addView
	case ViewList:
		current = m.listView
	case ViewImport:
		current = m.importView
	case ViewExport:
		current = m.exportView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

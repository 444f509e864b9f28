package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
)

const (
	importTimeout = 2 * time.Minute
	previewRows   = 10
)

type importState int

const (
	importStateFilePick importState = iota
	importStateOptions
	importStatePreview
	importStateImporting
	importStateResult
)

// importFields is bound to the mapping and options form. columns follows
// the order of importer.Fields.
type importFields struct {
	columns        []string
	dateFormat     string
	defaultKind    category.Kind
	createMissing  bool
	invertAmount   bool
	europeanNumber bool
}

// ImportDefaults seed the options form.
type ImportDefaults struct {
	DateFormat              string
	CreateMissingCategories bool
	DefaultKind             category.Kind
}

type ImportModel struct {
	CommonModel
	importService *importer.Service
	defaults      ImportDefaults

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	report     viewport.Model

	path    string
	table   *importer.Table
	form    *huh.Form
	fields  *importFields
	preview *importer.Preview

	result *importer.Result
	err    error
}

func NewImportModel(impSvc *importer.Service, defaults ImportDefaults) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".tsv", ".txt", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ImportModel{
		importService: impSvc,
		defaults:      defaults,
		filePicker:    fp,
		spinner:       s,
		report:        viewport.New(80, 15),
	}
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Enter: import | Esc: change options"
	case importStateResult:
		return "Up/Down: scroll | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case parsedMsg:
		if msg.err != nil {
			return m.finish(nil, msg.err), nil
		}

		m.table = msg.table
		m.fields = m.newFields(msg.table)
		m.form = m.buildForm()
		m.state = importStateOptions

		return m, m.form.Init()

	case importDoneMsg:
		return m.finish(msg.result, msg.err), nil
	}

	switch m.state {
	case importStateFilePick:
		return m.updateFilePick(msg)
	case importStateOptions:
		return m.updateOptions(msg)
	case importStatePreview:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
			m.state = importStateImporting
			return m, tea.Batch(m.spinner.Tick, m.importCmd())
		}
	case importStateImporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case importStateResult:
		var cmd tea.Cmd
		m.report, cmd = m.report.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateOptions, importStateResult:
		m.state = importStateFilePick
		m.table = nil
		m.result = nil
		m.err = nil

		return m, m.filePicker.Init()
	case importStatePreview:
		m.form = m.buildForm()
		m.state = importStateOptions

		return m, m.form.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		return m, parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	preview, err := m.importService.Preview(m.table, m.mapping(), m.options(), previewRows)
	if err != nil {
		return m.finish(nil, err), nil
	}

	m.preview = preview
	m.state = importStatePreview

	return m, nil
}

func (m ImportModel) finish(result *importer.Result, err error) ImportModel {
	m.state = importStateResult
	m.result = result
	m.err = err
	m.report.SetContent(m.renderReport())
	m.report.GotoTop()

	return m
}

func (m ImportModel) newFields(table *importer.Table) *importFields {
	inferred := importer.InferMapping(table.Columns)

	f := &importFields{
		columns:       make([]string, len(importer.Fields)),
		dateFormat:    m.defaults.DateFormat,
		defaultKind:   m.defaults.DefaultKind,
		createMissing: m.defaults.CreateMissingCategories,
	}

	for i, field := range importer.Fields {
		f.columns[i] = inferred[field]
	}

	return f
}

func (m ImportModel) buildForm() *huh.Form {
	columnOptions := []huh.Option[string]{huh.NewOption("(not mapped)", "")}
	for _, col := range m.table.Columns {
		columnOptions = append(columnOptions, huh.NewOption(col, col))
	}

	mapping := make([]huh.Field, len(importer.Fields))
	for i, field := range importer.Fields {
		mapping[i] = huh.NewSelect[string]().
			Title(strings.ToUpper(string(field[:1])) + string(field[1:])).
			Options(columnOptions...).
			Value(&m.fields.columns[i])
	}

	kinds := make([]huh.Option[category.Kind], len(category.Kinds))
	for i, k := range category.Kinds {
		kinds[i] = huh.NewOption(string(k), k)
	}

	return huh.NewForm(
		huh.NewGroup(mapping...).
			Title("Column Mapping").
			Description(fmt.Sprintf("%s: %d rows", filepath.Base(m.path), len(m.table.Rows))),
		huh.NewGroup(
			huh.NewInput().
				Title("Date Format").
				Description("strftime pattern like %d/%m/%Y; blank to guess").
				Value(&m.fields.dateFormat),

			huh.NewSelect[category.Kind]().
				Title("Default Type").
				Options(kinds...).
				Value(&m.fields.defaultKind),

			huh.NewConfirm().
				Title("Create missing categories?").
				Value(&m.fields.createMissing),

			huh.NewConfirm().
				Title("Invert amounts?").
				Value(&m.fields.invertAmount),

			huh.NewConfirm().
				Title("European number format (1.234,56)?").
				Value(&m.fields.europeanNumber),
		).Title("Options"),
	).WithWidth(60).WithShowHelp(false)
}

func (m ImportModel) mapping() importer.Mapping {
	mapping := make(importer.Mapping)
	for i, field := range importer.Fields {
		mapping.Set(field, m.fields.columns[i])
	}

	return mapping
}

func (m ImportModel) options() importer.Options {
	return importer.Options{
		DateFormat:              strings.TrimSpace(m.fields.dateFormat),
		InvertAmount:            m.fields.invertAmount,
		EuropeanNumbers:         m.fields.europeanNumber,
		DefaultKind:             m.fields.defaultKind,
		CreateMissingCategories: m.fields.createMissing,
	}
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return paneStyle.Render("Select a CSV or Excel file to import:\n\n" + m.filePicker.View())
	case importStateOptions:
		return paneStyle.Render(m.form.View())
	case importStatePreview:
		return paneStyle.Render(m.viewPreview())
	case importStateImporting:
		return paneStyle.Render(fmt.Sprintf("%s Importing %s...", m.spinner.View(), filepath.Base(m.path)))
	case importStateResult:
		return paneStyle.Render(m.report.View() + "\n\n" + faintStyle.Render("(Esc to go back)"))
	}

	return ""
}

func (m ImportModel) viewPreview() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Preview: %d of %d rows\n\n", len(m.preview.Records), m.preview.Total)

	for _, rec := range m.preview.Records {
		date, amount := "?", "?"
		if rec.Date != nil {
			date = FormatDate(*rec.Date)
		}

		if rec.Amount != nil {
			amount = FormatAmount(*rec.Amount)
		}

		fmt.Fprintf(&b, "%4d  %-10s  %10s  %-20s  %s (%s)\n",
			rec.Line, date, amount, rec.Description, rec.Category, rec.Kind)
	}

	for _, w := range m.preview.Warnings {
		b.WriteString("\n" + errorStyle.Render(string(w)))
	}

	b.WriteString("\n\n" + faintStyle.Render("Enter to import, Esc to change options"))

	return b.String()
}

func (m ImportModel) renderReport() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if m.result == nil {
		return b.String()
	}

	r := m.result
	b.WriteString(successStyle.Render(fmt.Sprintf("Imported %d of %d rows.", r.Imported, r.Presented)))

	for _, w := range r.Warnings {
		b.WriteString("\n" + string(w))
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "\n\nSkipped %d:\n", len(r.Skipped))

		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "  line %d: %s\n", s.Line, s.Reason)
		}
	}

	return b.String()
}

type parsedMsg struct {
	table *importer.Table
	err   error
}

type importDoneMsg struct {
	result *importer.Result
	err    error
}

func parseCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		table, err := importer.Parse(filepath.Base(path), f)
		if err == nil && len(table.Rows) == 0 {
			err = errors.New("the file has no data rows")
		}

		return parsedMsg{table: table, err: err}
	}
}

func (m ImportModel) importCmd() tea.Cmd {
	table, mapping, opts := m.table, m.mapping(), m.options()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.Import(ctx, table, mapping, opts)

		return importDoneMsg{result: result, err: err}
	}
}

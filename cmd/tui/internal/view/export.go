package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/export"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStateOptions
	exportStateExporting
	exportStateResult
)

// exportFields is bound to the options form.
type exportFields struct {
	format export.Format
	dir    string
}

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state           exportState
	err             error
	timeframePicker TimeframePicker
	filter          transaction.Filter

	form    *huh.Form
	fields  *exportFields
	spinner spinner.Model
	written string
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService:   svc,
		state:           exportStateTimeframe,
		timeframePicker: NewTimeframePicker(),
		fields:          &exportFields{format: export.FormatCSV, dir: "./exports"},
		spinner:         s,
	}
}

func (m ExportModel) Title() string { return "Export Transactions" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.filter = transaction.Filter{Start: tfMsg.Start, End: tfMsg.End}
		m.form = m.buildOptionsForm()
		m.state = exportStateOptions

		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStateOptions:
		return m.updateOptions(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ExportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = exportStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.filter, *m.fields))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.written = result.path

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) buildOptionsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[export.Format]().
				Title("Format").
				Options(
					huh.NewOption("CSV", export.FormatCSV),
					huh.NewOption("Excel (xlsx)", export.FormatXLSX),
				).
				Value(&m.fields.format),

			huh.NewInput().
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.fields.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateTimeframe:
		return paneStyle.Render(m.timeframePicker.View())

	case exportStateOptions:
		return paneStyle.Render(m.form.View())

	case exportStateExporting:
		return paneStyle.Render(fmt.Sprintf("%s Exporting transactions...", m.spinner.View()))

	case exportStateResult:
		if m.err != nil {
			return paneStyle.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}

		return paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Export Complete!"),
			"",
			"Written to "+m.written,
		))
	}

	return ""
}

type exportResultMsg struct {
	path string
	err  error
}

func (m ExportModel) runExportCmd(filter transaction.Filter, fields exportFields) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		if err := os.MkdirAll(fields.dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
		}

		path := filepath.Join(fields.dir, fields.format.Filename(time.Now()))

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: fmt.Errorf("creating export file: %w", err)}
		}

		if err := m.exportService.Export(ctx, filter, fields.format, f); err != nil {
			f.Close()
			return exportResultMsg{err: err}
		}

		if err := f.Close(); err != nil {
			return exportResultMsg{err: fmt.Errorf("closing export file: %w", err)}
		}

		return exportResultMsg{path: path}
	}
}

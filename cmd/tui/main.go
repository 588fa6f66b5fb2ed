package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/careledger/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/careledger/internal/app"
	"github.com/MrJamesThe3rd/careledger/internal/config"
)

type model struct {
	app        *app.App
	orgID      uuid.UUID
	reviewerID uuid.UUID

	currentView View

	importView         view.ImportModel
	changeReviewView   view.ReviewModel
	unavailabilityView view.ReviewModel
	invoicesView       view.InvoicesModel
	rotaView           view.RotaModel
	exportView         view.ExportModel
}

type View int

const (
	ViewMenu           View = 0
	ViewImport         View = 1
	ViewChangeReview   View = 2
	ViewUnavailability View = 3
	ViewInvoices       View = 4
	ViewRota           View = 5
	ViewExport         View = 6
)

func initialModel(a *app.App, orgID, reviewerID uuid.UUID) model {
	return model{
		app:         a,
		orgID:       orgID,
		reviewerID:  reviewerID,
		currentView: ViewMenu,
		importView:  view.NewImportModel(a.Expenses, a.Parser, orgID),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				return m, m.importView.Init()
			case "2":
				m.currentView = ViewChangeReview
				m.changeReviewView = view.NewReviewModel(m.app.Bookings, m.orgID, m.reviewerID, view.KindChangeRequests)

				return m, m.changeReviewView.Init()
			case "3":
				m.currentView = ViewUnavailability
				m.unavailabilityView = view.NewReviewModel(m.app.Bookings, m.orgID, m.reviewerID, view.KindUnavailability)

				return m, m.unavailabilityView.Init()
			case "4":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.app.Invoices, m.orgID, m.reviewerID)

				return m, m.invoicesView.Init()
			case "5":
				m.currentView = ViewRota
				m.rotaView = view.NewRotaModel(m.app.Bookings, m.orgID)

				return m, m.rotaView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Exports, m.orgID)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewChangeReview:
		var newModel tea.Model
		newModel, cmd = m.changeReviewView.Update(msg)
		m.changeReviewView = newModel.(view.ReviewModel)
	case ViewUnavailability:
		var newModel tea.Model
		newModel, cmd = m.unavailabilityView.Update(msg)
		m.unavailabilityView = newModel.(view.ReviewModel)
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewRota:
		var newModel tea.Model
		newModel, cmd = m.rotaView.Update(msg)
		m.rotaView = newModel.(view.RotaModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"CareLedger Console\n\n" +
				"1. Import Expenses\n" +
				"2. Review Change Requests\n" +
				"3. Review Carer Unavailability\n" +
				"4. Invoices\n" +
				"5. Visit Rota\n" +
				"6. Export Invoices\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewChangeReview:
		return m.changeReviewView.View()
	case ViewUnavailability:
		return m.unavailabilityView.View()
	case ViewInvoices:
		return m.invoicesView.View()
	case ViewRota:
		return m.rotaView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	orgID, reviewerID, err := cfg.ConsoleIdentity()
	if err != nil {
		slog.Error("console identity not configured", "error", err)
		os.Exit(1)
	}

	a, err := app.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a, orgID, reviewerID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

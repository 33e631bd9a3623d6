package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/sharemal/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	billStore "github.com/MrJamesThe3rd/sharemal/internal/bill/store"
	"github.com/MrJamesThe3rd/sharemal/internal/config"
	"github.com/MrJamesThe3rd/sharemal/internal/database"
	"github.com/MrJamesThe3rd/sharemal/pkg/logging"
)

const logFile = "sharemal-tui.log"

type model struct {
	billService *bill.Service

	currentView View

	billsView  view.BillsModel
	detailView view.DetailModel
	createView view.CreateModel
}

type View int

const (
	ViewMenu   View = 0
	ViewBills  View = 1
	ViewDetail View = 2
	ViewCreate View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logs go to a file while the UI owns the terminal.
	f, err := tea.LogToFile(logFile, "")
	if err != nil {
		slog.Error("failed to open log file", "path", logFile, "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(f, logging.ParseLevel(cfg.Log.Level), logging.FormatJSON))

	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(context.Background(), db, cfg.DB.Driver); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	billSvc := bill.NewService(billStore.New(db, cfg.DB.Driver))

	return model{
		billService: billSvc,
		currentView: ViewMenu,
		billsView:   view.NewBillsModel(billSvc),
		createView:  view.NewCreateModel(billSvc),
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
				m.currentView = ViewBills
				m.billsView = view.NewBillsModel(m.billService)

				return m, m.billsView.Init()
			case "2":
				m.currentView = ViewCreate
				m.createView = view.NewCreateModel(m.billService)

				return m, m.createView.Init()
			}
		}
	case view.OpenBillMsg:
		m.currentView = ViewDetail
		m.detailView = view.NewDetailModel(m.billService, msg.ID)

		return m, m.detailView.Init()
	case view.BackMsg:
		if m.currentView == ViewDetail {
			m.currentView = ViewBills
			m.billsView = view.NewBillsModel(m.billService)

			return m, m.billsView.Init()
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewBills:
		var newModel tea.Model
		newModel, cmd = m.billsView.Update(msg)
		m.billsView = newModel.(view.BillsModel)
	case ViewDetail:
		var newModel tea.Model
		newModel, cmd = m.detailView.Update(msg)
		m.detailView = newModel.(view.DetailModel)
	case ViewCreate:
		var newModel tea.Model
		newModel, cmd = m.createView.Update(msg)
		m.createView = newModel.(view.CreateModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Sharemal TUI\n\n" +
				"1. Browse Bills\n" +
				"2. New Equal Split\n\n" +
				"q. Quit",
		)
	case ViewBills:
		return m.billsView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewCreate:
		return m.createView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
)

// OpenBillMsg asks the parent to show the detail screen for a bill.
type OpenBillMsg struct {
	ID uuid.UUID
}

var statusFilters = []struct {
	label  string
	status *bill.Status
}{
	{"All", nil},
	{"Incomplete", new(bill.StatusIncomplete)},
	{"Complete", new(bill.StatusComplete)},
	{"Paid", new(bill.StatusPaid)},
}

type BillsModel struct {
	CommonModel
	billService *bill.Service

	table table.Model
	bills []*bill.Bill

	statusFilterIdx int
	filter          bill.ListFilter

	loading bool
	err     error
}

func NewBillsModel(billSvc *bill.Service) BillsModel {
	return BillsModel{
		billService: billSvc,
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Title", Width: 30},
			{Title: "Total", Width: 12},
			{Title: "Split", Width: 9},
			{Title: "Paid", Width: 7},
			{Title: "Status", Width: 12},
		}),
		loading: true,
	}
}

func (m BillsModel) Title() string { return "Bills" }

func (m BillsModel) ShortHelp() string {
	return "Esc: back | Enter: open | s: status filter | r: refresh"
}

func (m BillsModel) Init() tea.Cmd {
	return m.loadBillsCmd()
}

func (m BillsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBillsMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.bills = msg.bills
			m.refreshTable()
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 10)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadBillsCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.filter.Status = statusFilters[m.statusFilterIdx].status
			m.loading = true

			return m, m.loadBillsCmd()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.bills) {
				return m, nil
			}

			id := m.bills[idx].ID

			return m, func() tea.Msg { return OpenBillMsg{ID: id} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BillsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading bills...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Filter: [s] Status: %s | %d bills",
		activeStyle(statusFilters[m.statusFilterIdx].label), len(m.bills))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *BillsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.bills))
	for _, b := range m.bills {
		rows = append(rows, table.Row{
			FormatDate(b.Date),
			b.Title,
			FormatAmount(b.TotalAmount),
			string(b.Strategy),
			fmt.Sprintf("%d/%d", b.PaidCount(), len(b.Participants)),
			string(b.Status),
		})
	}

	m.table.SetRows(rows)
}

type loadBillsMsg struct {
	bills []*bill.Bill
	err   error
}

func (m BillsModel) loadBillsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bills, err := m.billService.List(ctx, filter)

		return loadBillsMsg{bills: bills, err: err}
	}
}

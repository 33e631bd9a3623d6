package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
)

type DetailModel struct {
	CommonModel
	billService *bill.Service

	id    uuid.UUID
	bill  *bill.Bill
	table table.Model

	confirmDelete bool
	loading       bool
	err           error
	status        string
}

func NewDetailModel(billSvc *bill.Service, id uuid.UUID) DetailModel {
	return DetailModel{
		billService: billSvc,
		id:          id,
		table: newTable([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Name", Width: 30},
			{Title: "Amount", Width: 12},
			{Title: "Payment", Width: 10},
		}),
		loading: true,
	}
}

func (m DetailModel) Title() string { return "Bill" }

func (m DetailModel) ShortHelp() string {
	if m.confirmDelete {
		return "y: delete bill | any other key: cancel"
	}

	return "Esc: back | Space: toggle payment | c: recompute status | d: delete"
}

func (m DetailModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case billMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			if m.bill == nil {
				m.err = msg.err
			}

			return m, nil
		}

		m.bill = msg.bill
		m.status = msg.note
		m.refreshTable()

		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}

		return m, Back

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 14)

		return m, nil

	case tea.KeyMsg:
		if m.confirmDelete {
			m.confirmDelete = false
			if msg.String() == "y" {
				return m, m.deleteCmd()
			}

			m.status = ""

			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case " ", "p":
			return m, m.toggleCmd()
		case "c":
			return m, m.recomputeCmd()
		case "d":
			if m.bill != nil {
				m.confirmDelete = true
				m.status = fmt.Sprintf("Delete %q and all its participants?", m.bill.Title)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DetailModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading bill...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	b := m.bill
	header := fmt.Sprintf("%s\n%s | Total %s | %s split | %s (%d/%d paid)",
		lipgloss.NewStyle().Bold(true).Render(b.Title),
		FormatDate(b.Date),
		FormatAmount(b.TotalAmount),
		b.Strategy,
		activeStyle(string(b.Status)),
		b.PaidCount(), len(b.Participants),
	)

	parts := []string{
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	}

	if m.status != "" {
		parts = append(parts, lipgloss.NewStyle().Faint(true).Render(m.status))
	}

	parts = append(parts, lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m *DetailModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.bill.Participants))
	for i, p := range m.bill.Participants {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			p.Name,
			FormatAmount(p.Amount),
			string(p.PaymentStatus),
		})
	}

	m.table.SetRows(rows)
}

func (m DetailModel) selected() (uuid.UUID, bool) {
	if m.bill == nil {
		return uuid.Nil, false
	}

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.bill.Participants) {
		return uuid.Nil, false
	}

	return m.bill.Participants[idx].ID, true
}

type billMsg struct {
	bill *bill.Bill
	note string
	err  error
}

type deletedMsg struct {
	err error
}

func (m DetailModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		b, err := m.billService.Get(ctx, m.id)

		return billMsg{bill: b, err: err}
	}
}

func (m DetailModel) toggleCmd() tea.Cmd {
	participantID, ok := m.selected()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		b, err := m.billService.TogglePayment(ctx, m.id, participantID)
		if err != nil {
			return billMsg{err: err}
		}

		p := b.Participant(participantID)

		return billMsg{bill: b, note: fmt.Sprintf("%s is now %s", p.Name, p.PaymentStatus)}
	}
}

func (m DetailModel) recomputeCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		b, err := m.billService.RecomputeStatus(ctx, m.id)
		if err != nil {
			return billMsg{err: err}
		}

		return billMsg{bill: b, note: "Status recomputed from payments"}
	}
}

func (m DetailModel) deleteCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return deletedMsg{err: m.billService.Delete(ctx, m.id)}
	}
}

package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

type CreateModel struct {
	CommonModel
	billService *bill.Service

	form *huh.Form

	saving bool
	status string

	// Form bindings, shared by copies of the model.
	fields *createFields
}

type createFields struct {
	title string
	total string
	date  string
	names string
}

func NewCreateModel(billSvc *bill.Service) CreateModel {
	m := CreateModel{
		billService: billSvc,
		fields:      &createFields{date: FormatDate(time.Now())},
	}
	m.form = m.buildForm()

	return m
}

func (m CreateModel) Title() string { return "New Bill" }

func (m CreateModel) ShortHelp() string {
	return "Tab/Enter: next field | Esc: cancel"
}

func (m CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createdMsg:
		m.saving = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		id := msg.bill.ID

		return m, func() tea.Msg { return OpenBillMsg{ID: id} }

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.saving {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	params, err := CreateParams(m.fields.title, m.fields.total, m.fields.date, m.fields.names)
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	m.saving = true
	m.status = "Saving..."

	return m, m.saveCmd(params)
}

func (m CreateModel) View() string {
	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(60).
		Render("New equal split\n\n" + m.form.View())

	parts := []string{panel}
	if m.status != "" {
		parts = append(parts, lipgloss.NewStyle().Faint(true).Render(m.status))
	}

	parts = append(parts, lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m CreateModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&m.fields.title).
				Validate(notBlank("title")),

			huh.NewInput().
				Key("total").
				Title("Total").
				Placeholder("100.00").
				Value(&m.fields.total).
				Validate(func(s string) error {
					_, err := money.Parse(strings.TrimSpace(s))
					return err
				}),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("2006-01-02").
				Value(&m.fields.date).
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
					return err
				}),

			huh.NewInput().
				Key("names").
				Title("Participants").
				Description("Comma separated, in order").
				Placeholder("Alice, Bob, Carol").
				Value(&m.fields.names).
				Validate(notBlank("participants")),
		),
	).WithWidth(55).WithShowHelp(false)
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

// CreateParams turns raw form input into an equal split request. Blank
// names between commas are dropped.
func CreateParams(title, total, date, names string) (bill.CreateParams, error) {
	amount, err := money.Parse(strings.TrimSpace(total))
	if err != nil {
		return bill.CreateParams{}, err
	}

	d, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return bill.CreateParams{}, fmt.Errorf("date must be formatted as 2006-01-02: %w", err)
	}

	var shares []bill.ShareInput

	for name := range strings.SplitSeq(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			shares = append(shares, bill.ShareInput{Name: name})
		}
	}

	if len(shares) == 0 {
		return bill.CreateParams{}, errors.New("at least one participant is required")
	}

	return bill.CreateParams{
		Title:        strings.TrimSpace(title),
		TotalAmount:  amount,
		Strategy:     bill.StrategyEqually,
		Date:         d,
		Participants: shares,
	}, nil
}

type createdMsg struct {
	bill *bill.Bill
	err  error
}

func (m CreateModel) saveCmd(params bill.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		b, err := m.billService.Create(ctx, params)

		return createdMsg{bill: b, err: err}
	}
}

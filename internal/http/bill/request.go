package bill

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

// Field rules only; domain rules such as strategy or positive totals are
// checked by the service so the error codes stay consistent.
type participantRequest struct {
	Name   string        `json:"name" validate:"required,max=100"`
	Amount *money.Amount `json:"amount"`
}

type createBillRequest struct {
	Title        string               `json:"title" validate:"required,max=255"`
	TotalAmount  *money.Amount        `json:"total_amount" validate:"required"`
	Strategy     bill.Strategy        `json:"strategy"`
	Date         string               `json:"date" validate:"required,datetime=2006-01-02"`
	Participants []participantRequest `json:"participants" validate:"dive"`
}

func (req createBillRequest) params() (bill.CreateParams, error) {
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return bill.CreateParams{}, err
	}

	shares := make([]bill.ShareInput, len(req.Participants))
	for i, p := range req.Participants {
		shares[i] = bill.ShareInput{Name: strings.TrimSpace(p.Name), Amount: p.Amount}
	}

	return bill.CreateParams{
		Title:        strings.TrimSpace(req.Title),
		TotalAmount:  *req.TotalAmount,
		Strategy:     bill.Strategy(strings.ToUpper(string(req.Strategy))),
		Date:         date,
		Participants: shares,
	}, nil
}

type updateBillRequest struct {
	Title       *string        `json:"title,omitempty" validate:"omitempty,max=255"`
	TotalAmount *money.Amount  `json:"total_amount,omitempty"`
	Strategy    *bill.Strategy `json:"strategy,omitempty"`
	Date        *string        `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status      *bill.Status   `json:"status,omitempty"`
}

func (req updateBillRequest) params() (bill.UpdateParams, error) {
	params := bill.UpdateParams{
		TotalAmount: req.TotalAmount,
	}

	if req.Status != nil {
		params.Status = new(bill.Status(strings.ToUpper(string(*req.Status))))
	}

	if req.Title != nil {
		params.Title = new(strings.TrimSpace(*req.Title))
	}

	if req.Strategy != nil {
		params.Strategy = new(bill.Strategy(strings.ToUpper(string(*req.Strategy))))
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			return bill.UpdateParams{}, err
		}

		params.Date = &date
	}

	return params, nil
}

type setPaymentRequest struct {
	PaymentStatus bill.PaymentStatus `json:"payment_status" validate:"required,oneof=PAID UNPAID"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

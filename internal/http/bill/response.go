package bill

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

type ParticipantResponse struct {
	ID            uuid.UUID          `json:"id"`
	BillID        uuid.UUID          `json:"bill_id"`
	Name          string             `json:"name"`
	Amount        money.Amount       `json:"amount"`
	PaymentStatus bill.PaymentStatus `json:"payment_status"`
}

type BillResponse struct {
	ID           uuid.UUID             `json:"id"`
	Title        string                `json:"title"`
	TotalAmount  money.Amount          `json:"total_amount"`
	Strategy     bill.Strategy         `json:"strategy"`
	Date         string                `json:"date"`
	Status       bill.Status           `json:"status"`
	PaidCount    int                   `json:"paid_count"`
	Participants []ParticipantResponse `json:"participants"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

func toParticipantResponse(p *bill.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:            p.ID,
		BillID:        p.BillID,
		Name:          p.Name,
		Amount:        p.Amount,
		PaymentStatus: p.PaymentStatus,
	}
}

func ToResponse(b *bill.Bill) BillResponse {
	participants := make([]ParticipantResponse, len(b.Participants))
	for i := range b.Participants {
		participants[i] = toParticipantResponse(&b.Participants[i])
	}

	return BillResponse{
		ID:           b.ID,
		Title:        b.Title,
		TotalAmount:  b.TotalAmount,
		Strategy:     b.Strategy,
		Date:         b.Date.Format(time.DateOnly),
		Status:       b.Status,
		PaidCount:    b.PaidCount(),
		Participants: participants,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func toResponseList(bills []*bill.Bill) []BillResponse {
	responses := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		responses = append(responses, ToResponse(b))
	}

	return responses
}

func toParticipantList(participants []*bill.Participant) []ParticipantResponse {
	responses := make([]ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		responses = append(responses, toParticipantResponse(p))
	}

	return responses
}

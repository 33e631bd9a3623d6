package importcsv

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	billhttp "github.com/MrJamesThe3rd/sharemal/internal/http/bill"
	"github.com/MrJamesThe3rd/sharemal/internal/http/response"
	"github.com/MrJamesThe3rd/sharemal/internal/importer"
	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	billSvc   *bill.Service
}

func NewHandler(importSvc *importer.Service, billSvc *bill.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		billSvc:   billSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importBill)
}

type importResponse struct {
	Imported int                   `json:"imported"`
	Bill     billhttp.BillResponse `json:"bill"`
}

// importBill creates a bill whose participants come from an uploaded roster.
func (h *Handler) importBill(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.Validation(w, errors.New("failed to parse form: "+err.Error()))
		return
	}

	var missing []string

	for _, field := range []string{"title", "total_amount", "strategy", "date"} {
		if strings.TrimSpace(r.FormValue(field)) == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		response.Validation(w, errors.New(strings.Join(missing, ", ")+" required"))
		return
	}

	total, err := money.Parse(strings.TrimSpace(r.FormValue("total_amount")))
	if err != nil {
		if errors.Is(err, money.ErrTooPrecise) || errors.Is(err, money.ErrOutOfRange) {
			response.Error(w, r, err)
			return
		}

		response.Validation(w, errors.New("total_amount must be a decimal number"))

		return
	}

	date, err := time.Parse(time.DateOnly, strings.TrimSpace(r.FormValue("date")))
	if err != nil {
		response.Validation(w, errors.New("date must be formatted as 2006-01-02"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.Validation(w, errors.New("file field is required"))
		return
	}
	defer file.Close()

	shares, err := h.importSvc.Import(importer.Format(r.FormValue("format")), file)
	if err != nil {
		if errors.Is(err, money.ErrTooPrecise) || errors.Is(err, money.ErrOutOfRange) {
			response.Error(w, r, err)
			return
		}

		response.Validation(w, err)

		return
	}

	b, err := h.billSvc.Create(r.Context(), bill.CreateParams{
		Title:        strings.TrimSpace(r.FormValue("title")),
		TotalAmount:  total,
		Strategy:     bill.Strategy(strings.ToUpper(strings.TrimSpace(r.FormValue("strategy")))),
		Date:         date,
		Participants: shares,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, importResponse{
		Imported: len(b.Participants),
		Bill:     billhttp.ToResponse(b),
	})
}

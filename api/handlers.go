/*
handlers.go - HTTP API handlers for the workforce ledger

PURPOSE:
  Exposes the workforce ledger via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the ledger. The ledger owns all
  state; handlers hold no domain data of their own.

ENDPOINTS:
  Labourers:
    GET    /api/labourers                          List labourers with attendance
    GET    /api/labourers/{id}                     Get one labourer
    POST   /api/labourers/{id}/attendance          Record a day's status
    POST   /api/labourers/{id}/attendance/toggle   Flip a day between status and absent

  Contractors:
    GET    /api/contractors                        List contractors
    GET    /api/contractors/ledger                 Crew cost, burn and runway
    POST   /api/contractors/{id}/releases          Release a payment
    GET    /api/contractors/{id}/releases          Payment release history

  Work orders:
    GET    /api/work-orders                        List work orders
    GET    /api/work-orders/board                  Work orders grouped by status
    PUT    /api/work-orders/{id}/status            Set status

  Reporting:
    GET    /api/attendance/dates                   Distinct recorded dates
    GET    /api/payouts?from&to                    Payout statement
    GET    /api/payouts/statement.xlsx?from&to     Payout statement as a workbook
    GET    /api/suggestions                        Operational alerts
    GET    /api/overview                           Headline metrics

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Labourer, contractor or work order not found
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/warp/workforce-ledger/report"
	"github.com/warp/workforce-ledger/workforce"
)

// DefaultPayoutWindowDays is how far back a payout statement reaches when
// the request gives no from date.
const DefaultPayoutWindowDays = 7

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger *workforce.Ledger

	// Sink, when set, receives every population loaded from a scenario.
	Sink workforce.Sink

	// Now supplies "today" for default payout ranges.
	Now func() time.Time

	validate *validator.Validate

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler around ledger. sink may be nil.
func NewHandler(ledger *workforce.Ledger, sink workforce.Sink) *Handler {
	return &Handler{
		Ledger:   ledger,
		Sink:     sink,
		Now:      time.Now,
		validate: validator.New(),
	}
}

// =============================================================================
// LABOURER HANDLERS
// =============================================================================

// ListLabourers returns all labourers in insertion order.
func (h *Handler) ListLabourers(w http.ResponseWriter, r *http.Request) {
	snap := h.Ledger.Snapshot()
	dtos := make([]LabourerDTO, 0, len(snap.LabourerOrder))
	for _, l := range snap.OrderedLabourers() {
		var cid workforce.ContractorID
		if c, ok := snap.ContractorOf(l.ID); ok {
			cid = c.ID
		}
		dtos = append(dtos, toLabourerDTO(l, cid))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLabourer returns a single labourer.
func (h *Handler) GetLabourer(w http.ResponseWriter, r *http.Request) {
	id := workforce.LabourerID(chi.URLParam(r, "id"))
	snap := h.Ledger.Snapshot()
	l, ok := snap.Labourers[id]
	if !ok {
		writeDomainError(w, "Labourer not found", &workforce.NotFoundError{Kind: "labourer", ID: string(id)})
		return
	}
	var cid workforce.ContractorID
	if c, ok := snap.ContractorOf(id); ok {
		cid = c.ID
	}
	writeJSON(w, http.StatusOK, toLabourerDTO(l, cid))
}

// RecordAttendance stores a day's status for a labourer.
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	id := workforce.LabourerID(chi.URLParam(r, "id"))

	var req RecordAttendanceRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := workforce.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	var hours *decimal.Decimal
	if req.Hours != nil {
		d := decimalFromFloat(*req.Hours)
		hours = &d
	}
	if err := h.Ledger.RecordAttendance(id, date, workforce.AttendanceStatus(req.Status), hours); err != nil {
		writeDomainError(w, "Failed to record attendance", err)
		return
	}

	l, err := h.Ledger.Labourer(id)
	if err != nil {
		writeDomainError(w, "Failed to reload labourer", err)
		return
	}
	rec, _ := l.AttendanceOn(date)
	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// ToggleAttendance flips a day between the requested status and absent.
func (h *Handler) ToggleAttendance(w http.ResponseWriter, r *http.Request) {
	id := workforce.LabourerID(chi.URLParam(r, "id"))

	var req ToggleAttendanceRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := workforce.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	rec, err := h.Ledger.ToggleAttendance(id, date, workforce.AttendanceStatus(req.Status))
	if err != nil {
		writeDomainError(w, "Failed to toggle attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// =============================================================================
// CONTRACTOR HANDLERS
// =============================================================================

func (h *Handler) ListContractors(w http.ResponseWriter, r *http.Request) {
	contractors := h.Ledger.ContractorList()
	dtos := make([]ContractorDTO, 0, len(contractors))
	for _, c := range contractors {
		dtos = append(dtos, toContractorDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetContractorLedger returns crew size, daily burn and runway per contractor.
func (h *Handler) GetContractorLedger(w http.ResponseWriter, r *http.Request) {
	positions := h.Ledger.ContractorLedger()
	dtos := make([]ContractorPositionDTO, 0, len(positions))
	for _, p := range positions {
		dtos = append(dtos, ContractorPositionDTO{
			Contractor:    toContractorDTO(p.Contractor),
			LabourerCount: p.LabourerCount,
			DailyBurn:     p.DailyBurn.InexactFloat64(),
			Runway:        p.Runway,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ReleasePayment decrements a contractor's balance and returns the audit entry.
func (h *Handler) ReleasePayment(w http.ResponseWriter, r *http.Request) {
	id := workforce.ContractorID(chi.URLParam(r, "id"))

	var req ReleasePaymentRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Ledger.ReleasePayment(id, decimalFromFloat(req.Amount)); err != nil {
		writeDomainError(w, "Failed to release payment", err)
		return
	}

	releases, err := h.Ledger.PaymentReleases(id)
	if err != nil || len(releases) == 0 {
		writeError(w, http.StatusInternalServerError, "Failed to read payment release", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentReleaseDTO(releases[len(releases)-1]))
}

// ListPaymentReleases returns a contractor's release history, oldest first.
func (h *Handler) ListPaymentReleases(w http.ResponseWriter, r *http.Request) {
	id := workforce.ContractorID(chi.URLParam(r, "id"))
	releases, err := h.Ledger.PaymentReleases(id)
	if err != nil {
		writeDomainError(w, "Failed to list payment releases", err)
		return
	}
	dtos := make([]PaymentReleaseDTO, 0, len(releases))
	for _, p := range releases {
		dtos = append(dtos, toPaymentReleaseDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// WORK ORDER HANDLERS
// =============================================================================

func (h *Handler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toWorkOrderDTOs(h.Ledger.WorkOrderList()))
}

// GetWorkOrderBoard groups work orders by status. Every status is present.
func (h *Handler) GetWorkOrderBoard(w http.ResponseWriter, r *http.Request) {
	board := h.Ledger.WorkOrderBoard()
	dto := make(map[string][]WorkOrderDTO, len(board))
	for status, orders := range board {
		dto[string(status)] = toWorkOrderDTOs(orders)
	}
	writeJSON(w, http.StatusOK, dto)
}

// UpdateWorkOrderStatus sets a work order's status.
func (h *Handler) UpdateWorkOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := workforce.WorkOrderID(chi.URLParam(r, "id"))

	var req UpdateWorkOrderStatusRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Ledger.SetWorkOrderStatus(id, workforce.WorkOrderStatus(req.Status)); err != nil {
		writeDomainError(w, "Failed to update work order", err)
		return
	}

	order, ok := h.Ledger.WorkOrders()[id]
	if !ok {
		writeError(w, http.StatusInternalServerError, "Work order vanished after update", nil)
		return
	}
	writeJSON(w, http.StatusOK, toWorkOrderDTO(order))
}

// =============================================================================
// REPORTING HANDLERS
// =============================================================================

func (h *Handler) ListAttendanceDates(w http.ResponseWriter, r *http.Request) {
	dates := h.Ledger.AttendanceDates()
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.String())
	}
	writeJSON(w, http.StatusOK, out)
}

// GetPayouts computes the payout statement for ?from&to.
func (h *Handler) GetPayouts(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.payoutRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	summaries := h.Ledger.ComputePayouts(from, to)
	resp := PayoutResponse{
		From:         from.String(),
		To:           to.String(),
		Summaries:    make([]PayoutSummaryDTO, 0, len(summaries)),
		TotalPayable: workforce.TotalPayable(summaries).InexactFloat64(),
	}
	for _, s := range summaries {
		resp.Summaries = append(resp.Summaries, toPayoutSummaryDTO(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// DownloadPayoutStatement writes the payout statement as an XLSX attachment.
func (h *Handler) DownloadPayoutStatement(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.payoutRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	var buf bytes.Buffer
	if err := report.WritePayoutStatement(&buf, from, to, h.Ledger.ComputePayouts(from, to)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write payout statement", err)
		return
	}

	filename := fmt.Sprintf("payouts_%s_%s.xlsx", from, to)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSuggestionDTOs(h.Ledger.GenerateSuggestions()))
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toOverviewDTO(h.Ledger.Overview()))
}

// payoutRange reads ?from and ?to, defaulting to the last seven days
// through today. An inverted range is passed through; it yields an empty
// statement.
func (h *Handler) payoutRange(r *http.Request) (workforce.Date, workforce.Date, error) {
	today := workforce.DateOf(h.Now())
	from := today.AddDays(-DefaultPayoutWindowDays)
	to := today

	if v := r.URL.Query().Get("from"); v != "" {
		d, err := workforce.ParseDate(v)
		if err != nil {
			return workforce.Date{}, workforce.Date{}, fmt.Errorf("from: %w", err)
		}
		from = d
	}
	if v := r.URL.Query().Get("to"); v != "" {
		d, err := workforce.ParseDate(v)
		if err != nil {
			return workforce.Date{}, workforce.Date{}, fmt.Errorf("to: %w", err)
		}
		to = d
	}
	return from, to, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeRequest decodes the JSON body into dst and runs its validate tags.
func (h *Handler) decodeRequest(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("field %s failed %q validation", fe.Field(), fe.Tag())
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps ledger errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case workforce.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case workforce.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

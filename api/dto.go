/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the workforce domain model from the external API contract. Amounts,
  rates and hours travel as float64; the ledger keeps them as decimals.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request types carry validator/v10 struct tags. Handlers run them through
  decodeRequest before touching the ledger; the ledger still rejects
  anything the tags let through (unknown ids, non-positive amounts).

SEE ALSO:
  - handlers.go: Uses these types
  - workforce/types.go: Domain records
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/workforce-ledger/workforce"
)

// =============================================================================
// LABOURERS
// =============================================================================

type AttendanceDTO struct {
	Date   string   `json:"date"`
	Status string   `json:"status"`
	Hours  *float64 `json:"hours,omitempty"`
}

type LabourerDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Role         string          `json:"role"`
	Rate         float64         `json:"rate"`
	ContractorID string          `json:"contractor_id,omitempty"`
	Attendance   []AttendanceDTO `json:"attendance"`
}

// RecordAttendanceRequest sets one day's status. Hours are optional; the
// attendance policy fills them in for non-absent days.
type RecordAttendanceRequest struct {
	Date   string   `json:"date" validate:"required,datetime=2006-01-02"`
	Status string   `json:"status" validate:"required,oneof=present absent half overtime"`
	Hours  *float64 `json:"hours" validate:"omitempty,gte=0,lte=24"`
}

type ToggleAttendanceRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Status string `json:"status" validate:"required,oneof=present absent half overtime"`
}

// =============================================================================
// CONTRACTORS
// =============================================================================

type ContractorDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Company   string   `json:"company"`
	Contact   string   `json:"contact"`
	Balance   float64  `json:"balance"`
	Labourers []string `json:"labourers"`
}

// ContractorPositionDTO is one row of the contractor ledger view.
type ContractorPositionDTO struct {
	Contractor    ContractorDTO `json:"contractor"`
	LabourerCount int           `json:"labourer_count"`
	DailyBurn     float64       `json:"daily_burn"`
	Runway        int64         `json:"runway"`
}

type ReleasePaymentRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

type PaymentReleaseDTO struct {
	ID           string  `json:"id"`
	ContractorID string  `json:"contractor_id"`
	Amount       float64 `json:"amount"`
	BalanceAfter float64 `json:"balance_after"`
	ReleasedAt   string  `json:"released_at"`
}

// =============================================================================
// WORK ORDERS
// =============================================================================

type WorkOrderDTO struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	ContractorID   string   `json:"contractor_id,omitempty"`
	Labourers      []string `json:"labourers"`
	Status         string   `json:"status"`
	StartDate      string   `json:"start_date"`
	EndDate        *string  `json:"end_date,omitempty"`
	EstimatedHours float64  `json:"estimated_hours"`
	Location       string   `json:"location,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

type UpdateWorkOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled in_progress completed blocked"`
}

// =============================================================================
// PAYOUTS, SUGGESTIONS, OVERVIEW
// =============================================================================

type PayoutSummaryDTO struct {
	LabourerID     string  `json:"labourer_id"`
	LabourerName   string  `json:"labourer_name"`
	Role           string  `json:"role"`
	ContractorID   string  `json:"contractor_id,omitempty"`
	ContractorName string  `json:"contractor_name"`
	TotalDays      int     `json:"total_days"`
	TotalHours     float64 `json:"total_hours"`
	Rate           float64 `json:"rate"`
	PayableAmount  float64 `json:"payable_amount"`
}

// PayoutResponse wraps a statement with its range and total.
type PayoutResponse struct {
	From         string             `json:"from"`
	To           string             `json:"to"`
	Summaries    []PayoutSummaryDTO `json:"summaries"`
	TotalPayable float64            `json:"total_payable"`
}

type SuggestionDTO struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Priority string `json:"priority"`
}

type OverviewDTO struct {
	LatestDate      *string `json:"latest_date"`
	LabourerCount   int     `json:"labourer_count"`
	PresentOnLatest int     `json:"present_on_latest"`
	PresentRate     int     `json:"present_rate"`
	BlockedJobs     int     `json:"blocked_jobs"`
	TotalBalance    float64 `json:"total_balance"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toLabourerDTO(l workforce.Labourer, contractor workforce.ContractorID) LabourerDTO {
	dto := LabourerDTO{
		ID:           string(l.ID),
		Name:         l.Name,
		Role:         l.Role,
		Rate:         l.Rate.InexactFloat64(),
		ContractorID: string(contractor),
		Attendance:   make([]AttendanceDTO, 0, len(l.Attendance)),
	}
	for _, rec := range l.Attendance {
		dto.Attendance = append(dto.Attendance, toAttendanceDTO(rec))
	}
	return dto
}

func toAttendanceDTO(rec workforce.AttendanceRecord) AttendanceDTO {
	dto := AttendanceDTO{Date: rec.Date.String(), Status: string(rec.Status)}
	if rec.HasHours() {
		hours := rec.Hours.InexactFloat64()
		dto.Hours = &hours
	}
	return dto
}

func toContractorDTO(c workforce.Contractor) ContractorDTO {
	labourers := make([]string, 0, len(c.Labourers))
	for _, id := range c.Labourers {
		labourers = append(labourers, string(id))
	}
	return ContractorDTO{
		ID:        string(c.ID),
		Name:      c.Name,
		Company:   c.Company,
		Contact:   c.Contact,
		Balance:   c.Balance.InexactFloat64(),
		Labourers: labourers,
	}
}

func toWorkOrderDTO(w workforce.WorkOrder) WorkOrderDTO {
	labourers := make([]string, 0, len(w.Labourers))
	for _, id := range w.Labourers {
		labourers = append(labourers, string(id))
	}
	dto := WorkOrderDTO{
		ID:             string(w.ID),
		Title:          w.Title,
		ContractorID:   string(w.ContractorID),
		Labourers:      labourers,
		Status:         string(w.Status),
		StartDate:      w.StartDate.String(),
		EstimatedHours: w.EstimatedHours.InexactFloat64(),
		Location:       w.Location,
		Notes:          w.Notes,
	}
	if w.EndDate != nil {
		end := w.EndDate.String()
		dto.EndDate = &end
	}
	return dto
}

func toWorkOrderDTOs(orders []workforce.WorkOrder) []WorkOrderDTO {
	dtos := make([]WorkOrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, toWorkOrderDTO(o))
	}
	return dtos
}

func toPayoutSummaryDTO(s workforce.PayoutSummary) PayoutSummaryDTO {
	return PayoutSummaryDTO{
		LabourerID:     string(s.LabourerID),
		LabourerName:   s.LabourerName,
		Role:           s.Role,
		ContractorID:   string(s.ContractorID),
		ContractorName: s.ContractorName,
		TotalDays:      s.TotalDays,
		TotalHours:     s.TotalHours.InexactFloat64(),
		Rate:           s.Rate.InexactFloat64(),
		PayableAmount:  s.PayableAmount.InexactFloat64(),
	}
}

func toPaymentReleaseDTO(p workforce.PaymentRelease) PaymentReleaseDTO {
	return PaymentReleaseDTO{
		ID:           p.ID,
		ContractorID: string(p.ContractorID),
		Amount:       p.Amount.InexactFloat64(),
		BalanceAfter: p.BalanceAfter.InexactFloat64(),
		ReleasedAt:   p.ReleasedAt.String(),
	}
}

func toSuggestionDTOs(suggestions []workforce.Suggestion) []SuggestionDTO {
	dtos := make([]SuggestionDTO, 0, len(suggestions))
	for _, s := range suggestions {
		dtos = append(dtos, SuggestionDTO{Title: s.Title, Body: s.Body, Priority: string(s.Priority)})
	}
	return dtos
}

func toOverviewDTO(o workforce.Overview) OverviewDTO {
	dto := OverviewDTO{
		LabourerCount:   o.LabourerCount,
		PresentOnLatest: o.PresentOnLatest,
		PresentRate:     o.PresentRate,
		BlockedJobs:     o.BlockedJobs,
		TotalBalance:    o.TotalBalance.InexactFloat64(),
	}
	if o.LatestDate != nil {
		latest := o.LatestDate.String()
		dto.LatestDate = &latest
	}
	return dto
}

// decimalFromFloat converts a request amount, rounded to 4 decimal places.
func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(4)
}

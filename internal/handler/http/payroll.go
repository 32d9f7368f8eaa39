package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/ratetable"
	"github.com/cmlabs-hris/payroll-ph/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const maxPageLimit = 100

type PayrollHandler interface {
	// Computation
	PreviewPayroll(w http.ResponseWriter, r *http.Request)
	RunPayroll(w http.ResponseWriter, r *http.Request)

	// History
	GetRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	GetResult(w http.ResponseWriter, r *http.Request)

	// Rates
	ResolveContributions(w http.ResponseWriter, r *http.Request)
	ListRateTables(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== COMPUTATION ==========

func (h *payrollHandlerImpl) PreviewPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.ComputePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PreviewPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.RunPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.RunPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run completed", result)
}

// ========== HISTORY ==========

func (h *payrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.payrollService.GetRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	filter := payroll.RunFilter{
		Page:  1,
		Limit: 20,
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = min(limit, maxPageLimit)
		}
	}
	if periodStart := query.Get("period_start"); periodStart != "" {
		filter.PeriodStart = &periodStart
	}
	if periodEnd := query.Get("period_end"); periodEnd != "" {
		filter.PeriodEnd = &periodEnd
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}

	result, err := h.payrollService.ListRuns(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := 0
	if result.Limit > 0 {
		totalPages = int((result.TotalCount + int64(result.Limit) - 1) / int64(result.Limit))
	}
	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}

func (h *payrollHandlerImpl) GetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Result ID is required", nil)
		return
	}

	result, err := h.payrollService.GetResult(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== RATES ==========

func (h *payrollHandlerImpl) ResolveContributions(w http.ResponseWriter, r *http.Request) {
	req := payroll.ContributionsRequest{
		MonthlySalary: r.URL.Query().Get("salary"),
		AsOf:          r.URL.Query().Get("as_of"),
	}

	result, err := h.payrollService.ResolveContributions(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListRateTables(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := ratetable.ListRateTablesRequest{
		Kind: query.Get("kind"),
		AsOf: query.Get("as_of"),
	}
	if history := query.Get("history"); history != "" {
		h, err := strconv.ParseBool(history)
		if err != nil {
			response.BadRequest(w, "history must be true or false", nil)
			return
		}
		req.History = h
	}

	result, err := h.payrollService.ListRateTables(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

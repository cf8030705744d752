package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReconciliationHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Compare(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)

	// Days
	UpdateDay(w http.ResponseWriter, r *http.Request)
	ConfirmDay(w http.ResponseWriter, r *http.Request)
	UnconfirmDay(w http.ResponseWriter, r *http.Request)
	CopyScheduled(w http.ResponseWriter, r *http.Request)

	// Review status
	Complete(w http.ResponseWriter, r *http.Request)
	Reopen(w http.ResponseWriter, r *http.Request)
}

type reconciliationHandlerImpl struct {
	reconciliationService reconciliation.ReconciliationService
}

func NewReconciliationHandler(reconciliationService reconciliation.ReconciliationService) ReconciliationHandler {
	return &reconciliationHandlerImpl{reconciliationService: reconciliationService}
}

func keyFromURL(r *http.Request) reconciliation.KeyParams {
	return reconciliation.KeyParams{
		EmployeeID: chi.URLParam(r, "employeeID"),
		BranchID:   chi.URLParam(r, "branchID"),
		Month:      chi.URLParam(r, "month"),
	}
}

// decodeOptional decodes a JSON body when one was sent. Action endpoints
// accept an empty body.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *reconciliationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconciliationService.GetReview(r.Context(), keyFromURL(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reconciliationHandlerImpl) Compare(w http.ResponseWriter, r *http.Request) {
	var req reconciliation.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.KeyParams = keyFromURL(r)

	result, err := h.reconciliationService.RunComparison(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Comparison completed", result)
}

func (h *reconciliationHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := reconciliation.ImportRequest{
		KeyParams: keyFromURL(r),
		Overwrite: r.FormValue("overwrite") == "true",
	}

	if raw := r.FormValue("expected_revision"); raw != "" {
		rev, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(w, "expected_revision must be an integer", nil)
			return
		}
		req.ExpectedRevision = &rev
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Attendance workbook is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	req.File = file
	req.Filename = fileHeader.Filename

	result, err := h.reconciliationService.ImportWorkbook(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Workbook imported", result)
}

func (h *reconciliationHandlerImpl) UpdateDay(w http.ResponseWriter, r *http.Request) {
	var req reconciliation.UpdateDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.KeyParams = keyFromURL(r)
	req.Date = chi.URLParam(r, "date")

	result, err := h.reconciliationService.UpdateDayHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type dayAction func(ctx context.Context, req reconciliation.DayActionRequest) (reconciliation.ReviewResponse, error)

func (h *reconciliationHandlerImpl) dayAction(w http.ResponseWriter, r *http.Request, action dayAction) {
	var req reconciliation.DayActionRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.KeyParams = keyFromURL(r)
	req.Date = chi.URLParam(r, "date")

	result, err := action(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reconciliationHandlerImpl) ConfirmDay(w http.ResponseWriter, r *http.Request) {
	h.dayAction(w, r, h.reconciliationService.ConfirmDay)
}

func (h *reconciliationHandlerImpl) UnconfirmDay(w http.ResponseWriter, r *http.Request) {
	h.dayAction(w, r, h.reconciliationService.UnconfirmDay)
}

func (h *reconciliationHandlerImpl) CopyScheduled(w http.ResponseWriter, r *http.Request) {
	h.dayAction(w, r, h.reconciliationService.CopyScheduledToActual)
}

func (h *reconciliationHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	var req reconciliation.ReviewActionRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.KeyParams = keyFromURL(r)

	result, err := h.reconciliationService.CompleteReview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Review completed", result)
}

func (h *reconciliationHandlerImpl) Reopen(w http.ResponseWriter, r *http.Request) {
	var req reconciliation.ReviewActionRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.KeyParams = keyFromURL(r)

	result, err := h.reconciliationService.ReopenReview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Review reopened", result)
}

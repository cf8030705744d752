package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)

	// Confirmed payroll ledger
	GetConfirmed(w http.ResponseWriter, r *http.Request)
	Confirm(w http.ResponseWriter, r *http.Request)
	Unconfirm(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	// The branch lives in the body here, so RequireBranchAccess cannot see it.
	// A calculation over every branch is a master-only view.
	p, _ := middleware.PrincipalFromContext(r.Context())
	if req.BranchID == nil && !p.IsMaster() {
		response.HandleError(w, user.ErrMasterAccessRequired)
		return
	}
	if req.BranchID != nil && !p.CanAccessBranch(*req.BranchID) {
		response.HandleError(w, user.ErrBranchAccessDenied)
		return
	}

	result, err := h.payrollService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetConfirmed(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetConfirmed(r.Context(), payroll.KeyRequest{KeyParams: keyFromURL(r)})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Confirm(w http.ResponseWriter, r *http.Request) {
	var req payroll.ConfirmRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.KeyParams = keyFromURL(r)

	result, err := h.payrollService.Confirm(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll confirmed", result)
}

func (h *payrollHandlerImpl) Unconfirm(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.Unconfirm(r.Context(), payroll.KeyRequest{KeyParams: keyFromURL(r)}); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll unconfirmed", nil)
}

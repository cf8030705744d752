package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
		kind string
	}{
		{validator.ValidationErrors{{Field: "month", Message: "is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{fmt.Errorf("update day: %w", reconciliation.ErrDayNotFound), http.StatusNotFound, "NOT_FOUND"},
		{reconciliation.ErrPayrollLocked, http.StatusConflict, "CONFLICT"},
		{reconciliation.ErrRevisionConflict, http.StatusConflict, "CONFLICT"},
		{payroll.ErrReviewNotComplete, http.StatusConflict, "CONFLICT"},
		{fmt.Errorf("open: %w", attendance.ErrInvalidWorkbook), http.StatusBadRequest, "BAD_REQUEST"},
		{user.ErrBranchAccessDenied, http.StatusForbidden, "FORBIDDEN"},
		{user.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, c := range cases {
		t.Run(c.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, c.err)

			assert.Equal(t, c.code, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, c.kind, body.Error.Code)
		})
	}
}

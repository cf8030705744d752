package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	// Parse previews what a pasted export produces without storing anything
	Parse(w http.ResponseWriter, r *http.Request)
	// ParseWorkbook previews an uploaded xlsx export the same way
	ParseWorkbook(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	parserService attendance.ParserService
}

func NewAttendanceHandler(parserService attendance.ParserService) AttendanceHandler {
	return &attendanceHandlerImpl{parserService: parserService}
}

func (h *attendanceHandlerImpl) Parse(w http.ResponseWriter, r *http.Request) {
	var req attendance.ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.parserService.Parse(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) ParseWorkbook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, _, err := r.FormFile("file")
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

	text, err := h.parserService.WorkbookText(r.Context(), file)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.parserService.Parse(r.Context(), attendance.ParseRequest{RawText: text})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

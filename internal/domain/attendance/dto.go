package attendance

import (
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/hours"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

type ParseRequest struct {
	RawText string `json:"raw_text"`
}

func (r *ParseRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RawText) {
		errs = append(errs, validator.ValidationError{
			Field:   "raw_text",
			Message: "raw_text is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	TotalHours   float64 `json:"total_hours"`
	TotalDisplay string  `json:"total_display"`
	IsPreNetted  bool    `json:"is_pre_netted"`
	Source       string  `json:"source"`
}

type ParseResponse struct {
	Records     []RecordResponse `json:"records"`
	RecordCount int              `json:"record_count"`
}

func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		Date:         r.Date.Format(hours.DateLayout),
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		TotalHours:   r.TotalHours,
		TotalDisplay: hours.Format(r.TotalHours),
		IsPreNetted:  r.IsPreNetted,
		Source:       string(r.Source),
	}
}

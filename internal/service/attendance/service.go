package attendance

import (
	"context"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
)

type ParserServiceImpl struct{}

// Parse implements attendance.ParserService.
func (s *ParserServiceImpl) Parse(ctx context.Context, req attendance.ParseRequest) (attendance.ParseResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ParseResponse{}, err
	}

	records := ParseText(req.RawText)
	resp := attendance.ParseResponse{
		Records:     make([]attendance.RecordResponse, 0, len(records)),
		RecordCount: len(records),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, attendance.NewRecordResponse(rec))
	}

	slog.DebugContext(ctx, "attendance text parsed", "records", len(records))
	return resp, nil
}

// WorkbookText implements attendance.ParserService.
func (s *ParserServiceImpl) WorkbookText(ctx context.Context, r io.Reader) (string, error) {
	return ParseWorkbook(r)
}

func NewParserService() attendance.ParserService {
	return &ParserServiceImpl{}
}

package attendance

import (
	"context"
	"io"
)

// ParserService turns pasted or uploaded export data into attendance records.
type ParserService interface {
	// Parse previews the records that RawText would produce
	Parse(ctx context.Context, req ParseRequest) (ParseResponse, error)

	// WorkbookText flattens an uploaded spreadsheet export into pasteable text
	WorkbookText(ctx context.Context, r io.Reader) (string, error)
}

package attendance

import "errors"

var (
	ErrInvalidWorkbook     = errors.New("attendance workbook could not be read")
	ErrWorkbookHasNoSheets = errors.New("attendance workbook has no sheets")
)

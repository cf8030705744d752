package attendance

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/hours"
	"github.com/xuri/excelize/v2"
)

const posMinColumns = 8

var (
	wideSpaceSplit = regexp.MustCompile(`\s{3,}`)
	dateOnlyRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// lineParser tries to read one split line. It never returns a partial record.
type lineParser func(cols []string) (attendance.Record, bool)

// spreadsheet rows are tried first: their first column is a bare date, which a
// POS row never has in column 1.
var lineParsers = []lineParser{parseSpreadsheetLine, parsePOSLine}

// ParseText turns pasted export text into attendance records. Lines that match
// neither export layout are dropped without error.
func ParseText(raw string) []attendance.Record {
	var records []attendance.Record
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := splitColumns(line)
		for _, parse := range lineParsers {
			if rec, ok := parse(cols); ok {
				records = append(records, rec)
				break
			}
		}
	}
	return records
}

// splitColumns splits on tabs, or on runs of three or more spaces when the
// line has no tab. Empty columns are kept so positions stay stable.
func splitColumns(line string) []string {
	var cols []string
	if strings.Contains(line, "\t") {
		cols = strings.Split(line, "\t")
	} else {
		cols = wideSpaceSplit.Split(strings.TrimSpace(line), -1)
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

// parseSpreadsheetLine reads the spreadsheet export:
// date, weekday, day no., start, end, ..., worked hours (already break-adjusted).
func parseSpreadsheetLine(cols []string) (attendance.Record, bool) {
	if len(cols) < 5 || !dateOnlyRegex.MatchString(cols[0]) || strings.Contains(cols[1], ":") {
		return attendance.Record{}, false
	}
	date, err := time.Parse(hours.DateLayout, cols[0])
	if err != nil {
		return attendance.Record{}, false
	}
	if cols[3] == "" || cols[4] == "" {
		// day off row
		return attendance.Record{}, false
	}
	start, ok := hours.NormalizeClock(cols[3])
	if !ok {
		return attendance.Record{}, false
	}
	end, ok := hours.NormalizeClock(cols[4])
	if !ok {
		return attendance.Record{}, false
	}

	total, ok := spreadsheetHours(cols)
	if !ok {
		total, _ = hours.Between(start, end)
		if total < 0 {
			total += 24
		}
	}

	return attendance.Record{
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		TotalHours:  total,
		IsPreNetted: true,
		Source:      attendance.SourceSpreadsheet,
	}, true
}

// spreadsheetHours reads column 7. A row too short to have column 7 was
// trimmed by the export, so the last numeric column after the end time is used.
// A full-width row with a blank or non-numeric column 7 reports no hours.
func spreadsheetHours(cols []string) (float64, bool) {
	if len(cols) > 7 {
		h, err := strconv.ParseFloat(cols[7], 64)
		if err != nil || h < 0 {
			return 0, false
		}
		return h, true
	}
	for i := len(cols) - 1; i > 4; i-- {
		if h, err := strconv.ParseFloat(cols[i], 64); err == nil && h >= 0 {
			return h, true
		}
	}
	return 0, false
}

// parsePOSLine reads the POS export: columns 1 and 2 are start/end timestamps
// and the reported total is gross elapsed time.
func parsePOSLine(cols []string) (attendance.Record, bool) {
	if len(cols) < posMinColumns {
		return attendance.Record{}, false
	}
	start, ok := parseTimestamp(cols[1])
	if !ok {
		return attendance.Record{}, false
	}
	end, ok := parseTimestamp(cols[2])
	if !ok {
		return attendance.Record{}, false
	}

	total, ok := posReportedHours(cols)
	if !ok {
		total = end.Sub(start).Hours()
		if total < 0 {
			total = 0
		}
	}

	return attendance.Record{
		Date:        time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:   start.Format("15:04"),
		EndTime:     end.Format("15:04"),
		TotalHours:  total,
		IsPreNetted: false,
		Source:      attendance.SourcePOS,
	}, true
}

// posReportedHours looks for a non-zero H:MM total in column 6, then 4-5, then 7-11.
func posReportedHours(cols []string) (float64, bool) {
	candidates := []int{6, 4, 5, 7, 8, 9, 10, 11}
	for _, i := range candidates {
		if i >= len(cols) {
			continue
		}
		h, ok := hours.ParseDuration(cols[i])
		if ok && h > 0 {
			return h, true
		}
	}
	return 0, false
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{hours.DateTimeLayout, "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseWorkbook flattens the first sheet of an xlsx export into tab-separated
// lines, in the same shape as text pasted from the spreadsheet.
func ParseWorkbook(r io.Reader) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", attendance.ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", attendance.ErrWorkbookHasNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v", attendance.ErrInvalidWorkbook, err)
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

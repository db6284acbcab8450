package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

type xlsxSource struct{}

func (xlsxSource) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxSource) Read(r io.Reader, opt Options) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open xlsx: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrSourceUnavailable)
	}
	sheet := sheets[0]
	if opt.SheetName != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("%w: sheet '%s' not found (available sheets: %s)",
				ErrSourceUnavailable, opt.SheetName, strings.Join(sheets, ", "))
		}
	}

	// Raw values keep numbers unformatted and leave dates as serials we convert below.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrSourceUnavailable, sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", ErrSourceUnavailable, sheet)
	}

	width := len(rows[0])
	tsCol := -1
	for i, h := range rows[0] {
		if fd, ok := matchField(h); ok && fd == fieldTimestamp {
			tsCol = i
			break
		}
	}
	records := make([][]string, 0, len(rows))
	records = append(records, rows[0])
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells
		rec := make([]string, width)
		copy(rec, row)
		if tsCol >= 0 {
			rec[tsCol] = excelSerialToText(rec[tsCol])
		}
		records = append(records, rec)
	}

	// GetRows keeps blank rows, so frame row i is sheet row i+2
	df := dataframe.LoadRecords(records, frameOptions()...)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: load sheet %s: %v", ErrSourceUnavailable, sheet, df.Err)
	}
	return &Sheet{Frame: df}, nil
}

// excelSerialToText converts a date serial ("45853.4166") into the timestamp
// layout; any other text is returned unchanged.
func excelSerialToText(v string) string {
	s := strings.TrimSpace(v)
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 0 {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Round(timeRounding).Format(timestampLayout)
}

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

type csvSource struct{}

func (csvSource) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

// Read rejects ragged or badly quoted records against their source line.
func (csvSource) Read(r io.Reader, opt Options) (*Sheet, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read csv: empty file", ErrSourceUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read csv header: %v", ErrSourceUnavailable, err)
	}

	sh := &Sheet{}
	records := [][]string{header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var ce *csv.ParseError
			if !errors.As(err, &ce) {
				return nil, fmt.Errorf("%w: read csv: %v", ErrSourceUnavailable, err)
			}
			sh.Rejected = append(sh.Rejected, &ParseError{Row: ce.StartLine, Err: ce.Err})
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(rec) != len(header) {
			pe := &ParseError{
				Row:   line,
				Value: strings.Join(rec, string(delim)),
				Err:   fmt.Errorf("expected %d fields, got %d", len(header), len(rec)),
			}
			if len(rec) < len(header) {
				pe.Column = strings.TrimSpace(header[len(rec)])
			}
			sh.Rejected = append(sh.Rejected, pe)
			continue
		}
		records = append(records, rec)
		sh.Rows = append(sh.Rows, line)
	}

	sh.Frame = dataframe.LoadRecords(records, frameOptions()...)
	if sh.Frame.Err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", ErrSourceUnavailable, sh.Frame.Err)
	}
	return sh, nil
}

package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Options controls how a source file becomes a Table.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// SheetName selects the XLSX sheet; empty means the first sheet.
	SheetName string
	// SkipInvalid rejects malformed rows with a warning instead of failing the load.
	SkipInvalid bool
}

// Sheet is a source decoded into an all-string DataFrame.
type Sheet struct {
	Frame dataframe.DataFrame
	// Rows holds the 1-based source line of each frame row. Nil means the
	// frame rows follow the header line by line.
	Rows []int
	// Rejected are records dropped before framing, in source order.
	Rejected []*ParseError
}

// row returns the source line of frame row i.
func (s *Sheet) row(i int) int {
	if i < len(s.Rows) {
		return s.Rows[i]
	}
	return i + 2
}

// Source turns a raw input stream into a Sheet.
type Source interface {
	CanLoad(filename string) bool
	Read(r io.Reader, opt Options) (*Sheet, error)
}

var registry []Source

// Register adds a source implementation to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

// missingMarkers are the cell values treated as missing.
var missingMarkers = []string{"", "NA", "NaN", "nan", "null", "NULL", "<nil>"}

// frameOptions loads every column as strings; typing happens in FromFrame so
// failures carry a row and column.
func frameOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingMarkers),
	}
}

func sourceFor(path string) Source {
	for _, s := range registry {
		if s.CanLoad(path) {
			return s
		}
	}
	return csvSource{}
}

// Load reads path with the source matching its extension and converts it to a Table.
// The file is closed on every return path.
func Load(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	if opt.Delimiter == 0 && strings.HasSuffix(strings.ToLower(path), ".tsv") {
		opt.Delimiter = '\t'
	}
	sh, err := sourceFor(path).Read(f, opt)
	if err != nil {
		return nil, err
	}
	return fromSheet(sh, filepath.Base(path), opt)
}

func init() {
	Register(xlsxSource{})
	Register(csvSource{})
}

package importer

import (
	"io"

	"github.com/assettrack/assettrack/internal/assetcsv"
)

// CSVParser reads the asset CSV exchange format.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads asset CSV, skipping bad lines as warnings.
func (p *CSVParser) Parse(r io.Reader) (assetcsv.Result, error) {
	return assetcsv.Read(r)
}

package importer

import (
	"errors"
	"io"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
)

// Format names a participant file layout.
type Format string

const (
	// FormatRoster is a delimited file with a name column and an optional amount column.
	FormatRoster Format = "roster"
)

// ErrInvalidFile is returned when an uploaded file cannot be turned into participants.
var ErrInvalidFile = errors.New("invalid participant file")

type Importer interface {
	Parse(r io.Reader) ([]bill.ShareInput, error)
}

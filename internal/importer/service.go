package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	"github.com/MrJamesThe3rd/sharemal/internal/importer/roster"
)

type Service struct {
	rosterImporter Importer
}

func NewService() *Service {
	return &Service{
		rosterImporter: roster.NewParser(),
	}
}

// Import parses participants from r. An empty format means FormatRoster.
func (s *Service) Import(format Format, r io.Reader) ([]bill.ShareInput, error) {
	var importer Importer

	switch format {
	case FormatRoster, "":
		importer = s.rosterImporter
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidFile, format)
	}

	shares, err := importer.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	return shares, nil
}

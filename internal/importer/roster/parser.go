package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	enc "github.com/MrJamesThe3rd/sharemal/internal/encoding"
)

var ErrNoParticipants = errors.New("no participants found")

// Parser reads participant rosters. The header may be preceded by free text
// and the delimiter may be a comma or a semicolon.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]bill.ShareInput, error) {
	utf8r, charset, err := enc.UTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no roster header found: expected a %q, %q or %q column",
			profiles[0].NameCol, profiles[1].NameCol, profiles[2].NameCol)
	}

	slog.Debug("parsing roster", "profile", profile.Name, "charset", charset, "delimiter", string(reader.Comma))

	// Semicolon-separated exports come from locales that write decimal commas.
	decimalComma := profile.DecimalComma || reader.Comma == ';'

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1, decimalComma)
}

// detectDelimiter picks ';' when the first non-blank line has more semicolons than commas.
func detectDelimiter(data []byte) rune {
	for line := range bytes.Lines(data) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
			return ';'
		}

		return ','
	}

	return ','
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if _, ok := cols[profiles[i].NameCol]; ok {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// parseRows turns data rows into shares. firstRow is the 0-based record index
// of rows[0], used for 1-based row numbers in errors.
func parseRows(p *Profile, cols colIndex, rows [][]string, firstRow int, decimalComma bool) ([]bill.ShareInput, error) {
	nameIdx := cols[p.NameCol]
	amountIdx, hasAmount := cols[p.AmountCol]

	var shares []bill.ShareInput

	for i, row := range rows {
		rowNum := firstRow + i + 1

		if blank(row) {
			continue
		}

		name := cell(row, nameIdx)
		if name == "" {
			return nil, fmt.Errorf("row %d: participant name is empty", rowNum)
		}

		share := bill.ShareInput{Name: name}

		if hasAmount {
			if raw := cell(row, amountIdx); raw != "" {
				amount, err := parseAmount(raw, decimalComma)
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", rowNum, err)
				}

				share.Amount = &amount
			}
		}

		shares = append(shares, share)
	}

	if len(shares) == 0 {
		return nil, ErrNoParticipants
	}

	return shares, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

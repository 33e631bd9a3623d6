package roster_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	"github.com/MrJamesThe3rd/sharemal/internal/importer/roster"
	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

type share struct {
	name   string
	amount string
}

func flatten(shares []bill.ShareInput) []share {
	out := make([]share, len(shares))
	for i, s := range shares {
		out[i].name = s.Name
		if s.Amount != nil {
			out[i].amount = s.Amount.String()
		}
	}

	return out
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []share
	}{
		{
			name:  "names only",
			input: "name\nAlice\nBob\nCarol\n",
			want:  []share{{name: "Alice"}, {name: "Bob"}, {name: "Carol"}},
		},
		{
			name:  "names and amounts",
			input: "Name,Amount\nAlice,60.00\nBob,40\n",
			want:  []share{{"Alice", "60.00"}, {"Bob", "40.00"}},
		},
		{
			name:  "thousands separator",
			input: "name,amount\n\"Alice\",\"1,234.50\"\n",
			want:  []share{{"Alice", "1234.50"}},
		},
		{
			name:  "semicolon with decimal comma",
			input: "Name;Amount\nAlice;12,50\nBob;7,5\n",
			want:  []share{{"Alice", "12.50"}, {"Bob", "7.50"}},
		},
		{
			name:  "portuguese header",
			input: "Nome;Montante\nJoão;1.000,00\nMaria;€ 250,25\n",
			want:  []share{{"João", "1000.00"}, {"Maria", "250.25"}},
		},
		{
			name:  "participant header with blank amount",
			input: "participant,share\nAlice,10.00\nBob,\n",
			want:  []share{{"Alice", "10.00"}, {name: "Bob"}},
		},
		{
			name:  "preamble before header",
			input: "Trip to Lisbon\nexported 2024-01-15\n\nname,amount\n  Alice , 5.00\n,\nBob,5.00\n",
			want:  []share{{"Alice", "5.00"}, {"Bob", "5.00"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := roster.NewParser().Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, flatten(shares))
		})
	}
}

func TestParser_Windows1252(t *testing.T) {
	input, err := charmap.Windows1252.NewEncoder().Bytes([]byte("nome;montante\nJosé;10,00\nInês;5,00\n"))
	require.NoError(t, err)

	shares, err := roster.NewParser().Parse(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []share{{"José", "10.00"}, {"Inês", "5.00"}}, flatten(shares))
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{
			name:    "no header",
			input:   "who,what\nAlice,1\n",
			wantMsg: "no roster header found",
		},
		{
			name:    "header without rows",
			input:   "name,amount\n",
			wantErr: roster.ErrNoParticipants,
		},
		{
			name:    "empty name",
			input:   "name,amount\nAlice,1.00\n,2.00\n",
			wantMsg: "row 3: participant name is empty",
		},
		{
			name:    "too many decimals",
			input:   "name,amount\nAlice,1.005\n",
			wantErr: money.ErrTooPrecise,
		},
		{
			name:    "not a number",
			input:   "name,amount\nAlice,lots\n",
			wantMsg: "row 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := roster.NewParser().Parse(strings.NewReader(tt.input))
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

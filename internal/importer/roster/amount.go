package roster

import (
	"strings"

	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

// parseAmount reads a share amount. With decimalComma, "1.234,56" is 1234.56;
// otherwise "1,234.56" is. Values needing more than two decimals are rejected.
func parseAmount(s string, decimalComma bool) (money.Amount, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "€")
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.TrimSpace(clean)

	if decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return money.Parse(clean)
}

package pipeline

import (
	"strings"

	"github.com/sells-group/auction-mapper/internal/model"
)

// splitAmpersand splits "A & B & C" into trimmed parts. Empty input yields
// nil.
func splitAmpersand(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "&")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Expand turns each auction row into one row per property unit. Address,
// OPA, and Book/Writ are split on ampersands and padded to equal length so
// the nth address pairs with the nth OPA and book entry; units without an
// address are dropped. Descriptive fields are carried onto every unit.
func Expand(rows []model.AuctionRow) []model.AuctionRow {
	var units []model.AuctionRow

	for _, row := range rows {
		addresses := splitAmpersand(row.Address)
		opas := splitAmpersand(row.OPA)
		books := splitAmpersand(row.BookWrit)

		n := len(addresses)
		if len(opas) > n {
			n = len(opas)
		}
		if len(books) > n {
			n = len(books)
		}

		for i := 0; i < n; i++ {
			unit := row
			unit.Address = at(addresses, i)
			unit.OPA = at(opas, i)
			unit.BookWrit = at(books, i)
			if unit.Address == "" {
				continue
			}
			units = append(units, unit)
		}
	}

	return units
}

func at(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

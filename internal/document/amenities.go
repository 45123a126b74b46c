package document

import (
	"strings"

	"github.com/vbonduro/rentalmngr/internal/domain"
	"github.com/vbonduro/rentalmngr/internal/money"
)

type amenityRule struct {
	keywords []string
	label    string
}

// amenityTable maps common-room name keywords to the chip shown on the room
// ad. Chips are emitted in table order.
var amenityTable = []amenityRule{
	{keywords: []string{"piscina"}, label: "Piscina"},
	{keywords: []string{"jardín", "jardin"}, label: "Jardín"},
	{keywords: []string{"terraza"}, label: "Terraza"},
	{keywords: []string{"parking", "garaje"}, label: "Parking"},
	{keywords: []string{"cocina"}, label: "Cocina"},
	{keywords: []string{"salón", "salon"}, label: "Salón"},
	{keywords: []string{"wifi"}, label: "WiFi"},
}

// DetectAmenities returns the chip labels for a room ad: the room size when
// known, then one label per matching amenityTable entry.
func DetectAmenities(room *domain.Room, commonRooms []*domain.Room) []string {
	var out []string
	if room != nil && room.SizeSqm.Valid {
		out = append(out, money.FormatDecimal(room.SizeSqm.Decimal)+" m²")
	}

	names := make([]string, 0, len(commonRooms))
	for _, r := range commonRooms {
		names = append(names, strings.ToLower(r.Name))
	}

	for _, rule := range amenityTable {
		if anyContains(names, rule.keywords) {
			out = append(out, rule.label)
		}
	}
	return out
}

func anyContains(names, keywords []string) bool {
	for _, n := range names {
		for _, k := range keywords {
			if strings.Contains(n, k) {
				return true
			}
		}
	}
	return false
}

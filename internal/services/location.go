package services

import (
	"github.com/Pranjal095/Pahani-Project/internal/apperrors"
)

// LocationCatalog is the read-only district → mandal → village
// hierarchy the portal validates submissions against.
type LocationCatalog struct {
	districts []string
	mandals   map[string][]string            // district -> mandals
	villages  map[string]map[string][]string // district -> mandal -> villages
}

// NewLocationCatalog returns the catalog seeded with the Vikarabad
// district hierarchy served by the portal.
func NewLocationCatalog() *LocationCatalog {
	return &LocationCatalog{
		districts: []string{"Vikarabad"},
		mandals: map[string][]string{
			"Vikarabad": {
				"Vikarabad",
				"Tandur",
				"Parigi",
				"Kodangal",
				"Dharur",
				"Bantwaram",
			},
		},
		villages: map[string]map[string][]string{
			"Vikarabad": {
				"Vikarabad": {"Ananthagiri", "Enkathala", "Marpalle Khurd", "Rukmapur"},
				"Tandur":    {"Akuthotapalle", "Jinnaram", "Malkapur", "Navalga"},
				"Parigi":    {"Chowdapur", "Gopanpalle", "Ranjol", "Sultanpur"},
				"Kodangal":  {"Bommarasipet", "Duddeda", "Kosgi", "Pamena"},
				"Dharur":    {"Dharur", "Kandlapalle", "Mailaram", "Sirpur"},
				"Bantwaram": {"Bantwaram", "Gundla Mallepalle", "Peddapur", "Tekulapalle"},
			},
		},
	}
}

// Districts lists all known districts.
func (c *LocationCatalog) Districts() []string {
	out := make([]string, len(c.districts))
	copy(out, c.districts)
	return out
}

// Mandals lists the mandals of a district.
func (c *LocationCatalog) Mandals(district string) ([]string, error) {
	mandals, ok := c.mandals[district]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := make([]string, len(mandals))
	copy(out, mandals)
	return out, nil
}

// Villages lists the villages of a district/mandal pairing.
func (c *LocationCatalog) Villages(district, mandal string) ([]string, error) {
	byMandal, ok := c.villages[district]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	villages, ok := byMandal[mandal]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := make([]string, len(villages))
	copy(out, villages)
	return out, nil
}

// Resolve reports whether the full district/mandal/village triple exists.
func (c *LocationCatalog) Resolve(district, mandal, village string) bool {
	villages, err := c.Villages(district, mandal)
	if err != nil {
		return false
	}
	for _, v := range villages {
		if v == village {
			return true
		}
	}
	return false
}

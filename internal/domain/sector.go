// Package domain holds the shared value types of the trading session:
// market sectors, positions, ledger records, pool accounts and the fault
// taxonomy every action boundary reports through.
package domain

import "fmt"

// Sector is a market segment. The tradable universe, prices and leverage
// limits are all scoped to one sector at a time.
type Sector string

const (
	SectorCrypto Sector = "crypto"
	SectorTSX    Sector = "tsx"
	SectorSP500  Sector = "sp500"
)

// Sectors lists the known market segments in display order.
func Sectors() []Sector {
	return []Sector{SectorCrypto, SectorTSX, SectorSP500}
}

// Valid reports whether s is a known sector.
func (s Sector) Valid() bool {
	switch s {
	case SectorCrypto, SectorTSX, SectorSP500:
		return true
	}
	return false
}

// ParseSector converts a raw string into a Sector.
func ParseSector(raw string) (Sector, error) {
	s := Sector(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown sector %q", raw)
	}
	return s, nil
}

// PriceKey is the composite key the price feed is addressed by. A symbol
// alone is ambiguous across sectors.
func PriceKey(symbol string, sector Sector) string {
	return symbol + "-" + string(sector)
}

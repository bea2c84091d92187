package tracker

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Symbol identifies an asset, e.g. "BTC" or "GOLD".
//
// It is the only identity used to group transactions and to match FIFO lots,
// display metadata lives in a Catalog.
type Symbol string

// NewSymbol normalizes s into a Symbol.
func NewSymbol(s string) Symbol { return Symbol(strings.ToUpper(strings.TrimSpace(s))) }

func (s Symbol) String() string { return string(s) }

// Kind is the family of an asset.
type Kind string

const (
	Crypto    Kind = "crypto"
	Commodity Kind = "commodity"
)

// defaultDecimals is used for quantities of symbols missing from the catalog.
const defaultDecimals = 8

// SymbolInfo holds display metadata about a Symbol.
type SymbolInfo struct {
	Symbol   Symbol `yaml:"symbol" json:"symbol"`
	Name     string `yaml:"name" json:"name"`
	Kind     Kind   `yaml:"kind" json:"kind"`
	Unit     string `yaml:"unit,omitempty" json:"unit,omitempty"`
	Decimals int32  `yaml:"decimals" json:"decimals"`
	// Provider is the identifier of the symbol at the price source, e.g. "bitcoin".
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty"`
}

// Catalog is a lookup table of SymbolInfo.
type Catalog struct {
	infos map[Symbol]SymbolInfo
}

// NewCatalog returns a catalog holding infos.
func NewCatalog(infos ...SymbolInfo) *Catalog {
	c := &Catalog{infos: make(map[Symbol]SymbolInfo)}
	for _, info := range infos {
		c.Add(info)
	}
	return c
}

// DefaultCatalog describes the assets the tracker knows out of the box.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		SymbolInfo{Symbol: "BTC", Name: "Bitcoin", Kind: Crypto, Decimals: 8, Provider: "bitcoin"},
		SymbolInfo{Symbol: "ETH", Name: "Ether", Kind: Crypto, Decimals: 8, Provider: "ethereum"},
		SymbolInfo{Symbol: "SOL", Name: "Solana", Kind: Crypto, Decimals: 8, Provider: "solana"},
		SymbolInfo{Symbol: "USDT", Name: "Tether", Kind: Crypto, Decimals: 2, Provider: "tether"},
		SymbolInfo{Symbol: "GOLD", Name: "Gold", Kind: Commodity, Unit: "g", Decimals: 2, Provider: "XAU"},
		SymbolInfo{Symbol: "SILVER", Name: "Silver", Kind: Commodity, Unit: "g", Decimals: 2, Provider: "XAG"},
	)
}

// Add inserts or replaces info.
func (c *Catalog) Add(info SymbolInfo) {
	info.Symbol = NewSymbol(string(info.Symbol))
	if info.Decimals <= 0 {
		info.Decimals = defaultDecimals
	}
	c.infos[info.Symbol] = info
}

// Lookup returns the info for s. Unknown symbols get a generic info.
func (c *Catalog) Lookup(s Symbol) (SymbolInfo, bool) {
	if c != nil {
		if info, ok := c.infos[s]; ok {
			return info, true
		}
	}
	return SymbolInfo{Symbol: s, Name: string(s), Decimals: defaultDecimals, Provider: strings.ToLower(string(s))}, false
}

// Decimals returns the number of decimals used for quantities of s.
func (c *Catalog) Decimals(s Symbol) int32 {
	info, _ := c.Lookup(s)
	return info.Decimals
}

// Label returns a human label like "Gold (g)".
func (c *Catalog) Label(s Symbol) string {
	info, _ := c.Lookup(s)
	if info.Unit == "" {
		return info.Name
	}
	return fmt.Sprintf("%s (%s)", info.Name, info.Unit)
}

// Symbols returns the sorted list of known symbols.
func (c *Catalog) Symbols() []Symbol {
	return slices.Sorted(maps.Keys(c.infos))
}

// DecodeCatalog reads a YAML list of SymbolInfo and merges it on top of the
// default catalog.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var infos []SymbolInfo
	if err := yaml.NewDecoder(r).Decode(&infos); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode catalog: %w", err)
	}
	c := DefaultCatalog()
	for _, info := range infos {
		if info.Symbol == "" {
			return nil, fmt.Errorf("catalog entry %q has no symbol", info.Name)
		}
		c.Add(info)
	}
	return c, nil
}

// EncodeCatalog writes the catalog as a YAML list sorted by symbol.
func EncodeCatalog(w io.Writer, c *Catalog) error {
	infos := make([]SymbolInfo, 0, len(c.infos))
	for _, s := range c.Symbols() {
		infos = append(infos, c.infos[s])
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(infos); err != nil {
		return err
	}
	return enc.Close()
}

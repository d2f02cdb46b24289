// Package chains describes the chains a token can be checked on and how
// each upstream provider names them.
package chains

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

//go:embed chains.yaml
var defaultTable []byte

// AddressKind selects the address syntax of a chain.
type AddressKind string

const (
	AddressEVM    AddressKind = "evm"
	AddressSolana AddressKind = "solana"
)

var solanaAddress = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

type Chain struct {
	ID            string      `yaml:"-"`
	Name          string      `yaml:"name"`
	GoPlusID      string      `yaml:"goplus_id"`
	DexScreenerID string      `yaml:"dexscreener_id"`
	Explorer      string      `yaml:"explorer"`
	AddressKind   AddressKind `yaml:"address_kind"`
}

// ValidAddress reports whether address is well formed for the chain.
func (c Chain) ValidAddress(address string) bool {
	switch c.AddressKind {
	case AddressEVM:
		return strings.HasPrefix(address, "0x") && common.IsHexAddress(address)
	case AddressSolana:
		return solanaAddress.MatchString(address)
	default:
		return false
	}
}

// NormalizeAddress returns the form upstream providers key results by.
// EVM addresses are case-insensitive and lowercased; base58 is kept as is.
func (c Chain) NormalizeAddress(address string) string {
	if c.AddressKind == AddressEVM {
		return strings.ToLower(address)
	}
	return address
}

// TokenURL links address on the chain's block explorer.
func (c Chain) TokenURL(address string) string {
	return strings.TrimRight(c.Explorer, "/") + "/token/" + address
}

// Registry is an ordered, read-only set of chains.
type Registry struct {
	order  []string
	chains map[string]Chain
}

// Default returns the registry built from the embedded chain table.
func Default() (*Registry, error) {
	return Parse(defaultTable)
}

// Parse builds a registry from a YAML mapping of chain id to chain.
// Declaration order is kept for listings.
func Parse(data []byte) (*Registry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse chain table: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("parse chain table: expected a mapping of chains")
	}

	root := doc.Content[0]
	reg := &Registry{chains: make(map[string]Chain, len(root.Content)/2)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		id := root.Content[i].Value

		var c Chain
		if err := root.Content[i+1].Decode(&c); err != nil {
			return nil, fmt.Errorf("parse chain %q: %w", id, err)
		}
		c.ID = id

		if err := c.validate(); err != nil {
			return nil, err
		}
		if _, dup := reg.chains[id]; dup {
			return nil, fmt.Errorf("duplicate chain %q", id)
		}

		reg.order = append(reg.order, id)
		reg.chains[id] = c
	}

	return reg, nil
}

func (c Chain) validate() error {
	if c.GoPlusID == "" || c.DexScreenerID == "" {
		return fmt.Errorf("chain %q: goplus_id and dexscreener_id are required", c.ID)
	}
	if c.AddressKind != AddressEVM && c.AddressKind != AddressSolana {
		return fmt.Errorf("chain %q: unknown address_kind %q", c.ID, c.AddressKind)
	}
	return nil
}

// Lookup returns the chain with the given id.
func (r *Registry) Lookup(id string) (Chain, bool) {
	c, ok := r.chains[id]
	return c, ok
}

// IDs lists chain ids in declaration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

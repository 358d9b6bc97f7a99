// Package provider constructs the analysis producers.
package provider

import (
	"fmt"

	"redline/provider/dictionary"
	"redline/provider/semantic"
	"redline/types"
)

// Type identifies an analysis producer implementation.
type Type string

const (
	TypeDictionary Type = "dictionary"
	TypeSemantic   Type = "semantic"
)

// New creates a new provider instance based on the type.
func New(providerType Type, config *types.ProviderConfig) (types.Provider, error) {
	switch providerType {
	case TypeDictionary:
		return dictionary.NewProvider(config)
	case TypeSemantic:
		return semantic.NewProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

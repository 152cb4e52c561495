package valueobjects

import (
	"errors"
	"strings"
)

// AssetID is the stable registry/quota/ledger key for a claimable asset.
// Derivation is deterministic: the same token type or object address always
// yields the same identifier.
type AssetID string

var ErrInvalidAssetID = errors.New("asset id is required")

// FromTokenType derives the identifier for a fungible-token type tag.
func FromTokenType(typeTag string) (AssetID, error) {
	normalized := normalize(typeTag)
	if normalized == "" {
		return "", ErrInvalidAssetID
	}
	return AssetID("type:" + normalized), nil
}

// FromObjectAddress derives the identifier for a fungible-asset object.
func FromObjectAddress(address string) (AssetID, error) {
	normalized := normalize(address)
	if normalized == "" {
		return "", ErrInvalidAssetID
	}
	return AssetID("object:" + normalized), nil
}

// ParseAssetID accepts an already-derived identifier from the transport layer.
func ParseAssetID(v string) (AssetID, error) {
	normalized := normalize(v)
	if normalized == "" {
		return "", ErrInvalidAssetID
	}
	return AssetID(normalized), nil
}

func (id AssetID) String() string {
	return string(id)
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

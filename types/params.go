package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DefaultAssetDenom is the underlying asset denom used when none is configured.
const DefaultAssetDenom = "stake"

// Params are the module parameters.
type Params struct {
	// AssetDenom is the denom of the underlying asset accepted by every vault.
	AssetDenom string `json:"asset_denom" yaml:"asset_denom"`
}

// NewParams returns params accepting assetDenom.
func NewParams(assetDenom string) Params {
	return Params{AssetDenom: assetDenom}
}

// DefaultParams returns the default module parameters.
func DefaultParams() Params {
	return NewParams(DefaultAssetDenom)
}

// Validate performs basic validation of the params.
func (p Params) Validate() error {
	if err := sdk.ValidateDenom(p.AssetDenom); err != nil {
		return fmt.Errorf("invalid asset denom: %w", err)
	}
	return nil
}

package types

import (
	"strconv"

	"cosmossdk.io/core/event"
	sdkmath "cosmossdk.io/math"
)

const (
	EventTypeVaultConfigured = "vault_configured"
	EventTypeDeposit         = "vault_deposit"
	EventTypeWithdraw        = "vault_withdraw"
	EventTypeParamsUpdated   = "params_updated"

	AttributeKeyVaultID            = "vault_id"
	AttributeKeyVaultAddress       = "vault_address"
	AttributeKeyAuthority          = "authority"
	AttributeKeyOwner              = "owner"
	AttributeKeyInitialShareSupply = "initial_share_supply"
	AttributeKeyFeeBasisPoints     = "fee_basis_points"
	AttributeKeyAllocationA        = "allocation_a"
	AttributeKeyAllocationB        = "allocation_b"
	AttributeKeyAmount             = "amount"
	AttributeKeyFee                = "fee"
	AttributeKeySharesMinted       = "shares_minted"
	AttributeKeySharesBurned       = "shares_burned"
	AttributeKeyGrossAssets        = "gross_assets"
	AttributeKeyAssetsReturned     = "assets_returned"
	AttributeKeyAssetDenom         = "asset_denom"
)

// Event is a module event emitted as a flat list of key/value attributes.
type Event interface {
	EventType() string
	Attributes() []event.Attribute
}

// EventVaultConfigured is emitted when a vault is created.
type EventVaultConfigured struct {
	VaultID            uint64
	VaultAddress       string
	Authority          string
	InitialShareSupply sdkmath.Int
	FeeBasisPoints     uint64
	AllocationA        uint64
	AllocationB        uint64
}

// NewEventVaultConfigured creates a new EventVaultConfigured event.
func NewEventVaultConfigured(authority string, vault VaultState) *EventVaultConfigured {
	return &EventVaultConfigured{
		VaultID:            vault.ID,
		VaultAddress:       GetVaultAddress(vault.ID).String(),
		Authority:          authority,
		InitialShareSupply: vault.TotalShareSupply,
		FeeBasisPoints:     vault.FeeBasisPoints,
		AllocationA:        vault.AllocationA,
		AllocationB:        vault.AllocationB,
	}
}

func (e EventVaultConfigured) EventType() string { return EventTypeVaultConfigured }

func (e EventVaultConfigured) Attributes() []event.Attribute {
	return []event.Attribute{
		{Key: AttributeKeyVaultID, Value: strconv.FormatUint(e.VaultID, 10)},
		{Key: AttributeKeyVaultAddress, Value: e.VaultAddress},
		{Key: AttributeKeyAuthority, Value: e.Authority},
		{Key: AttributeKeyInitialShareSupply, Value: e.InitialShareSupply.String()},
		{Key: AttributeKeyFeeBasisPoints, Value: strconv.FormatUint(e.FeeBasisPoints, 10)},
		{Key: AttributeKeyAllocationA, Value: strconv.FormatUint(e.AllocationA, 10)},
		{Key: AttributeKeyAllocationB, Value: strconv.FormatUint(e.AllocationB, 10)},
	}
}

// EventDeposit is emitted when assets are deposited for shares.
type EventDeposit struct {
	VaultID      uint64
	Owner        string
	Amount       sdkmath.Int
	Fee          sdkmath.Int
	SharesMinted sdkmath.Int
}

// NewEventDeposit creates a new EventDeposit event.
func NewEventDeposit(vaultID uint64, owner string, amount sdkmath.Int, result DepositResult) *EventDeposit {
	return &EventDeposit{
		VaultID:      vaultID,
		Owner:        owner,
		Amount:       amount,
		Fee:          result.Fee,
		SharesMinted: result.SharesMinted,
	}
}

func (e EventDeposit) EventType() string { return EventTypeDeposit }

func (e EventDeposit) Attributes() []event.Attribute {
	return []event.Attribute{
		{Key: AttributeKeyVaultID, Value: strconv.FormatUint(e.VaultID, 10)},
		{Key: AttributeKeyOwner, Value: e.Owner},
		{Key: AttributeKeyAmount, Value: e.Amount.String()},
		{Key: AttributeKeyFee, Value: e.Fee.String()},
		{Key: AttributeKeySharesMinted, Value: e.SharesMinted.String()},
	}
}

// EventWithdraw is emitted when shares are burned for assets.
type EventWithdraw struct {
	VaultID        uint64
	Owner          string
	SharesBurned   sdkmath.Int
	GrossAssets    sdkmath.Int
	Fee            sdkmath.Int
	AssetsReturned sdkmath.Int
}

// NewEventWithdraw creates a new EventWithdraw event.
func NewEventWithdraw(vaultID uint64, owner string, shares sdkmath.Int, result WithdrawResult) *EventWithdraw {
	return &EventWithdraw{
		VaultID:        vaultID,
		Owner:          owner,
		SharesBurned:   shares,
		GrossAssets:    result.GrossAssets,
		Fee:            result.Fee,
		AssetsReturned: result.AssetsReturned,
	}
}

func (e EventWithdraw) EventType() string { return EventTypeWithdraw }

func (e EventWithdraw) Attributes() []event.Attribute {
	return []event.Attribute{
		{Key: AttributeKeyVaultID, Value: strconv.FormatUint(e.VaultID, 10)},
		{Key: AttributeKeyOwner, Value: e.Owner},
		{Key: AttributeKeySharesBurned, Value: e.SharesBurned.String()},
		{Key: AttributeKeyGrossAssets, Value: e.GrossAssets.String()},
		{Key: AttributeKeyFee, Value: e.Fee.String()},
		{Key: AttributeKeyAssetsReturned, Value: e.AssetsReturned.String()},
	}
}

// EventParamsUpdated is emitted when the module params change.
type EventParamsUpdated struct {
	Authority  string
	AssetDenom string
}

// NewEventParamsUpdated creates a new EventParamsUpdated event.
func NewEventParamsUpdated(authority string, params Params) *EventParamsUpdated {
	return &EventParamsUpdated{Authority: authority, AssetDenom: params.AssetDenom}
}

func (e EventParamsUpdated) EventType() string { return EventTypeParamsUpdated }

func (e EventParamsUpdated) Attributes() []event.Attribute {
	return []event.Attribute{
		{Key: AttributeKeyAuthority, Value: e.Authority},
		{Key: AttributeKeyAssetDenom, Value: e.AssetDenom},
	}
}

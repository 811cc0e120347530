package utils

import (
	"github.com/cometbft/cometbft/crypto/secp256k1"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

type Address struct {
	Bytes  []byte
	Bech32 string
}

// TestAddress returns a fresh secp256k1 account address with the cosmos prefix.
func TestAddress() Address {
	key := secp256k1.GenPrivKey()
	bytes := key.PubKey().Address().Bytes()

	return Address{
		Bytes:  bytes,
		Bech32: generateAddress(sdk.Bech32MainPrefix, bytes),
	}
}

// AccAddress returns the address as an sdk.AccAddress.
func (a Address) AccAddress() sdk.AccAddress {
	return sdk.AccAddress(a.Bytes)
}

func generateAddress(prefix string, bytes []byte) string {
	address, err := sdk.Bech32ifyAddressBytes(prefix, bytes)
	if err != nil {
		panic("error during address creation")
	}
	return address
}

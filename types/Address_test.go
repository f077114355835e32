package types_test

import (
	"testing"

	"github.com/nanogallery/nanopay/types"
	"github.com/stretchr/testify/require"
)

const (
	genesisAddress = "nano_3t6k35gi95xu6tergt6p69ck76ogmitsa8mnijtpxm9fkcm736xtoncuohr3"
	genesisPubKey  = "e89208dd038fbb269987689621d52292ae9c35941a7484756ecced92a65093ba"

	burnAddress = "nano_1111111111111111111111111111111111111111111111111111hifc8npp"
)

func TestDecodeNanoAddress(t *testing.T) {
	address, err := types.DecodeNanoAddress(genesisAddress)
	require.NoError(t, err)
	require.Equal(t, genesisPubKey, address.ToHexString())
}

func TestAddressRoundTrip(t *testing.T) {
	address, err := types.StringPublicKeyToAddress(genesisPubKey)
	require.NoError(t, err)
	require.Equal(t, genesisAddress, address.ToNanoAddress())

	decoded, err := types.DecodeNanoAddress(address.ToNanoAddress())
	require.NoError(t, err)
	require.Equal(t, *address, *decoded)
}

func TestDecodeBurnAddress(t *testing.T) {
	address, err := types.DecodeNanoAddress(burnAddress)
	require.NoError(t, err)
	require.Equal(t, types.Address{}, *address)
}

func TestDecodeNanoAddressRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"wrong prefix":   "xrb_3t6k35gi95xu6tergt6p69ck76ogmitsa8mnijtpxm9fkcm736xtoncuohr3",
		"too short":      "nano_3t6k35gi95xu6terg",
		"empty":          "",
		"bad checksum":   "nano_3t6k35gi95xu6tergt6p69ck76ogmitsa8mnijtpxm9fkcm736xtoncuohr1",
		"invalid symbol": "nano_3t6k35gi95xu6tergt6p69ck76ogmitsa8mnijtpxm9fkcm736xtoncuohl3",
	}

	for name, input := range cases {
		_, err := types.DecodeNanoAddress(input)
		require.Error(t, err, name)
	}
}

func TestAddressToLink(t *testing.T) {
	address, err := types.DecodeNanoAddress(genesisAddress)
	require.NoError(t, err)

	link := address.ToLink()
	require.Equal(t, address.ToHexString(), link.ToHexString())
}

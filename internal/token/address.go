package token

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DefaultContractAddress is the MNM coin package address on Sui mainnet.
const DefaultContractAddress = "0xefde5ddb743bd93e68a75e410e985980457b5e8837c7f4afa36ecc12bb91022b"

// Address is a 32-byte Sui object id. Sui ids share the width of an EVM
// word, so the go-ethereum hash type does the decoding and formatting.
type Address struct {
	h common.Hash
}

func Parse(s string) (Address, error) {
	s = strings.TrimSpace(s)
	b, err := hexutil.Decode(strings.ToLower(s))
	if err != nil {
		return Address{}, fmt.Errorf("parse address %q: %w", s, err)
	}
	if len(b) != common.HashLength {
		return Address{}, fmt.Errorf("parse address %q: want %d bytes, got %d", s, common.HashLength, len(b))
	}
	return Address{h: common.BytesToHash(b)}, nil
}

func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the lower-case 0x-prefixed form used in CoinGecko URLs.
func (a Address) String() string { return a.h.Hex() }

func (a Address) IsZero() bool { return a.h == (common.Hash{}) }

// Short abbreviates an identifier to its first and last eight characters,
// e.g. "0xefde5d...bb91022b". Identifiers of 16 characters or fewer are
// returned unchanged.
func Short(s string) string {
	const keep = 8
	if len(s) <= 2*keep {
		return s
	}
	return s[:keep] + "..." + s[len(s)-keep:]
}

package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/yanun0323/errors"
)

// FeeDenominator is the basis-point denominator for fee math.
const FeeDenominator uint64 = 10000

// MaxIntents caps the total number of intents the registry accepts.
const MaxIntents = 10000

// MaxBulkQuery caps the id-list size of bulk fetch queries.
const MaxBulkQuery = 200

// Amount is an unsigned value in the smallest currency unit.
type Amount uint64

// Price is an unscaled limit or average price.
type Price uint64

// Seq is a logical-clock value standing in for block height.
type Seq uint64

// Side describes intent direction.
type Side uint16

const (
	SideUnknown Side = iota
	SideBuy
	SideSell
)

// Valid reports whether the side is Buy or Sell.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// Address identifies a caller, submitter, keeper, controller or owner.
type Address [20]byte

// ZeroAddress is the null identity.
var ZeroAddress Address

// IsZero reports whether the address is the null identity.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalText renders the address as 0x-prefixed hex for JSON payloads.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hex address.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

var errInvalidAddress = errors.New("invalid address")

// ParseAddress decodes a 20-byte hex address, with or without 0x prefix.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, errors.Wrap(err, "decode address")
	}
	if len(raw) != len(Address{}) {
		return Address{}, errInvalidAddress
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// SymbolHash is the fixed-size symbol identifier.
type SymbolHash [32]byte

// HashSymbol derives the symbol identifier from a symbol name.
func HashSymbol(name string) SymbolHash {
	return sha256.Sum256([]byte(name))
}

func (h SymbolHash) String() string {
	return hex.EncodeToString(h[:])
}

// MarshalText renders the symbol hash as hex for JSON payloads.
func (h SymbolHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses a hex symbol hash.
func (h *SymbolHash) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.Wrap(err, "decode symbol hash")
	}
	if len(raw) != len(SymbolHash{}) {
		return errors.New("invalid symbol hash length")
	}
	copy(h[:], raw)
	return nil
}

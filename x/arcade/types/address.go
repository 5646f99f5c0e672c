package types

import (
	"encoding/hex"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// AddressLength is the byte length of an account address.
const AddressLength = 20

// Address identifies a participant. Identity comparisons are case-insensitive
// while the original casing is kept for display.
type Address string

// Key returns the case-folded identity of the address.
func (a Address) Key() string { return strings.ToLower(string(a)) }

// Equal reports whether both addresses name the same participant.
func (a Address) Equal(other Address) bool { return strings.EqualFold(string(a), string(other)) }

func (a Address) String() string { return string(a) }

// Empty reports whether no address is set.
func (a Address) Empty() bool { return a == "" }

// Short renders the address as its first 6 and last 4 characters joined by an
// ellipsis. Addresses too short to abbreviate are returned unchanged.
func (a Address) Short() string {
	s := string(a)
	if len(s) <= 10 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}

// Bytes decodes the hex form of the address.
func (a Address) Bytes() ([]byte, error) {
	s := string(a)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, errorsmod.Wrapf(ErrInvalidAddress, "%q: missing 0x prefix", s)
	}
	bz, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidAddress, "%q: %v", s, err)
	}
	return bz, nil
}

// Validate checks that the address is a 0x-prefixed 20 byte hex string.
func (a Address) Validate() error {
	bz, err := a.Bytes()
	if err != nil {
		return err
	}
	if len(bz) != AddressLength {
		return errorsmod.Wrapf(ErrInvalidAddress, "%q: expected %d bytes, got %d", string(a), AddressLength, len(bz))
	}
	return nil
}

// ParseAddress validates s and returns it as an Address.
func ParseAddress(s string) (Address, error) {
	addr := Address(strings.TrimSpace(s))
	if err := addr.Validate(); err != nil {
		return "", err
	}
	return addr, nil
}

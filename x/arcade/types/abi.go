package types

import (
	"bytes"
	"encoding/binary"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Contract entry points of the Dino Run game contract.
const (
	MethodPayToPlay       = "payToPlay()"
	MethodSubmitScore     = "submitScore(uint256)"
	MethodGetPersonalBest = "getPersonalBest(address)"
	MethodGetGlobalTop10  = "getGlobalTop10()"
)

// erc8021Marker terminates every ERC-8021 attribution suffix.
var erc8021Marker = bytes.Repeat([]byte{0x80, 0x21}, 8)

// Selector returns the 4 byte function selector of an ABI signature.
func Selector(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}

// PayToPlayCalldata encodes a payToPlay() call.
func PayToPlayCalldata() []byte { return Selector(MethodPayToPlay) }

// SubmitScoreCalldata encodes a submitScore(uint256) call.
func SubmitScoreCalldata(score uint64) []byte {
	data := make([]byte, 4+32)
	copy(data, Selector(MethodSubmitScore))
	binary.BigEndian.PutUint64(data[len(data)-8:], score)
	return data
}

// DecodeSubmitScore extracts the score argument of submitScore calldata.
func DecodeSubmitScore(data []byte) (uint64, bool) {
	if len(data) < 4+32 || !bytes.Equal(data[:4], Selector(MethodSubmitScore)) {
		return 0, false
	}
	arg := data[4 : 4+32]
	for _, b := range arg[:24] {
		if b != 0 {
			return 0, false
		}
	}
	return binary.BigEndian.Uint64(arg[24:]), true
}

// AttributionSuffix builds the ERC-8021 (schema 0) data suffix for the given
// builder codes: the comma joined codes, their length, the schema id and the
// 16 byte marker. It returns nil when no codes are configured.
func AttributionSuffix(codes ...string) []byte {
	if len(codes) == 0 {
		return nil
	}
	joined := strings.Join(codes, ",")
	if len(joined) > 0xff {
		joined = joined[:0xff]
	}
	suffix := make([]byte, 0, len(joined)+2+len(erc8021Marker))
	suffix = append(suffix, joined...)
	suffix = append(suffix, byte(len(joined)), 0x00)
	return append(suffix, erc8021Marker...)
}

// StripAttribution removes a trailing ERC-8021 suffix from calldata, if any.
func StripAttribution(data []byte) []byte {
	if !bytes.HasSuffix(data, erc8021Marker) {
		return data
	}
	rest := data[:len(data)-len(erc8021Marker)]
	if len(rest) < 2 {
		return data
	}
	n := int(rest[len(rest)-2])
	if len(rest) < 2+n {
		return data
	}
	return rest[:len(rest)-2-n]
}

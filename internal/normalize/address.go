package normalize

import (
	"regexp"

	"github.com/ethereum/go-ethereum/common"
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address. Unlike
// common.IsHexAddress the prefix is mandatory.
func IsAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// Checksum returns the EIP-55 form of a valid address.
func Checksum(s string) string {
	return common.HexToAddress(s).Hex()
}

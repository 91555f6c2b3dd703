package internal

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// FastHash is a high-performance non-cryptographic hash function suitable for
// log correlation and other use cases where cryptographic security is not
// required. It is never used to derive store keys: two identities sharing a
// digest must not share a challenge slot.
func FastHash(text string) string {
	h := xxhash.Sum64String(text)
	return strconv.FormatUint(h, 16)
}

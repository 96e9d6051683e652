package avatar

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashImage computes the content digest used for change detection between
// revalidations. Equal bytes always produce equal digests.
func HashImage(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// ETagFor computes a strong ETag for a serialized response payload
func ETagFor(payload []byte) string {
	sum := md5.Sum(payload)
	return fmt.Sprintf("%q", hex.EncodeToString(sum[:]))
}

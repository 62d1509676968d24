package auth

import (
	"crypto/sha1"
	"encoding/hex"
)

// Sha1Hash derives the password-equivalent token transmitted during SHA1
// login: the lowercase hex digits of sha1(password ‖ nonce). The result is
// deterministic for identical inputs and neither argument is retained.
func Sha1Hash(password, nonce []byte) []byte {
	h := sha1.New()
	h.Write(password)
	h.Write(nonce)
	sum := h.Sum(nil)
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}

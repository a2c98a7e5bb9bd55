package primitives

import "crypto/sha256"

// DeriveAESKey reduces an arbitrary-length password to a 16-byte AES-128
// key via SHA-256, truncating the digest to its first 16 bytes per §4.1
// ("SHA-256 is used solely to derive the two encryption keys... "). An
// empty password derives a deterministic all-zero-password digest rather
// than special-casing the empty string, so behavior is total.
func DeriveAESKey(password string) [16]byte {
	sum := sha256.Sum256([]byte(password))

	var key [16]byte
	copy(key[:], sum[:16])

	return key
}

// SHA256 returns the SHA-256 digest of data, exposed for the password
// validation fields in the universal header (§4.3).
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

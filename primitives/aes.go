package primitives

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/MEDFormat/MEDC-sub005/errs"
)

// AESBlockSize is the MED format's fixed AES-128 block size (§4.1).
const AESBlockSize = aes.BlockSize // 16

// ExpandedKey wraps a derived AES-128 cipher.Block, standing in for the
// source's 176-byte expanded-key buffer: crypto/aes performs key schedule
// expansion internally, so ExpandedKey simply keeps the block alongside
// the raw 16-byte key it was built from (needed for re-derivation checks).
type ExpandedKey struct {
	Raw   [16]byte
	block cipher.Block
}

// ExpandKey builds the AES-128 round-key schedule from a 16-byte key,
// mirroring the source's one-time key expansion performed once per file
// and reused for every block.
func ExpandKey(key [16]byte) (*ExpandedKey, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	return &ExpandedKey{Raw: key, block: block}, nil
}

// EncryptBlocks encrypts data in place, 16 bytes at a time, in raw ECB-style
// per-block mode — the MED CMP block and metadata §2/§3 encryption regions
// are fixed-size and independently block-aligned, so each 16-byte unit is
// encrypted independently rather than chained (§4.5 step 6: "AES-encrypt
// ... in 16-byte units").
func (k *ExpandedKey) EncryptBlocks(data []byte) error {
	if len(data)%AESBlockSize != 0 {
		return errs.ErrInvalidFieldValue
	}

	for off := 0; off < len(data); off += AESBlockSize {
		k.block.Encrypt(data[off:off+AESBlockSize], data[off:off+AESBlockSize])
	}

	return nil
}

// DecryptBlocks is the inverse of EncryptBlocks.
func (k *ExpandedKey) DecryptBlocks(data []byte) error {
	if len(data)%AESBlockSize != 0 {
		return errs.ErrInvalidFieldValue
	}

	for off := 0; off < len(data); off += AESBlockSize {
		k.block.Decrypt(data[off:off+AESBlockSize], data[off:off+AESBlockSize])
	}

	return nil
}

// Package security implements the MED password/encryption discipline
// (spec §4.3): deriving two AES-128 keys from up to three passwords via
// SHA-256, validating access level against a section's encryption level,
// and the "negate on decrypt" bookkeeping convention.
package security

import (
	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/primitives"
)

// AccessLevel is the maximum encryption level a caller can decrypt with
// the password(s) they supplied.
type AccessLevel int8

const (
	AccessLevelNone AccessLevel = 0
	AccessLevelOne  AccessLevel = 1
	AccessLevelTwo  AccessLevel = 2
)

// EncryptionLevel is the encryption-level byte stored alongside a
// section or CMP block: 0 = unencrypted, 1 or 2 = encrypted at that
// level. A negative value marks "currently decrypted in memory, was
// originally at level |value|" per §4.3.
type EncryptionLevel int8

// IsDecrypted reports whether this level has been negated to mark an
// in-memory decrypted section.
func (l EncryptionLevel) IsDecrypted() bool { return l < 0 }

// OriginalLevel returns the absolute (on-disk) encryption level,
// regardless of whether it is currently marked decrypted in memory.
func (l EncryptionLevel) OriginalLevel() EncryptionLevel {
	if l < 0 {
		return -l
	}

	return l
}

// MarkDecrypted negates the level to record "decrypted in memory without
// losing the original level" (§4.3).
func (l EncryptionLevel) MarkDecrypted() EncryptionLevel {
	if l <= 0 {
		return l
	}

	return -l
}

// MarkEncrypted restores the positive on-disk value, used when
// re-encrypting on write.
func (l EncryptionLevel) MarkEncrypted() EncryptionLevel {
	return l.OriginalLevel()
}

// WrappedKeys are the two password-validation-adjacent regions that allow
// a level-3 (master) password to recover the level-1 and level-2 keys
// without knowing the original level-1/level-2 passwords (§4.3: "level-3
// ... can recover the other two"). Each is exactly one AES block (16
// bytes) holding the raw key, encrypted under the level-3 key.
type WrappedKeys struct {
	Level1 [16]byte
	Level2 [16]byte
	HasL1  bool
	HasL2  bool
}

// PasswordData holds the expanded AES-128 keys actually available to this
// reader/writer, derived from whichever subset of the three-password
// hierarchy was supplied (§4.3).
type PasswordData struct {
	Level1Key *primitives.ExpandedKey
	Level2Key *primitives.ExpandedKey
	Processed bool
}

// Passwords is the up-to-three password hierarchy a caller supplies to
// open or create an encrypted session: Level1 (e.g. subject/patient),
// Level2 (e.g. technician/session), Level3 (master, recovers both).
type Passwords struct {
	Level1 string
	Level2 string
	Level3 string
}

// Access reports the highest encryption level this PasswordData can
// currently decrypt.
func (pd *PasswordData) Access() AccessLevel {
	switch {
	case pd.Level1Key != nil && pd.Level2Key != nil:
		return AccessLevelTwo
	case pd.Level1Key != nil:
		return AccessLevelOne
	default:
		return AccessLevelNone
	}
}

// DeriveForWrite builds a PasswordData plus the WrappedKeys to embed in
// the universal header's password-validation fields, from a fresh
// password hierarchy being set at ingestion time.
func DeriveForWrite(pw Passwords) (*PasswordData, WrappedKeys, error) {
	pd := &PasswordData{Processed: true}

	var l1Raw, l2Raw [16]byte

	if pw.Level1 != "" {
		l1Raw = primitives.DeriveAESKey(pw.Level1)

		k, err := primitives.ExpandKey(l1Raw)
		if err != nil {
			return nil, WrappedKeys{}, err
		}

		pd.Level1Key = k
	}

	if pw.Level2 != "" {
		l2Raw = primitives.DeriveAESKey(pw.Level2)

		k, err := primitives.ExpandKey(l2Raw)
		if err != nil {
			return nil, WrappedKeys{}, err
		}

		pd.Level2Key = k
	}

	var wk WrappedKeys

	if pw.Level3 != "" {
		l3, err := primitives.ExpandKey(primitives.DeriveAESKey(pw.Level3))
		if err != nil {
			return nil, WrappedKeys{}, err
		}

		if pd.Level1Key != nil {
			wk.Level1 = l1Raw
			if err := l3.EncryptBlocks(wk.Level1[:]); err != nil {
				return nil, WrappedKeys{}, err
			}
			wk.HasL1 = true
		}

		if pd.Level2Key != nil {
			wk.Level2 = l2Raw
			if err := l3.EncryptBlocks(wk.Level2[:]); err != nil {
				return nil, WrappedKeys{}, err
			}
			wk.HasL2 = true
		}
	}

	if pd.Level1Key == nil && pd.Level2Key == nil {
		return nil, WrappedKeys{}, errs.ErrPasswordInvalid
	}

	return pd, wk, nil
}

// DeriveForRead builds a PasswordData for opening an existing file: a
// level-3 password recovers whichever of level-1/level-2 were wrapped at
// write time; otherwise level-1/level-2 passwords are hashed directly.
func DeriveForRead(pw Passwords, wk WrappedKeys) (*PasswordData, error) {
	pd := &PasswordData{Processed: true}

	if pw.Level3 != "" {
		l3, err := primitives.ExpandKey(primitives.DeriveAESKey(pw.Level3))
		if err != nil {
			return nil, err
		}

		if wk.HasL1 {
			raw := wk.Level1
			if err := l3.DecryptBlocks(raw[:]); err != nil {
				return nil, err
			}

			k, err := primitives.ExpandKey(raw)
			if err != nil {
				return nil, err
			}

			pd.Level1Key = k
		}

		if wk.HasL2 {
			raw := wk.Level2
			if err := l3.DecryptBlocks(raw[:]); err != nil {
				return nil, err
			}

			k, err := primitives.ExpandKey(raw)
			if err != nil {
				return nil, err
			}

			pd.Level2Key = k
		}

		return pd, nil
	}

	if pw.Level1 != "" {
		k, err := primitives.ExpandKey(primitives.DeriveAESKey(pw.Level1))
		if err != nil {
			return nil, err
		}

		pd.Level1Key = k
	}

	if pw.Level2 != "" {
		k, err := primitives.ExpandKey(primitives.DeriveAESKey(pw.Level2))
		if err != nil {
			return nil, err
		}

		pd.Level2Key = k
	}

	if pd.Level1Key == nil && pd.Level2Key == nil {
		return nil, errs.ErrPasswordInvalid
	}

	return pd, nil
}

// CanDecrypt reports whether this PasswordData's access level is
// sufficient to decrypt a section encrypted at sectionLevel (§4.3:
// "decrypt a section only if access_level >= section_encryption_level").
func (pd *PasswordData) CanDecrypt(sectionLevel EncryptionLevel) bool {
	level := sectionLevel.OriginalLevel()
	if level <= 0 {
		return true
	}

	switch level {
	case 1:
		return pd.Level1Key != nil
	case 2:
		return pd.Level2Key != nil
	default:
		return false
	}
}

// keyFor returns the expanded key appropriate for the given section
// level (1 or 2), or an error if no such key is available.
func (pd *PasswordData) keyFor(sectionLevel EncryptionLevel) (*primitives.ExpandedKey, error) {
	switch sectionLevel.OriginalLevel() {
	case 1:
		if pd.Level1Key == nil {
			return nil, errs.ErrNoKey
		}

		return pd.Level1Key, nil
	case 2:
		if pd.Level2Key == nil {
			return nil, errs.ErrNoKey
		}

		return pd.Level2Key, nil
	default:
		return nil, errs.ErrNoKey
	}
}

// Decrypt decrypts data in place if the key is available, returning the
// (possibly negated) new in-memory level. When the key is absent,
// decryption is skipped and the original level is returned unchanged —
// "absent keys cause decryption to be skipped, never to produce garbage"
// (spec §3.8 invariant).
func (pd *PasswordData) Decrypt(data []byte, sectionLevel EncryptionLevel) (EncryptionLevel, error) {
	if sectionLevel.OriginalLevel() <= 0 {
		return sectionLevel, nil
	}

	key, err := pd.keyFor(sectionLevel)
	if err != nil {
		return sectionLevel, nil //nolint:nilerr // absent key: skip, do not fail
	}

	if err := key.DecryptBlocks(data); err != nil {
		return sectionLevel, err
	}

	return sectionLevel.MarkDecrypted(), nil
}

// Encrypt re-encrypts data in place and returns the restored positive
// on-disk level, the inverse of Decrypt, used when flushing a section
// back to disk.
func (pd *PasswordData) Encrypt(data []byte, sectionLevel EncryptionLevel) (EncryptionLevel, error) {
	if sectionLevel.OriginalLevel() <= 0 {
		return sectionLevel, nil
	}

	key, err := pd.keyFor(sectionLevel)
	if err != nil {
		return sectionLevel, err
	}

	if err := key.EncryptBlocks(data); err != nil {
		return sectionLevel, err
	}

	return sectionLevel.MarkEncrypted(), nil
}

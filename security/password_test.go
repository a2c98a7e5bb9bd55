package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHierarchyScenario(t *testing.T) {
	writer, wrapped, err := DeriveForWrite(Passwords{Level1: "patient_pw", Level3: "master_pw"})
	require.NoError(t, err)
	require.NotNil(t, writer.Level1Key)
	require.True(t, wrapped.HasL1)
	require.False(t, wrapped.HasL2)

	section2 := []byte("0123456789ABCDEF") // §2 payload, one AES block for the test
	section2Copy := append([]byte(nil), section2...)

	level2, err := writer.Encrypt(section2Copy, 1)
	require.NoError(t, err)
	require.Equal(t, EncryptionLevel(1), level2)

	// A reader with only the master password decrypts §2 via the wrapped key.
	masterReader, err := DeriveForRead(Passwords{Level3: "master_pw"}, wrapped)
	require.NoError(t, err)
	assert.True(t, masterReader.CanDecrypt(1))

	plain := append([]byte(nil), section2Copy...)
	newLevel, err := masterReader.Decrypt(plain, 1)
	require.NoError(t, err)
	assert.True(t, newLevel.IsDecrypted())
	assert.Equal(t, section2, plain)

	// A reader with only the patient password also decrypts §2 directly.
	patientReader, err := DeriveForRead(Passwords{Level1: "patient_pw"}, WrappedKeys{})
	require.NoError(t, err)
	assert.True(t, patientReader.CanDecrypt(1))
	assert.False(t, patientReader.CanDecrypt(2))

	plain2 := append([]byte(nil), section2Copy...)
	_, err = patientReader.Decrypt(plain2, 1)
	require.NoError(t, err)
	assert.Equal(t, section2, plain2)
}

func TestDecryptSkipsWithoutKey(t *testing.T) {
	reader, err := DeriveForRead(Passwords{Level1: "patient_pw"}, WrappedKeys{})
	require.NoError(t, err)

	data := []byte("0123456789ABCDEF")
	orig := append([]byte(nil), data...)

	level, err := reader.Decrypt(data, 2) // no level-2 key available
	require.NoError(t, err)
	assert.Equal(t, EncryptionLevel(2), level) // unchanged, not negated
	assert.Equal(t, orig, data)                 // untouched, not garbled
}

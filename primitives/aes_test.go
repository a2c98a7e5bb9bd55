package primitives

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAESRoundTrip(t *testing.T) {
	key := DeriveAESKey("patient_pw")
	ek, err := ExpandKey(key)
	require.NoError(t, err)

	plain := bytes.Repeat([]byte("0123456789ABCDEF"), 4)
	buf := append([]byte(nil), plain...)

	require.NoError(t, ek.EncryptBlocks(buf))
	require.NotEqual(t, plain, buf)

	require.NoError(t, ek.DecryptBlocks(buf))
	require.Equal(t, plain, buf)
}

func TestAESRejectsUnaligned(t *testing.T) {
	ek, err := ExpandKey(DeriveAESKey("x"))
	require.NoError(t, err)

	require.Error(t, ek.EncryptBlocks(make([]byte, 15)))
}

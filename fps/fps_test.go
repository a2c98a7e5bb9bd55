package fps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/medstate"
)

func writeTestFile(t *testing.T, dir, name string, body []byte) string {
	t.Helper()

	header := layout.NewUniversalHeader(layout.TypeMetadata)
	header.SessionName = "test-session"
	raw := header.FinalizeCRCs(body)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	return path
}

func TestFPSOpenSliceRead(t *testing.T) {
	require.NoError(t, medstate.Initialize())

	dir := t.TempDir()
	body := make([]byte, 256)
	path := writeTestFile(t, dir, "x.tmet", body)

	h, err := Open(path, DefaultDirectives(), medstate.DefaultBehavior())
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, layout.TypeMetadata, h.Header.TypeCode)
	assert.Equal(t, "test-session", h.Header.SessionName)

	rest, err := h.ReadSlice(layout.UniversalHeaderSize, len(body))
	require.NoError(t, err)
	assert.Equal(t, body, rest)
}

func TestFPSOpenFullRead(t *testing.T) {
	require.NoError(t, medstate.Initialize())

	dir := t.TempDir()
	body := []byte("some metadata payload")
	path := writeTestFile(t, dir, "x.tmet", body)

	d := DefaultDirectives()
	d.ReadMode = ReadModeFull

	h, err := Open(path, d, medstate.DefaultBehavior())
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, layout.TypeMetadata, h.Header.TypeCode)
}

func TestFPSOpenMmap(t *testing.T) {
	require.NoError(t, medstate.Initialize())

	dir := t.TempDir()
	body := make([]byte, 8192)
	path := writeTestFile(t, dir, "x.tmet", body)

	d := DefaultDirectives()
	d.ReadMode = ReadModeMmap

	h, err := Open(path, d, medstate.DefaultBehavior())
	require.NoError(t, err)
	defer h.Close()

	_, err = h.ReadSlice(0, layout.UniversalHeaderSize)
	require.NoError(t, err)
	assert.Greater(t, h.BlocksTouched(), 0)
}

func TestFPSWriteReadOnlyRejected(t *testing.T) {
	require.NoError(t, medstate.Initialize())

	dir := t.TempDir()
	path := writeTestFile(t, dir, "x.tmet", []byte("body"))

	h, err := Open(path, DefaultDirectives(), medstate.DefaultBehavior())
	require.NoError(t, err)
	defer h.Close()

	err = h.Write(0, []byte("junk"))
	assert.Error(t, err)
}

func TestFPSCRCValidation(t *testing.T) {
	require.NoError(t, medstate.Initialize())

	dir := t.TempDir()
	path := writeTestFile(t, dir, "x.tmet", []byte("body"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[50] ^= 0xFF // corrupt a header byte
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	behavior := medstate.DefaultBehavior().WithFlag(medstate.CRCValidateOnInput)
	_, err = Open(path, DefaultDirectives(), behavior)
	assert.Error(t, err)
}

package medc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MEDFormat/MEDC-sub005/hierarchy"
	"github.com/MEDFormat/MEDC-sub005/layout"
)

func writeUHFile(t *testing.T, path string, typeCode layout.TypeCode, body []byte) {
	t.Helper()

	h := layout.NewUniversalHeader(typeCode)
	raw := h.FinalizeCRCs(body)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

func TestOpenSessionAndResolve(t *testing.T) {
	root := t.TempDir()
	sessionDir := filepath.Join(root, "patient002.medd")
	channelDir := filepath.Join(sessionDir, "ch1.ticd")
	segDir := filepath.Join(channelDir, "ch1_s0001.tisd")
	require.NoError(t, os.MkdirAll(segDir, 0o755))

	writeUHFile(t, filepath.Join(segDir, "ch1_s0001.tmet"), layout.TypeMetadata, make([]byte, layout.MetadataFileSize-layout.UniversalHeaderSize))
	writeUHFile(t, filepath.Join(segDir, "ch1_s0001.tdat"), layout.TypeTimeSeriesData, []byte{})
	writeUHFile(t, filepath.Join(segDir, "ch1_s0001.tidx"), layout.TypeTimeSeriesIndex, []byte{})

	session, err := OpenSession(sessionDir, DefaultOptions())
	require.NoError(t, err)
	defer session.Close()

	assert.Equal(t, "patient002", session.Name)

	_, err = Resolve(session, hierarchy.NewUnsetTimeSlice())
	assert.Error(t, err) // no Sgmt records in this synthetic session

	contigua, err := Contigua(&session.Channels[0])
	require.NoError(t, err)
	assert.Empty(t, contigua)
}

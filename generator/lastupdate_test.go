package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStoreRoundTrip(t *testing.T) {
	store := &UpdateStore{Path: filepath.Join(t.TempDir(), "lastUpdate.json")}

	require.NoError(t, store.Save(23))

	record := store.Load()
	assert.Equal(t, 23, record.ProductCount)
	require.NotNil(t, record.LastUpdateTime)
}

func TestUpdateStoreMissingFileIsZeroRecord(t *testing.T) {
	store := &UpdateStore{Path: filepath.Join(t.TempDir(), "lastUpdate.json")}

	record := store.Load()
	assert.Equal(t, 0, record.ProductCount)
	assert.Nil(t, record.LastUpdateTime)
}

func TestUpdateStoreCorruptFileIsZeroRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lastUpdate.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := &UpdateStore{Path: path}
	record := store.Load()
	assert.Equal(t, 0, record.ProductCount)
}

package acep

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHistory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "catalog.db")
	catalog, err := NewCatalog(file)
	require.NoError(t, err)

	at := time.Date(2021, time.March, 4, 5, 6, 7, 8, time.UTC)
	records := []Record{
		{Directory: "/frame/a", Index: 1, Basename: "apple", Source: "/src/apple.jpg", SHA1: "AA", Time: at},
		{Directory: "/frame/b", Index: 1, Basename: "banana", Source: "/src/banana.jpg", SHA1: "BB", Time: at.Add(time.Second)},
		{Directory: "/frame/a", Index: 2, Basename: "cantaloupe", Source: "/src/cantaloupe.jpg", SHA1: "CC", Time: at.Add(2 * time.Second)},
	}
	for _, r := range records {
		require.NoError(t, catalog.Record(r))
	}
	require.NoError(t, catalog.Close())

	// Reopening keeps what was recorded
	catalog, err = NewCatalog(file)
	require.NoError(t, err)
	defer catalog.Close()

	all, err := catalog.History("")
	require.NoError(t, err)
	assert.Equal(t, records, all)

	a, err := catalog.History("/frame/a")
	require.NoError(t, err)
	assert.Equal(t, []Record{records[0], records[2]}, a)

	none, err := catalog.History("/frame/c")
	require.NoError(t, err)
	assert.Empty(t, none)
}

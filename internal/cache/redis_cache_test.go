package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListingKeyFormat(t *testing.T) {
	assert.Equal(t, "venues:1:10:", ListingKey(1, 10, ""))
	assert.Equal(t, "venues:2:5:baku", ListingKey(2, 5, "baku"))
}

func TestListingKeysAreDistinctPerTuple(t *testing.T) {
	keys := map[string]bool{
		ListingKey(1, 10, ""):     true,
		ListingKey(2, 10, ""):     true,
		ListingKey(1, 20, ""):     true,
		ListingKey(1, 10, "baku"): true,
	}
	assert.Len(t, keys, 4)
}

func TestListingTTL(t *testing.T) {
	assert.Equal(t, 10*time.Hour, ListingTTL)
}

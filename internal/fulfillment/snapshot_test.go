package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoStoreResponse = `{
  "body": {
    "content": {
      "pickupMessage": {
        "stores": [
          {
            "storeName": "Nashua",
            "storeNumber": "R354",
            "partsAvailability": {
              "MFXG4LL/A": {"pickupDisplay": "available"}
            }
          },
          {
            "storeName": "Natick",
            "storeNumber": "R232",
            "partsAvailability": {
              "MFXG4LL/A": {"pickupDisplay": "unavailable"}
            }
          }
        ]
      }
    }
  }
}`

func TestParseSnapshotTwoStores(t *testing.T) {
	snap, err := ParseSnapshot([]byte(twoStoreResponse))
	require.NoError(t, err)

	assert.True(t, snap.Available)
	require.Len(t, snap.Stores, 2)
	assert.Equal(t, "Nashua", snap.Stores[0].Name)
	assert.Equal(t, "R354", snap.Stores[0].Number)
	assert.Equal(t, "available", snap.Stores[0].Parts["MFXG4LL/A"])
	assert.Equal(t, "unavailable", snap.Stores[1].Parts["MFXG4LL/A"])
	assert.False(t, snap.CheckedAt.IsZero())
}

func TestParseSnapshotEmptyStores(t *testing.T) {
	snap, err := ParseSnapshot([]byte(`{"body":{"content":{"pickupMessage":{"stores":[]}}}}`))
	require.NoError(t, err)

	assert.False(t, snap.Available)
	assert.Empty(t, snap.Stores)
}

func TestParseSnapshotMissingStores(t *testing.T) {
	snap, err := ParseSnapshot([]byte(`{"body":{}}`))
	require.NoError(t, err)
	assert.False(t, snap.Available)
	assert.Empty(t, snap.Stores)
}

func TestParseSnapshotMalformed(t *testing.T) {
	_, err := ParseSnapshot([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseSnapshotFetchError(t *testing.T) {
	_, err := ParseSnapshot([]byte(`{"error":"TypeError: Failed to fetch"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to fetch")
}

func TestSnapshotEqualIgnoresTimestamp(t *testing.T) {
	a, err := ParseSnapshot([]byte(twoStoreResponse))
	require.NoError(t, err)
	b, err := ParseSnapshot([]byte(twoStoreResponse))
	require.NoError(t, err)

	// CheckedAt differs between the two parses; equality must not care.
	assert.True(t, a.Equal(b))
}

func TestSnapshotEqualDetectsChanges(t *testing.T) {
	base, err := ParseSnapshot([]byte(twoStoreResponse))
	require.NoError(t, err)

	changed := base
	changed.Stores = append([]StoreStatus(nil), base.Stores...)
	changed.Stores[1] = StoreStatus{
		Name:   "Natick",
		Number: "R232",
		Parts:  map[string]string{"MFXG4LL/A": "available"},
	}
	assert.False(t, base.Equal(changed))

	// Store reordering is a structural change and compares unequal.
	reordered := Snapshot{
		Available: base.Available,
		Stores:    []StoreStatus{base.Stores[1], base.Stores[0]},
	}
	assert.False(t, base.Equal(reordered))
}

func TestEndpointURL(t *testing.T) {
	got := EndpointURL("https://www.apple.com", "MFXG4LL/A", "R354", false)
	assert.Contains(t, got, "/shop/fulfillment-messages?")
	assert.Contains(t, got, "parts.0=MFXG4LL%2FA")
	assert.Contains(t, got, "store=R354")
	assert.Contains(t, got, "searchNearby=false")
}

func TestProductURL(t *testing.T) {
	got := ProductURL("https://www.apple.com/", "MFXG4LL/A")
	assert.Equal(t, "https://www.apple.com/shop/product/MFXG4LL/A", got)
}

package fulfillment

import (
	"encoding/json"
	"fmt"
	"time"
)

// PickupAvailable is the pickupDisplay value the retailer uses for parts
// that can be picked up today.
const PickupAvailable = "available"

// StoreStatus records the pickup status of every monitored part at one store.
type StoreStatus struct {
	Name   string            `json:"store_name"`
	Number string            `json:"store_number"`
	Parts  map[string]string `json:"parts_availability"`
}

// Snapshot is the parsed, comparison-ready result of one availability check.
// It is recomputed every cycle and kept only as the "last known" value for
// the next comparison.
type Snapshot struct {
	CheckedAt time.Time     `json:"checked_at"`
	Stores    []StoreStatus `json:"stores"`
	Available bool          `json:"available"`
}

// ParseSnapshot decodes a raw fulfillment response into a Snapshot. A
// malformed body or an error relayed by the in-page fetch yields an error;
// a missing or empty stores list is a valid not-available result.
func ParseSnapshot(raw []byte) (Snapshot, error) {
	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Snapshot{}, fmt.Errorf("decode fulfillment response: %w", err)
	}
	if resp.Error != "" {
		return Snapshot{}, fmt.Errorf("fulfillment fetch reported error: %s", resp.Error)
	}

	snap := Snapshot{
		CheckedAt: time.Now(),
		Stores:    make([]StoreStatus, 0, len(resp.Body.Content.PickupMessage.Stores)),
	}
	for _, store := range resp.Body.Content.PickupMessage.Stores {
		status := StoreStatus{
			Name:   store.StoreName,
			Number: store.StoreNumber,
			Parts:  make(map[string]string, len(store.PartsAvailability)),
		}
		for part, msg := range store.PartsAvailability {
			status.Parts[part] = msg.PickupDisplay
			if msg.PickupDisplay == PickupAvailable {
				snap.Available = true
			}
		}
		snap.Stores = append(snap.Stores, status)
	}
	return snap, nil
}

// Equal reports whether two snapshots are structurally identical. The capture
// timestamp is deliberately excluded: it changes every cycle and would defeat
// change detection. Store order is significant, so a reordered response
// compares unequal.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Available != other.Available || len(s.Stores) != len(other.Stores) {
		return false
	}
	for i, store := range s.Stores {
		if !store.equal(other.Stores[i]) {
			return false
		}
	}
	return true
}

func (st StoreStatus) equal(other StoreStatus) bool {
	if st.Name != other.Name || st.Number != other.Number || len(st.Parts) != len(other.Parts) {
		return false
	}
	for part, status := range st.Parts {
		if other.Parts[part] != status {
			return false
		}
	}
	return true
}

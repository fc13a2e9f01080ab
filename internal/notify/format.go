package notify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pickupwatch/pickupwatch/internal/fulfillment"
)

// FormatBody renders a snapshot as the plaintext email body: a timestamped
// header, an availability banner, and a per-store block listing each part's
// pickup status.
func FormatBody(snap fulfillment.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pickup availability check - %s\n\n", snap.CheckedAt.Format(time.RFC3339))
	if snap.Available {
		b.WriteString("PRODUCT AVAILABLE!\n\n")
	} else {
		b.WriteString("Product not available\n\n")
	}

	b.WriteString("Store details:\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	for _, store := range snap.Stores {
		fmt.Fprintf(&b, "Store: %s (#%s)\n", store.Name, store.Number)
		parts := make([]string, 0, len(store.Parts))
		for part := range store.Parts {
			parts = append(parts, part)
		}
		sort.Strings(parts)
		for _, part := range parts {
			fmt.Fprintf(&b, "  %s: %s\n", part, store.Parts[part])
		}
		b.WriteString("\n")
	}

	return b.String()
}

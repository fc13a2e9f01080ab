package fulfillment

import (
	"net/url"
	"strconv"
	"strings"
)

// EndpointURL builds the fulfillment-messages query URL for one part/store
// pair. The query parameter names are owned by the retailer.
func EndpointURL(base, part, store string, searchNearby bool) string {
	q := url.Values{}
	q.Set("parts.0", part)
	q.Set("store", store)
	q.Set("searchNearby", strconv.FormatBool(searchNearby))
	return strings.TrimRight(base, "/") + "/shop/fulfillment-messages?" + q.Encode()
}

// ProductURL builds the public product page used to establish browsing
// context before the availability call. Part numbers may contain slashes and
// appear unescaped in the path, matching how the storefront links them.
func ProductURL(base, part string) string {
	return strings.TrimRight(base, "/") + "/shop/product/" + part
}

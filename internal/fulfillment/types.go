// Package fulfillment decodes the retailer's pickup-availability responses
// into comparison-ready snapshots.
package fulfillment

// The wire types below mirror the retailer's fulfillment-messages payload.
// The schema is externally owned; only the fields the monitor reads are
// declared, everything else is ignored by the decoder.

type apiResponse struct {
	Error string  `json:"error,omitempty"`
	Body  apiBody `json:"body"`
}

type apiBody struct {
	Content apiContent `json:"content"`
}

type apiContent struct {
	PickupMessage pickupMessage `json:"pickupMessage"`
}

type pickupMessage struct {
	Stores []apiStore `json:"stores"`
}

type apiStore struct {
	StoreName         string                  `json:"storeName"`
	StoreNumber       string                  `json:"storeNumber"`
	PartsAvailability map[string]partsMessage `json:"partsAvailability"`
}

type partsMessage struct {
	PickupDisplay string `json:"pickupDisplay"`
}

package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePropertyReading records a numeric property reading.
//
// This is the primary method for recording property state telemetry.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - propertyID: Unique identifier of the property
//   - category: Owner category of the property (connector, device, channel)
//   - value: The actual value after read-side normalization
//   - valid: Whether the last normalization pass succeeded
//
// Example:
//
//	client.WritePropertyReading("9f0c...", "channel", 21.5, true)
func (c *Client) WritePropertyReading(propertyID string, category string, value float64, valid bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"property_state",
		map[string]string{
			"property_id": propertyID,
			"category":    category,
		},
		map[string]interface{}{
			"actual_value": value,
			"valid":        valid,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePendingFlag records a change of a property's pending flag.
//
// Used to track how long expected values stay unconfirmed.
func (c *Client) WritePendingFlag(propertyID string, category string, pending bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"property_pending",
		map[string]string{
			"property_id": propertyID,
			"category":    category,
		},
		map[string]interface{}{
			"pending": pending,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// Flush forces all batched writes to be sent immediately.
//
// Normally writes are flushed on the configured interval; call this
// before shutdown or when immediate persistence matters.
func (c *Client) Flush() {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.Flush()
}

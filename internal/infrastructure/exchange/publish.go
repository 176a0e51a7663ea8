package exchange

import (
	"fmt"
)

// Maximum payload size for published documents (1MB).
// This prevents resource exhaustion and aligns with typical broker limits.
const maxPayloadSize = 1 << 20 // 1MB

// Publish sends a document to the specified routing key.
//
// Parameters:
//   - key: The routing key to publish under (e.g., RoutingKeyDeviceProperty)
//   - payload: The document payload (JSON, max 1MB)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message for new subscribers
//
// QoS Levels:
//   - 0: At most once (fire and forget)
//   - 1: At least once (guaranteed delivery, may duplicate)
//   - 2: Exactly once (guaranteed, no duplicates, higher overhead)
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
//
// Example:
//
//	err := client.Publish(exchange.RoutingKeyChannelProperty, doc, 1, false)
func (c *Client) Publish(key RoutingKey, payload []byte, qos byte, retained bool) error {
	// Validate inputs
	if key == "" {
		return ErrInvalidRoutingKey
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	// Check connection state
	if !c.IsConnected() {
		return ErrNotConnected
	}

	// Publish with timeout
	token := c.client.Publish(string(key), qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishDocument publishes a document with the configured default QoS,
// unretained. This is the normal path for property-reported documents.
func (c *Client) PublishDocument(key RoutingKey, payload []byte) error {
	return c.Publish(key, payload, byte(c.cfg.QoS), false)
}

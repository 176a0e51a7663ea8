package exchange

import (
	"fmt"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// MessageHandler is the callback signature for received messages.
//
// Handlers run on the client's receive goroutines and should not block for
// extended periods; errors are logged, not retried.
type MessageHandler func(key string, payload []byte) error

// subscription tracks one active subscription for restoration on reconnect.
type subscription struct {
	key     RoutingKey
	qos     byte
	handler MessageHandler
}

// Subscribe registers a handler for documents on the given routing key.
//
// Subscriptions are automatically restored when the connection is lost and
// re-established.
//
// Parameters:
//   - key: The routing key to consume (e.g., RoutingKeyConfigurationChanged)
//   - qos: Maximum QoS level for received messages (0, 1, or 2)
//   - handler: Callback invoked for each message
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Subscribe(key RoutingKey, qos byte, handler MessageHandler) error {
	if key == "" {
		return ErrInvalidRoutingKey
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if handler == nil {
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	// Track for re-subscription on reconnect
	c.subMu.Lock()
	c.subscriptions[key] = subscription{key: key, qos: qos, handler: handler}
	c.subMu.Unlock()

	token := c.client.Subscribe(string(key), qos, c.wrapHandler(handler))
	if !token.WaitTimeout(defaultPublishTimeout) {
		c.dropSubscription(key)
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		c.dropSubscription(key)
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	return nil
}

// SubscribeDocument subscribes with the configured default QoS. This is
// the normal path for consuming collaborator signals.
func (c *Client) SubscribeDocument(key RoutingKey, handler MessageHandler) error {
	return c.Subscribe(key, byte(c.cfg.QoS), handler)
}

// Unsubscribe removes a subscription and stops receiving messages for a
// routing key. Messages already in flight may still be delivered.
func (c *Client) Unsubscribe(key RoutingKey) error {
	if key == "" {
		return ErrInvalidRoutingKey
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.dropSubscription(key)

	token := c.client.Unsubscribe(string(key))
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrUnsubscribeFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsubscribeFailed, err)
	}

	return nil
}

// SubscriptionCount returns the number of active subscriptions.
func (c *Client) SubscriptionCount() int {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return len(c.subscriptions)
}

func (c *Client) dropSubscription(key RoutingKey) {
	c.subMu.Lock()
	delete(c.subscriptions, key)
	c.subMu.Unlock()
}

// restoreSubscriptions re-subscribes every tracked key after a reconnect.
func (c *Client) restoreSubscriptions() {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for _, sub := range c.subscriptions {
		c.client.Subscribe(string(sub.key), sub.qos, c.wrapHandler(sub.handler))
	}
}

// wrapHandler adapts a MessageHandler to paho with panic recovery.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				c.getLogger().Error("message handler panic recovered",
					"routing_key", msg.Topic(),
					"panic", r,
				)
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.getLogger().Warn("message handler returned error",
				"routing_key", msg.Topic(),
				"error", err,
			)
		}
	}
}

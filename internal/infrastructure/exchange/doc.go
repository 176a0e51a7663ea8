// Package exchange provides the MQTT-backed event exchange client for Lumen Core.
//
// The exchange is the outbound boundary of the property synchronization
// pipeline: whenever a property's configuration or runtime state changes, a
// merged document is published under a routing key derived from the
// property's owner category (connector, device, or channel).
//
// # Features
//
//   - Connection management with auto-reconnect and exponential backoff
//   - Last Will and Testament for offline detection
//   - Publish with timeout and payload size cap
//   - Routing key constants and category lookup
//
// # Usage
//
//	client, err := exchange.Connect(cfg.Exchange)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	key, _ := exchange.RoutingKeyForCategory("device")
//	err = client.PublishDocument(key, documentJSON)
//
// # Thread Safety
//
// All Client methods are safe for concurrent use.
package exchange

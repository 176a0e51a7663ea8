package exchange

// RoutingKey identifies the logical stream a published document belongs to.
//
// Routing keys are determined purely by the owner category of the property
// being reported. Subscribers bind to these keys to receive merged
// configuration+state documents.
type RoutingKey string

// Property-reported routing keys, one per owner category.
const (
	// RoutingKeyConnectorProperty carries connector property documents.
	RoutingKeyConnectorProperty RoutingKey = "connector-property-reported"

	// RoutingKeyDeviceProperty carries device property documents.
	RoutingKeyDeviceProperty RoutingKey = "device-property-reported"

	// RoutingKeyChannelProperty carries channel property documents.
	RoutingKeyChannelProperty RoutingKey = "channel-property-reported"
)

// Inbound routing keys, consumed from collaborating services.
const (
	// RoutingKeyConfigurationChanged carries property configuration
	// lifecycle signals from the configuration service.
	RoutingKeyConfigurationChanged RoutingKey = "property-configuration-changed"

	// RoutingKeyStateReported carries raw property value reports from
	// connector services.
	RoutingKeyStateReported RoutingKey = "property-state-reported"
)

// routingKeysByCategory maps owner category names to routing keys.
// Categories match property.OwnerKind values.
var routingKeysByCategory = map[string]RoutingKey{
	"connector": RoutingKeyConnectorProperty,
	"device":    RoutingKeyDeviceProperty,
	"channel":   RoutingKeyChannelProperty,
}

// RoutingKeyForCategory returns the property-reported routing key for an
// owner category ("connector", "device", or "channel").
//
// Returns:
//   - RoutingKey: The routing key for the category
//   - bool: false if the category is not recognised
func RoutingKeyForCategory(category string) (RoutingKey, bool) {
	key, ok := routingKeysByCategory[category]
	return key, ok
}

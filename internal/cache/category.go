package cache

import "github.com/lumenhaus/lumen-core/internal/property"

// Category identifies a cacheable entity family. Each category owns one
// builder-cache partition and a keyed namespace in the repository cache.
type Category string

// Cacheable entity categories.
const (
	CategoryConnectors Category = "connectors"
	CategoryDevices    Category = "devices"
	CategoryChannels   Category = "channels"

	CategoryConnectorsProperties Category = "connectors-properties"
	CategoryDevicesProperties    Category = "devices-properties"
	CategoryChannelsProperties   Category = "channels-properties"

	CategoryConnectorsControls Category = "connectors-controls"
	CategoryDevicesControls    Category = "devices-controls"
	CategoryChannelsControls   Category = "channels-controls"
)

// AllCategories returns every cacheable category.
func AllCategories() []Category {
	return []Category{
		CategoryConnectors,
		CategoryDevices,
		CategoryChannels,
		CategoryConnectorsProperties,
		CategoryDevicesProperties,
		CategoryChannelsProperties,
		CategoryConnectorsControls,
		CategoryDevicesControls,
		CategoryChannelsControls,
	}
}

// Tag marks cache entries for group invalidation.
type Tag string

// tagSpec binds a category to its builder-cache partition tag and the
// prefix used to derive per-entity repository tags.
type tagSpec struct {
	builder    Tag
	repoPrefix string
}

var tagSpecs = map[Category]tagSpec{
	CategoryConnectors: {builder: "builder_connectors", repoPrefix: "connectors"},
	CategoryDevices:    {builder: "builder_devices", repoPrefix: "devices"},
	CategoryChannels:   {builder: "builder_channels", repoPrefix: "channels"},

	CategoryConnectorsProperties: {builder: "builder_connectors_properties", repoPrefix: "connectors_properties"},
	CategoryDevicesProperties:    {builder: "builder_devices_properties", repoPrefix: "devices_properties"},
	CategoryChannelsProperties:   {builder: "builder_channels_properties", repoPrefix: "channels_properties"},

	CategoryConnectorsControls: {builder: "builder_connectors_controls", repoPrefix: "connectors_controls"},
	CategoryDevicesControls:    {builder: "builder_devices_controls", repoPrefix: "devices_controls"},
	CategoryChannelsControls:   {builder: "builder_channels_controls", repoPrefix: "channels_controls"},
}

// Valid reports whether the category is a known cacheable family.
func (c Category) Valid() bool {
	_, ok := tagSpecs[c]
	return ok
}

// BuilderTag returns the tag of the category's builder-cache partition.
// Cleaning it drops every assembled document of the category.
func (c Category) BuilderTag() Tag {
	return tagSpecs[c].builder
}

// RepoTag returns the per-entity repository tag for an entity of the
// category. Cleaning it drops only that entity's raw records.
func (c Category) RepoTag(entityID string) Tag {
	return Tag(tagSpecs[c].repoPrefix + "_" + entityID)
}

// PropertyCategory maps a property owner kind to its properties category.
func PropertyCategory(kind property.OwnerKind) (Category, bool) {
	switch kind {
	case property.OwnerConnector:
		return CategoryConnectorsProperties, true
	case property.OwnerDevice:
		return CategoryDevicesProperties, true
	case property.OwnerChannel:
		return CategoryChannelsProperties, true
	default:
		return "", false
	}
}

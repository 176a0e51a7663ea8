package cache

import (
	"testing"

	"github.com/lumenhaus/lumen-core/internal/property"
)

func TestCategoryTags(t *testing.T) {
	for _, category := range AllCategories() {
		if !category.Valid() {
			t.Errorf("%s must be valid", category)
		}
		if category.BuilderTag() == "" {
			t.Errorf("%s has empty builder tag", category)
		}
		if category.RepoTag("e1") == Tag("") {
			t.Errorf("%s has empty repo tag", category)
		}
	}

	if Category("fridge").Valid() {
		t.Error("unknown category must not be valid")
	}
}

func TestRepoTagsAreEntityScoped(t *testing.T) {
	a := CategoryDevices.RepoTag("dev-1")
	b := CategoryDevices.RepoTag("dev-2")
	if a == b {
		t.Errorf("repo tags for distinct entities collide: %s", a)
	}
}

func TestPropertyCategory(t *testing.T) {
	tests := []struct {
		kind property.OwnerKind
		want Category
		ok   bool
	}{
		{property.OwnerConnector, CategoryConnectorsProperties, true},
		{property.OwnerDevice, CategoryDevicesProperties, true},
		{property.OwnerChannel, CategoryChannelsProperties, true},
		{property.OwnerKind("fridge"), "", false},
	}

	for _, tt := range tests {
		got, ok := PropertyCategory(tt.kind)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PropertyCategory(%s) = %v, %v; want %v, %v", tt.kind, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInvalidateCleansBuilderPartitionAndEntity(t *testing.T) {
	builder := New()
	repository := New()
	inv := NewInvalidator(builder, repository)

	// Assembled documents for two categories.
	builder.Set("doc-dev-1", "doc", CategoryDevices.BuilderTag())
	builder.Set("doc-dev-2", "doc", CategoryDevices.BuilderTag())
	builder.Set("doc-ch-1", "doc", CategoryChannels.BuilderTag())

	// Raw records for two devices.
	repository.Set("rec-dev-1", "rec", CategoryDevices.RepoTag("dev-1"))
	repository.Set("rec-dev-2", "rec", CategoryDevices.RepoTag("dev-2"))

	removed := inv.Invalidate(CategoryDevices, "dev-1")
	if removed != 3 {
		t.Errorf("Invalidate removed %d entries, want 3", removed)
	}

	// The whole builder partition of the category is gone.
	if _, ok := builder.Get("doc-dev-1"); ok {
		t.Error("builder partition entry survived invalidation")
	}
	if _, ok := builder.Get("doc-dev-2"); ok {
		t.Error("builder partition entry survived invalidation")
	}
	// Other categories keep their documents.
	if _, ok := builder.Get("doc-ch-1"); !ok {
		t.Error("unrelated builder partition was cleaned")
	}

	// Only the changed entity's records are dropped.
	if _, ok := repository.Get("rec-dev-1"); ok {
		t.Error("entity record survived invalidation")
	}
	if _, ok := repository.Get("rec-dev-2"); !ok {
		t.Error("unrelated entity record was cleaned")
	}
}

func TestInvalidateUnknownCategory(t *testing.T) {
	inv := NewInvalidator(New(), New())

	if removed := inv.Invalidate("fridge", "e1"); removed != 0 {
		t.Errorf("Invalidate(unknown) removed %d entries, want 0", removed)
	}
}

func TestInvalidateWithoutEntityID(t *testing.T) {
	builder := New()
	repository := New()
	inv := NewInvalidator(builder, repository)

	builder.Set("doc", "doc", CategoryDevices.BuilderTag())
	repository.Set("rec", "rec", CategoryDevices.RepoTag("dev-1"))

	removed := inv.Invalidate(CategoryDevices, "")
	if removed != 1 {
		t.Errorf("Invalidate removed %d entries, want builder-only 1", removed)
	}
	if _, ok := repository.Get("rec"); !ok {
		t.Error("repository record must survive a category-wide invalidation")
	}
}

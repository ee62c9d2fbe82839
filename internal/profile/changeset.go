package profile

import (
	"github.com/polarisfn/Polaris_Go/internal/domain"
)

// ChangeSet accumulates mutations against one in-memory profile and the
// ordered change records they produce. It never persists and never touches
// the network; record order equals the order mutations were applied.
type ChangeSet struct {
	profile *domain.Profile
	changes []domain.ChangeRecord
}

// NewChangeSet wraps profile for mutation tracking.
func NewChangeSet(profile *domain.Profile) *ChangeSet {
	if profile.Items == nil {
		profile.Items = make(map[string]*domain.Item)
	}
	return &ChangeSet{profile: profile}
}

// Profile returns the profile under mutation.
func (c *ChangeSet) Profile() *domain.Profile { return c.profile }

// AddItem inserts item under itemID and records an itemAdded change.
func (c *ChangeSet) AddItem(itemID string, item *domain.Item) {
	c.profile.Items[itemID] = item
	c.changes = append(c.changes, domain.ChangeRecord{
		ChangeType: domain.ChangeItemAdded,
		ItemID:     itemID,
		Item:       item,
	})
}

// RemoveItem deletes itemID from the profile and records an itemRemoved
// change. Returns false when the item does not exist (no record appended).
func (c *ChangeSet) RemoveItem(itemID string) bool {
	if _, ok := c.profile.Items[itemID]; !ok {
		return false
	}
	delete(c.profile.Items, itemID)
	c.changes = append(c.changes, domain.ChangeRecord{
		ChangeType: domain.ChangeItemRemoved,
		ItemID:     itemID,
	})
	return true
}

// ModifyStat sets the named stat attribute and records a statModified change.
func (c *ChangeSet) ModifyStat(name string, value interface{}) {
	if c.profile.Stats.Attributes == nil {
		c.profile.Stats.Attributes = make(map[string]interface{})
	}
	c.profile.Stats.Attributes[name] = value
	c.changes = append(c.changes, domain.ChangeRecord{
		ChangeType: domain.ChangeStatModified,
		Name:       name,
		Value:      value,
	})
}

// Changes returns the accumulated records in application order.
func (c *ChangeSet) Changes() []domain.ChangeRecord {
	if c.changes == nil {
		return []domain.ChangeRecord{}
	}
	return c.changes
}

// Empty reports whether no mutation was recorded.
func (c *ChangeSet) Empty() bool { return len(c.changes) == 0 }

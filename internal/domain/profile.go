package domain

// Profile is the versioned state document for one (account, profileId) pair.
// Items and stat attributes are free-form so the document survives round-trips
// through the JSONB store without losing fields this service does not model.
type Profile struct {
	ProfileID       string           `json:"profileId"`
	Items           map[string]*Item `json:"items"`
	Stats           Stats            `json:"stats"`
	Rvn             int              `json:"rvn"`
	CommandRevision int              `json:"commandRevision"`
	Created         string           `json:"created,omitempty"`
	Updated         string           `json:"updated,omitempty"`
}

// Stats holds the profile's named stat attributes.
type Stats struct {
	Attributes map[string]interface{} `json:"attributes"`
}

// Item is a single owned item. TemplateID identifies the catalog entry and is
// compared case-insensitively for deduplication. Attributes carry the
// lifecycle fields (quest_state, creation_time, completion_* counters, ...).
type Item struct {
	TemplateID string                 `json:"templateId"`
	Attributes map[string]interface{} `json:"attributes"`
	Quantity   int                    `json:"quantity"`
}

// QuestManager is the quest_manager stat attribute.
type QuestManager struct {
	DailyLoginInterval string `json:"dailyLoginInterval,omitempty"`
	DailyQuestRerolls  int    `json:"dailyQuestRerolls"`
}

// QuestTemplate is one entry of the static daily quest catalog.
// Objectives maps an objective key to its display name.
type QuestTemplate struct {
	TemplateID string            `json:"templateId"`
	Objectives map[string]string `json:"objectives"`
}

// NewProfile returns an empty profile document for profileID.
func NewProfile(profileID, now string) *Profile {
	return &Profile{
		ProfileID: profileID,
		Items:     make(map[string]*Item),
		Stats: Stats{
			Attributes: map[string]interface{}{
				StatQuestManager: QuestManager{},
			},
		},
		Created: now,
		Updated: now,
	}
}

// QuestManager extracts the quest_manager stat. Missing or malformed values
// yield a zero QuestManager rather than an error; the revision protocol is
// permissive about absent nested fields.
func (p *Profile) QuestManager() QuestManager {
	if p.Stats.Attributes == nil {
		return QuestManager{}
	}
	raw, ok := p.Stats.Attributes[StatQuestManager]
	if !ok {
		return QuestManager{}
	}

	switch v := raw.(type) {
	case QuestManager:
		return v
	case map[string]interface{}:
		// Profiles loaded from the document store decode stats as generic maps.
		qm := QuestManager{}
		if s, ok := v["dailyLoginInterval"].(string); ok {
			qm.DailyLoginInterval = s
		}
		switch n := v["dailyQuestRerolls"].(type) {
		case float64:
			qm.DailyQuestRerolls = int(n)
		case int:
			qm.DailyQuestRerolls = n
		}
		return qm
	default:
		return QuestManager{}
	}
}

// SetQuestManager stores the quest_manager stat attribute.
func (p *Profile) SetQuestManager(qm QuestManager) {
	if p.Stats.Attributes == nil {
		p.Stats.Attributes = make(map[string]interface{})
	}
	p.Stats.Attributes[StatQuestManager] = qm
}

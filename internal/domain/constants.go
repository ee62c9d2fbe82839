package domain

// Stat attribute names
const (
	StatQuestManager = "quest_manager"
)

// Profile identifiers
const (
	// ProfileIDAthena is the profile the quest command family operates on.
	ProfileIDAthena = "athena"
)

// Quest lifecycle attribute defaults granted with a fresh daily quest.
const (
	QuestStateActive    = "Active"
	QuestRarityUncommon = "uncommon"
	QuestXPReward       = 15000
	QuestXPRewardScalar = 1
	// QuestLevelUnleveled marks a quest item that has not been assigned a level.
	QuestLevelUnleveled = -1
)

// Event types published on the internal bus.
const (
	EventTypeProfileCommitted  = "profile.committed"
	EventTypePersistenceFailed = "profile.persistence_failed"
	EventTypeRevisionConflict  = "profile.revision_conflict"
	EventTypeSettingsUploaded  = "settings.uploaded"
)

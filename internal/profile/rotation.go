package profile

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/polarisfn/Polaris_Go/internal/domain"
)

// DailyQuestCap is the maximum number of quests granted per login.
const DailyQuestCap = 3

// AttrSeasonTag is the explicit per-item season marker. Items that carry it
// are retired on season mismatch without consulting the id shape; the legacy
// 4-character id pattern remains as a fallback for older documents.
const AttrSeasonTag = "season_tag"

// RotationPolicy decides which daily quests to grant and which stale
// season-scoped quests to retire.
type RotationPolicy struct {
	clock Clock
	ids   IDGenerator

	// StatUpdateOnNoOp emits the quest_manager refresh even when no quest
	// was granted. Off by default: the stat update is tied to the grant.
	StatUpdateOnNoOp bool
}

// NewRotationPolicy builds a policy around the given clock and id generator.
func NewRotationPolicy(clock Clock, ids IDGenerator, statUpdateOnNoOp bool) *RotationPolicy {
	return &RotationPolicy{clock: clock, ids: ids, StatUpdateOnNoOp: statUpdateOnNoOp}
}

// Rotate applies the daily quest rotation to the changeset's profile:
// grant up to DailyQuestCap catalog quests not already owned, refresh the
// quest_manager stat, then retire quests scoped to prior seasons.
// Change record order is grants, stat update, retirements.
func (rp *RotationPolicy) Rotate(cs *ChangeSet, quests []domain.QuestTemplate, currentSeason int) {
	p := cs.Profile()
	now := rp.clock.Now()
	nowISO := FormatTime(now)

	qm := p.QuestManager()
	if qm.DailyLoginInterval != "" {
		last, err := time.Parse(TimeLayout, qm.DailyLoginInterval)
		if err == nil && !sameDay(last, now) && qm.DailyQuestRerolls <= 0 {
			// TODO: confirm intended reroll semantics with design; the refresh
			// below resets the counter to 1 and makes this bump unobservable.
			qm.DailyQuestRerolls++
		}
	}

	owned := ownedTemplates(p)
	added := 0
	for _, tpl := range quests {
		if added >= DailyQuestCap {
			break
		}
		if owned[strings.ToLower(tpl.TemplateID)] {
			continue
		}
		owned[strings.ToLower(tpl.TemplateID)] = true

		cs.AddItem(rp.ids.NewID(), rp.newQuestItem(tpl, nowISO))
		added++
	}

	if added > 0 || rp.StatUpdateOnNoOp {
		qm.DailyLoginInterval = nowISO
		qm.DailyQuestRerolls = 1
		cs.ModifyStat(domain.StatQuestManager, qm)
	}

	rp.retireStaleQuests(cs, currentSeason)
}

// ownedTemplates collects the lowercased template ids present in the profile.
func ownedTemplates(p *domain.Profile) map[string]bool {
	owned := make(map[string]bool, len(p.Items))
	for _, item := range p.Items {
		if item == nil || item.TemplateID == "" {
			continue
		}
		owned[strings.ToLower(item.TemplateID)] = true
	}
	return owned
}

// newQuestItem builds a freshly granted daily quest with policy defaults and
// one zeroed completion counter per objective.
func (rp *RotationPolicy) newQuestItem(tpl domain.QuestTemplate, nowISO string) *domain.Item {
	attrs := map[string]interface{}{
		"creation_time":                 nowISO,
		"level":                         domain.QuestLevelUnleveled,
		"item_seen":                     false,
		"playlists":                     []string{},
		"sent_new_notification":         false,
		"challenge_bundle_id":           "",
		"xp_reward_scalar":              domain.QuestXPRewardScalar,
		"challenge_linked_quest_given":  "",
		"quest_pool":                    "",
		"quest_state":                   domain.QuestStateActive,
		"bucket":                        "",
		"last_state_change_time":        nowISO,
		"challenge_linked_quest_parent": "",
		"max_level_bonus":               0,
		"xp":                            domain.QuestXPReward,
		"quest_rarity":                  domain.QuestRarityUncommon,
		"favorite":                      false,
	}

	for _, objective := range tpl.Objectives {
		attrs["completion_"+strings.ToLower(objective)] = 0
	}

	return &domain.Item{
		TemplateID: tpl.TemplateID,
		Attributes: attrs,
		Quantity:   1,
	}
}

// retireStaleQuests removes items scoped to a season other than the current
// one. Ids are scanned in sorted order so removal records are deterministic.
func (rp *RotationPolicy) retireStaleQuests(cs *ChangeSet, currentSeason int) {
	p := cs.Profile()
	seasonStr := strconv.Itoa(currentSeason)

	ids := make([]string, 0, len(p.Items))
	for id := range p.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if strings.HasPrefix(id, seasonStr) {
			// Already scoped to the current season, preserved regardless of shape.
			continue
		}
		if rp.retirable(id, p.Items[id], seasonStr) {
			cs.RemoveItem(id)
		}
	}
}

// retirable reports whether the item belongs to a prior season. An explicit
// season_tag attribute wins; otherwise fall back to the legacy 4-character
// "S<digit>-<digit>" id convention where the trailing digit names the season.
func (rp *RotationPolicy) retirable(id string, item *domain.Item, seasonStr string) bool {
	if item != nil {
		if tag, ok := seasonTag(item); ok {
			return tag != seasonStr
		}
	}

	if len(id) != 4 {
		return false
	}
	if id[0] != 'S' || !isDigit(id[1]) || id[2] != '-' || !isDigit(id[3]) {
		return false
	}
	return id[3:] != seasonStr
}

// seasonTag extracts the season_tag attribute when present.
func seasonTag(item *domain.Item) (string, bool) {
	raw, ok := item.Attributes[AttrSeasonTag]
	if !ok {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.Itoa(int(v)), true
	default:
		return "", false
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

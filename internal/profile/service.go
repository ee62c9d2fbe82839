package profile

import (
	"context"
	"errors"
	"time"

	"github.com/polarisfn/Polaris_Go/internal/catalog"
	"github.com/polarisfn/Polaris_Go/internal/domain"
	"github.com/polarisfn/Polaris_Go/internal/event"
	"github.com/polarisfn/Polaris_Go/internal/logger"
	"github.com/polarisfn/Polaris_Go/internal/repository"
	"github.com/polarisfn/Polaris_Go/internal/season"
)

// Service is the profile command engine. Every command follows the same
// contract: load the profile, mutate it through a ChangeSet, advance the
// revision counters iff changes were produced, return the envelope, and
// persist afterwards in the background.
type Service interface {
	// DailyLogin runs the daily quest rotation for the account.
	DailyLogin(ctx context.Context, accountID, profileID, userAgent string) (*domain.CommandResponse, error)

	// QueryProfile ensures the profile exists and returns its current
	// revision state with an empty change list.
	QueryProfile(ctx context.Context, accountID, profileID string) (*domain.CommandResponse, error)

	// GrantItem adds an item with a fresh id.
	GrantItem(ctx context.Context, accountID, profileID, templateID string, quantity int) (*domain.CommandResponse, error)

	// RemoveItem removes an owned item by id.
	RemoveItem(ctx context.Context, accountID, profileID, itemID string) (*domain.CommandResponse, error)

	// ModifyStat sets a named stat attribute.
	ModifyStat(ctx context.Context, accountID, profileID, name string, value interface{}) (*domain.CommandResponse, error)

	// Shutdown drains in-flight persistence writes.
	Shutdown(ctx context.Context) error
}

type service struct {
	accounts repository.AccountRepository
	profiles repository.ProfileRepository
	catalog  catalog.Source
	rotation *RotationPolicy
	clock    Clock
	ids      IDGenerator
	bus      event.Bus
	commit   *committer
}

// Options tunes service policy.
type Options struct {
	// StatUpdateOnNoOp forwards to the rotation policy.
	StatUpdateOnNoOp bool
	// CommitTimeout bounds each background persistence write.
	CommitTimeout time.Duration
	// Clock and IDGenerator default to the system implementations.
	Clock Clock
	IDs   IDGenerator
}

// NewService wires the command engine.
func NewService(accounts repository.AccountRepository, profiles repository.ProfileRepository, source catalog.Source, bus event.Bus, opts Options) Service {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.IDs == nil {
		opts.IDs = UUIDGenerator()
	}
	if opts.CommitTimeout <= 0 {
		opts.CommitTimeout = 10 * time.Second
	}

	return &service{
		accounts: accounts,
		profiles: profiles,
		catalog:  source,
		rotation: NewRotationPolicy(opts.Clock, opts.IDs, opts.StatUpdateOnNoOp),
		clock:    opts.Clock,
		ids:      opts.IDs,
		bus:      bus,
		commit: &committer{
			profiles: profiles,
			bus:      bus,
			clock:    opts.Clock,
			timeout:  opts.CommitTimeout,
		},
	}
}

// DailyLogin implements the worked quest-rotation command: grant up to three
// unowned catalog quests, refresh the quest_manager stat, retire stale
// season-scoped quests.
func (s *service) DailyLogin(ctx context.Context, accountID, profileID, userAgent string) (*domain.CommandResponse, error) {
	currentSeason := s.classifySeason(ctx, userAgent)

	return s.runCommand(ctx, accountID, profileID, "ClientQuestLogin", func(cs *ChangeSet) error {
		s.rotation.Rotate(cs, s.catalog.Quests(), currentSeason)
		return nil
	})
}

func (s *service) GrantItem(ctx context.Context, accountID, profileID, templateID string, quantity int) (*domain.CommandResponse, error) {
	if templateID == "" || quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	return s.runCommand(ctx, accountID, profileID, "GrantItem", func(cs *ChangeSet) error {
		cs.AddItem(s.ids.NewID(), &domain.Item{
			TemplateID: templateID,
			Attributes: map[string]interface{}{
				"creation_time": FormatTime(s.clock.Now()),
				"item_seen":     false,
			},
			Quantity: quantity,
		})
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, accountID, profileID, itemID string) (*domain.CommandResponse, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}

	return s.runCommand(ctx, accountID, profileID, "RemoveItem", func(cs *ChangeSet) error {
		if !cs.RemoveItem(itemID) {
			return domain.ErrItemNotFound
		}
		return nil
	})
}

func (s *service) ModifyStat(ctx context.Context, accountID, profileID, name string, value interface{}) (*domain.CommandResponse, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	return s.runCommand(ctx, accountID, profileID, "ModifyStat", func(cs *ChangeSet) error {
		cs.ModifyStat(name, value)
		return nil
	})
}

func (s *service) QueryProfile(ctx context.Context, accountID, profileID string) (*domain.CommandResponse, error) {
	account, err := s.accounts.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.Load(ctx, accountID, profileID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		p = domain.NewProfile(profileID, FormatTime(s.clock.Now()))
		if createErr := s.profiles.Create(ctx, accountID, p); createErr != nil {
			return nil, createErr
		}
	} else if err != nil {
		return nil, err
	}

	cs := NewChangeSet(p)
	return s.commit.finalize(cs, account), nil
}

// runCommand is the shared command pipeline: account lookup, profile load,
// mutation, envelope, then background persistence. Errors before the mutate
// step abort with no observable change; once the envelope is built the
// command is considered acknowledged.
func (s *service) runCommand(ctx context.Context, accountID, profileID, command string, mutate func(cs *ChangeSet) error) (*domain.CommandResponse, error) {
	ctx = logger.WithOperation(ctx, command)
	log := logger.FromContext(ctx)

	account, err := s.accounts.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.Load(ctx, accountID, profileID)
	if err != nil {
		return nil, err
	}
	loadedRvn := p.Rvn

	// No mutation may become observable for a cancelled request.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs := NewChangeSet(p)
	if err := mutate(cs); err != nil {
		return nil, err
	}

	resp := s.commit.finalize(cs, account)

	if !cs.Empty() {
		s.commit.persistAsync(ctx, accountID, command, p, loadedRvn)
	}

	s.publishCommitted(ctx, accountID, command, resp)

	log.Info("Command processed",
		"account_id", accountID,
		"profile_id", profileID,
		"changes", len(resp.ProfileChanges),
		"rvn", resp.ProfileRevision)

	return resp, nil
}

func (s *service) publishCommitted(ctx context.Context, accountID, command string, resp *domain.CommandResponse) {
	if s.bus == nil {
		return
	}
	evt := event.Event{
		Version: "1.0",
		Type:    event.Type(domain.EventTypeProfileCommitted),
		Payload: map[string]interface{}{
			"account_id": accountID,
			"profile_id": resp.ProfileID,
			"command":    command,
			"changes":    len(resp.ProfileChanges),
			"rvn":        resp.ProfileRevision,
		},
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Event publish failed", "type", evt.Type, "error", err)
	}
}

// classifySeason resolves the client's season from its user-agent. Unknown
// builds fall back to season 0, which preserves nothing by prefix and lets
// the retirement scan clear legacy-tagged quests.
func (s *service) classifySeason(ctx context.Context, userAgent string) int {
	if sn, ok := season.Classify(userAgent); ok {
		return sn.Season
	}
	logger.FromContext(ctx).Debug("Unrecognized client build", "user_agent", userAgent)
	return 0
}

func (s *service) Shutdown(ctx context.Context) error {
	return s.commit.drain(ctx)
}

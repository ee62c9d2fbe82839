package profile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/polarisfn/Polaris_Go/internal/domain"
	"github.com/polarisfn/Polaris_Go/internal/event"
	"github.com/polarisfn/Polaris_Go/internal/logger"
	"github.com/polarisfn/Polaris_Go/internal/repository"
)

// committer advances revision counters, assembles the response envelope and
// persists mutated profiles after the envelope has been handed back.
// Persistence failures are logged and published, never surfaced: by the time
// the write runs, the client already holds the response.
type committer struct {
	profiles repository.ProfileRepository
	bus      event.Bus
	clock    Clock
	timeout  time.Duration
	wg       sync.WaitGroup
}

// finalize bumps rvn and commandRevision iff the change list is non-empty,
// stamps Updated, and builds the envelope from the in-memory state.
func (c *committer) finalize(cs *ChangeSet, account *domain.Account) *domain.CommandResponse {
	p := cs.Profile()

	if !cs.Empty() {
		p.Rvn++
		p.CommandRevision++
		p.Updated = FormatTime(c.clock.Now())
	}

	return &domain.CommandResponse{
		ProfileRevision:            p.Rvn,
		ProfileID:                  p.ProfileID,
		ProfileChangesBaseRevision: account.BaseRevision,
		ProfileChanges:             cs.Changes(),
		ProfileCommandRevision:     p.CommandRevision,
		ServerTime:                 FormatTime(c.clock.Now()),
		ResponseVersion:            domain.ResponseVersion,
	}
}

// persistAsync writes the mutated profile in the background. loadedRvn is the
// revision observed at load time; the store rejects the write if another
// command committed in between, and the conflict is recorded but not retried
// (retrying would re-apply a command the client already saw acknowledged).
func (c *committer) persistAsync(ctx context.Context, accountID, command string, p *domain.Profile, loadedRvn int) {
	// Detach from request cancellation but keep the request id for tracing.
	bgCtx := context.WithoutCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		writeCtx, cancel := context.WithTimeout(bgCtx, c.timeout)
		defer cancel()

		log := logger.FromContext(writeCtx)

		err := c.profiles.Save(writeCtx, accountID, p, loadedRvn)
		if err == nil {
			return
		}

		payload := map[string]interface{}{
			"account_id": accountID,
			"profile_id": p.ProfileID,
			"command":    command,
			"rvn":        p.Rvn,
		}

		if errors.Is(err, domain.ErrRevisionConflict) {
			log.Warn("Profile commit lost revision race", "account_id", accountID, "profile_id", p.ProfileID, "rvn", p.Rvn)
			c.publish(writeCtx, domain.EventTypeRevisionConflict, payload)
			return
		}

		log.Error("Profile persistence failed after response", "account_id", accountID, "profile_id", p.ProfileID, "error", err)
		c.publish(writeCtx, domain.EventTypePersistenceFailed, payload)
	}()
}

func (c *committer) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if c.bus == nil {
		return
	}
	evt := event.Event{Version: "1.0", Type: event.Type(eventType), Payload: payload}
	if err := c.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Event publish failed", "type", eventType, "error", err)
	}
}

// drain waits for in-flight persistence writes, bounded by ctx.
func (c *committer) drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

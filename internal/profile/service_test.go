package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polarisfn/Polaris_Go/internal/catalog"
	"github.com/polarisfn/Polaris_Go/internal/domain"
	"github.com/polarisfn/Polaris_Go/internal/event"
)

const (
	testAccountID = "acct-42"
	testUserAgent = "Fortnite/++Fortnite+Release-5.30-CL-4305896 Windows/10"
)

type serviceFixture struct {
	svc      Service
	accounts *FakeAccountRepository
	profiles *FakeProfileRepository
	bus      *event.MemoryBus
	clock    fixedClock
}

func newServiceFixture(t *testing.T, quests []domain.QuestTemplate, opts Options) *serviceFixture {
	t.Helper()

	accounts := NewFakeAccountRepository()
	accounts.Seed(&domain.Account{AccountID: testAccountID, DisplayName: "tester", BaseRevision: 7})

	profiles := NewFakeProfileRepository()
	profiles.Seed(testAccountID, domain.NewProfile(domain.ProfileIDAthena, "2026-08-30T00:00:00Z"))

	clock := fixedClock{t: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)}
	opts.Clock = clock
	opts.IDs = &sequenceIDs{}
	if opts.CommitTimeout == 0 {
		opts.CommitTimeout = time.Second
	}

	bus := event.NewMemoryBus()
	svc := NewService(accounts, profiles, catalog.Static(quests), bus, opts)

	return &serviceFixture{svc: svc, accounts: accounts, profiles: profiles, bus: bus, clock: clock}
}

func drain(t *testing.T, svc Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))
}

func TestDailyLoginScenario(t *testing.T) {
	// Catalog Q1 (one objective) + Q2, empty profile, season 5.
	quests := []domain.QuestTemplate{
		{TemplateID: "Q1", Objectives: map[string]string{"o1": "Collect"}},
		{TemplateID: "Q2", Objectives: map[string]string{}},
	}
	fx := newServiceFixture(t, quests, Options{})

	resp, err := fx.svc.DailyLogin(context.Background(), testAccountID, domain.ProfileIDAthena, testUserAgent)
	require.NoError(t, err)

	require.Len(t, resp.ProfileChanges, 3)
	assert.Equal(t, domain.ChangeItemAdded, resp.ProfileChanges[0].ChangeType)
	assert.Equal(t, domain.ChangeItemAdded, resp.ProfileChanges[1].ChangeType)
	assert.Equal(t, domain.ChangeStatModified, resp.ProfileChanges[2].ChangeType)

	q1 := resp.ProfileChanges[0].Item
	require.NotNil(t, q1)
	assert.Equal(t, "Q1", q1.TemplateID)
	assert.Equal(t, 0, q1.Attributes["completion_collect"])

	assert.Equal(t, 1, resp.ProfileRevision)
	assert.Equal(t, 1, resp.ProfileCommandRevision)
	assert.Equal(t, 7, resp.ProfileChangesBaseRevision)
	assert.Equal(t, domain.ProfileIDAthena, resp.ProfileID)
	assert.Equal(t, domain.ResponseVersion, resp.ResponseVersion)
	assert.Equal(t, "2026-08-31T12:00:00Z", resp.ServerTime)

	drain(t, fx.svc)
	stored := fx.profiles.StoredProfile(testAccountID, domain.ProfileIDAthena)
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.Rvn)
	assert.Equal(t, 1, stored.CommandRevision)
	assert.Len(t, stored.Items, 2)
}

func TestDailyLoginIdempotentOnNoOp(t *testing.T) {
	quests := []domain.QuestTemplate{{TemplateID: "Q1", Objectives: map[string]string{}}}
	fx := newServiceFixture(t, quests, Options{})

	first, err := fx.svc.DailyLogin(context.Background(), testAccountID, domain.ProfileIDAthena, testUserAgent)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ProfileChanges)
	drain(t, fx.svc)

	// Second login: catalog fully owned, nothing to retire.
	second, err := fx.svc.DailyLogin(context.Background(), testAccountID, domain.ProfileIDAthena, testUserAgent)
	require.NoError(t, err)
	assert.Empty(t, second.ProfileChanges)
	assert.Equal(t, first.ProfileRevision, second.ProfileRevision)
	assert.Equal(t, first.ProfileCommandRevision, second.ProfileCommandRevision)
	drain(t, fx.svc)

	// No-op commands never persist.
	assert.Equal(t, 1, fx.profiles.Saves)
}

func TestDailyLoginRevisionCoupling(t *testing.T) {
	quests := questCatalog(5)
	fx := newServiceFixture(t, quests, Options{})

	resp, err := fx.svc.DailyLogin(context.Background(), testAccountID, domain.ProfileIDAthena, testUserAgent)
	require.NoError(t, err)

	// rvn and commandRevision advance together, by exactly 1.
	assert.Equal(t, 1, resp.ProfileRevision)
	assert.Equal(t, 1, resp.ProfileCommandRevision)
	drain(t, fx.svc)
}

func TestDailyLoginAccountMissing(t *testing.T) {
	fx := newServiceFixture(t, questCatalog(1), Options{})

	_, err := fx.svc.DailyLogin(context.Background(), "ghost", domain.ProfileIDAthena, testUserAgent)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))
	drain(t, fx.svc)
	assert.Equal(t, 0, fx.profiles.Saves)
}

func TestDailyLoginProfileMissing(t *testing.T) {
	fx := newServiceFixture(t, questCatalog(1), Options{})

	_, err := fx.svc.DailyLogin(context.Background(), testAccountID, "collection_book", testUserAgent)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProfileNotFound))
}

func TestDailyLoginCancelledBeforeResponse(t *testing.T) {
	fx := newServiceFixture(t, questCatalog(3), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fx.svc.DailyLogin(ctx, testAccountID, domain.ProfileIDAthena, testUserAgent)
	require.Error(t, err)

	drain(t, fx.svc)
	stored := fx.profiles.StoredProfile(testAccountID, domain.ProfileIDAthena)
	assert.Equal(t, 0, stored.Rvn, "no mutation may be observable for a cancelled request")
	assert.Empty(t, stored.Items)
}

func TestDailyLoginPersistenceFailureNotSurfaced(t *testing.T) {
	fx := newServiceFixture(t, questCatalog(2), Options{})
	fx.profiles.SaveErr = errors.New("connection reset")

	var failures int
	fx.bus.Subscribe(event.Type(domain.EventTypePersistenceFailed), func(ctx context.Context, e event.Event) error {
		failures++
		return nil
	})

	resp, err := fx.svc.DailyLogin(context.Background(), testAccountID, domain.ProfileIDAthena, testUserAgent)
	require.NoError(t, err, "the response is already owed to the client")
	assert.Equal(t, 1, resp.ProfileRevision)

	drain(t, fx.svc)
	assert.Equal(t, 1, failures)
	assert.Equal(t, 0, fx.profiles.Saves)
}

func TestDailyLoginStartsFromStoredRevision(t *testing.T) {
	fx := newServiceFixture(t, questCatalog(2), Options{})

	raced := domain.NewProfile(domain.ProfileIDAthena, "2026-08-30T00:00:00Z")
	raced.Rvn = 5
	raced.CommandRevision = 5
	fx.profiles.Seed(testAccountID, raced)

	resp, err := fx.svc.DailyLogin(context.Background(), testAccountID, domain.ProfileIDAthena, testUserAgent)
	require.NoError(t, err)
	assert.Equal(t, 6, resp.ProfileRevision)
	assert.Equal(t, 6, resp.ProfileCommandRevision)
	drain(t, fx.svc)
}

func TestGrantItem(t *testing.T) {
	fx := newServiceFixture(t, nil, Options{})

	resp, err := fx.svc.GrantItem(context.Background(), testAccountID, domain.ProfileIDAthena, "Currency:gold", 50)
	require.NoError(t, err)

	require.Len(t, resp.ProfileChanges, 1)
	assert.Equal(t, domain.ChangeItemAdded, resp.ProfileChanges[0].ChangeType)
	assert.Equal(t, "Currency:gold", resp.ProfileChanges[0].Item.TemplateID)
	assert.Equal(t, 50, resp.ProfileChanges[0].Item.Quantity)
	assert.Equal(t, 1, resp.ProfileRevision)
	drain(t, fx.svc)
}

func TestGrantItemInvalidInput(t *testing.T) {
	fx := newServiceFixture(t, nil, Options{})

	_, err := fx.svc.GrantItem(context.Background(), testAccountID, domain.ProfileIDAthena, "", 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = fx.svc.GrantItem(context.Background(), testAccountID, domain.ProfileIDAthena, "Currency:gold", 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRemoveItem(t *testing.T) {
	fx := newServiceFixture(t, nil, Options{})

	p := domain.NewProfile(domain.ProfileIDAthena, "2026-08-30T00:00:00Z")
	p.Items["doomed"] = &domain.Item{TemplateID: "Quest:old", Quantity: 1}
	fx.profiles.Seed(testAccountID, p)

	resp, err := fx.svc.RemoveItem(context.Background(), testAccountID, domain.ProfileIDAthena, "doomed")
	require.NoError(t, err)

	require.Len(t, resp.ProfileChanges, 1)
	assert.Equal(t, domain.ChangeItemRemoved, resp.ProfileChanges[0].ChangeType)
	assert.Equal(t, "doomed", resp.ProfileChanges[0].ItemID)
	drain(t, fx.svc)
}

func TestRemoveItemMissing(t *testing.T) {
	fx := newServiceFixture(t, nil, Options{})

	_, err := fx.svc.RemoveItem(context.Background(), testAccountID, domain.ProfileIDAthena, "no-such-item")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrItemNotFound))

	drain(t, fx.svc)
	stored := fx.profiles.StoredProfile(testAccountID, domain.ProfileIDAthena)
	assert.Equal(t, 0, stored.Rvn, "failed command must not advance revisions")
}

func TestModifyStat(t *testing.T) {
	fx := newServiceFixture(t, nil, Options{})

	resp, err := fx.svc.ModifyStat(context.Background(), testAccountID, domain.ProfileIDAthena, "season_level", 42)
	require.NoError(t, err)

	require.Len(t, resp.ProfileChanges, 1)
	assert.Equal(t, domain.ChangeStatModified, resp.ProfileChanges[0].ChangeType)
	assert.Equal(t, "season_level", resp.ProfileChanges[0].Name)
	assert.Equal(t, 42, resp.ProfileChanges[0].Value)
	drain(t, fx.svc)
}

func TestQueryProfileCreatesMissing(t *testing.T) {
	fx := newServiceFixture(t, nil, Options{})

	resp, err := fx.svc.QueryProfile(context.Background(), testAccountID, "collection_book")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ProfileRevision)
	assert.Empty(t, resp.ProfileChanges)

	// Created synchronously: a follow-up command finds the document.
	_, err = fx.svc.GrantItem(context.Background(), testAccountID, "collection_book", "Book:page", 1)
	require.NoError(t, err)
	drain(t, fx.svc)
}

func TestDailyLoginPublishesCommittedEvent(t *testing.T) {
	fx := newServiceFixture(t, questCatalog(1), Options{})

	var got []event.Event
	fx.bus.Subscribe(event.Type(domain.EventTypeProfileCommitted), func(ctx context.Context, e event.Event) error {
		got = append(got, e)
		return nil
	})

	_, err := fx.svc.DailyLogin(context.Background(), testAccountID, domain.ProfileIDAthena, testUserAgent)
	require.NoError(t, err)
	drain(t, fx.svc)

	require.Len(t, got, 1)
	payload, ok := got[0].Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ClientQuestLogin", payload["command"])
	assert.Equal(t, 2, payload["changes"])
}

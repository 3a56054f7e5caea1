package invite

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanhall/internal/clan/models"
	"clanhall/internal/clan/presence"
	"clanhall/internal/clan/registry"
	"clanhall/pkg/clanerrors"
)

type scriptedCreator struct {
	result models.AddPlayerResult
	err    error
	calls  int
}

func (c *scriptedCreator) AddPlayerToClan(_ context.Context, _ uuid.UUID, _ string, _ uuid.UUID) (models.AddPlayerResult, error) {
	c.calls++
	return c.result, c.err
}

type inboxHandle struct {
	id       uuid.UUID
	name     string
	messages []string
}

func (h *inboxHandle) PlayerID() uuid.UUID { return h.id }
func (h *inboxHandle) Name() string        { return h.name }
func (h *inboxHandle) Send(msg string) error {
	h.messages = append(h.messages, msg)
	return nil
}

func testTracker(creator MembershipCreator, ttl time.Duration) (*Tracker, *presence.Tracker) {
	pres := presence.NewTracker(registry.NewMembershipIndex())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTracker(creator, pres, logger, ttl), pres
}

func testClan(t *testing.T) *models.Clan {
	t.Helper()
	clan, err := models.NewClan(uuid.New(), "WOLF", "Night Wolves", "alice", 0, time.Now())
	require.NoError(t, err)
	return clan
}

func TestSendRejectsSecondPending(t *testing.T) {
	tracker, pres := testTracker(&scriptedCreator{}, 0)
	clan := testClan(t)
	target := &inboxHandle{id: uuid.New(), name: "bob"}
	pres.Connect(target)
	now := time.Now()

	assert.Equal(t, models.InviteSuccess, tracker.Send(uuid.New(), "alice", target.id, clan, now))
	assert.Equal(t, models.InviteAlreadyPending, tracker.Send(uuid.New(), "carol", target.id, clan, now))
	assert.Equal(t, 1, tracker.PendingCount())
	require.Len(t, target.messages, 1)
	assert.Contains(t, target.messages[0], "[WOLF]")
}

func TestSendNilClan(t *testing.T) {
	tracker, _ := testTracker(&scriptedCreator{}, 0)
	assert.Equal(t, models.InviteClanNotFound, tracker.Send(uuid.New(), "alice", uuid.New(), nil, time.Now()))
}

func TestPendingExpiresLazily(t *testing.T) {
	tracker, _ := testTracker(&scriptedCreator{}, time.Minute)
	clan := testClan(t)
	target := uuid.New()
	now := time.Now()

	require.Equal(t, models.InviteSuccess, tracker.Send(uuid.New(), "alice", target, clan, now))
	assert.NotNil(t, tracker.PendingFor(target, now.Add(59*time.Second)))

	assert.Nil(t, tracker.PendingFor(target, now.Add(time.Minute)))
	assert.Equal(t, 0, tracker.PendingCount(), "expired invitation is evicted on read")

	// A fresh invitation may replace the expired one.
	assert.Equal(t, models.InviteSuccess, tracker.Send(uuid.New(), "carol", target, clan, now.Add(2*time.Minute)))
}

func TestAcceptCreatesMembership(t *testing.T) {
	creator := &scriptedCreator{result: models.AddPlayerSuccess}
	tracker, _ := testTracker(creator, 0)
	clan := testClan(t)
	target := uuid.New()
	now := time.Now()

	require.Equal(t, models.InviteSuccess, tracker.Send(uuid.New(), "alice", target, clan, now))

	result, err := tracker.Accept(context.Background(), target, "bob", now)
	require.NoError(t, err)
	assert.Equal(t, models.AddPlayerSuccess, result)
	assert.Equal(t, 1, creator.calls)
	assert.Equal(t, 0, tracker.PendingCount())
}

func TestAcceptKeepsInvitationOnRejection(t *testing.T) {
	creator := &scriptedCreator{result: models.AddPlayerAlreadyInClan}
	tracker, _ := testTracker(creator, 0)
	target := uuid.New()
	now := time.Now()

	require.Equal(t, models.InviteSuccess, tracker.Send(uuid.New(), "alice", target, testClan(t), now))

	result, err := tracker.Accept(context.Background(), target, "bob", now)
	require.NoError(t, err)
	assert.Equal(t, models.AddPlayerAlreadyInClan, result)
	assert.Equal(t, 1, tracker.PendingCount(), "invitation survives a rejected join")
}

func TestAcceptWithoutPending(t *testing.T) {
	tracker, _ := testTracker(&scriptedCreator{}, 0)

	_, err := tracker.Accept(context.Background(), uuid.New(), "bob", time.Now())
	require.Error(t, err)
	assert.Equal(t, clanerrors.CodeNotFound, clanerrors.CodeOf(err))
}

func TestDenyNotifiesInviter(t *testing.T) {
	tracker, pres := testTracker(&scriptedCreator{}, 0)
	inviter := &inboxHandle{id: uuid.New(), name: "alice"}
	pres.Connect(inviter)
	target := uuid.New()
	now := time.Now()

	assert.False(t, tracker.Deny(target, "bob", now))

	require.Equal(t, models.InviteSuccess, tracker.Send(inviter.id, "alice", target, testClan(t), now))
	assert.True(t, tracker.Deny(target, "bob", now))
	assert.Equal(t, 0, tracker.PendingCount())
	require.Len(t, inviter.messages, 1)
	assert.Contains(t, inviter.messages[0], "declined")
}

func TestSweep(t *testing.T) {
	tracker, _ := testTracker(&scriptedCreator{}, time.Minute)
	clan := testClan(t)
	now := time.Now()

	require.Equal(t, models.InviteSuccess, tracker.Send(uuid.New(), "alice", uuid.New(), clan, now))
	require.Equal(t, models.InviteSuccess, tracker.Send(uuid.New(), "alice", uuid.New(), clan, now.Add(30*time.Second)))

	assert.Equal(t, 0, tracker.Sweep(now.Add(45*time.Second)))
	assert.Equal(t, 1, tracker.Sweep(now.Add(70*time.Second)))
	assert.Equal(t, 1, tracker.PendingCount())
}

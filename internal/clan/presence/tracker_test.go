package presence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanhall/internal/clan/models"
	"clanhall/internal/clan/registry"
)

type fakeHandle struct {
	id       uuid.UUID
	name     string
	messages []string
}

func (h *fakeHandle) PlayerID() uuid.UUID { return h.id }
func (h *fakeHandle) Name() string        { return h.name }
func (h *fakeHandle) Send(msg string) error {
	h.messages = append(h.messages, msg)
	return nil
}

func testClanMember(t *testing.T, idx *registry.MembershipIndex, clan *models.Clan, name string) *fakeHandle {
	t.Helper()
	h := &fakeHandle{id: uuid.New(), name: name}
	idx.Insert(&models.Membership{PlayerID: h.id, PlayerName: name, Clan: clan, Role: models.RoleMember})
	return h
}

func TestNotifyClanMembers(t *testing.T) {
	idx := registry.NewMembershipIndex()
	tracker := NewTracker(idx)

	clan, err := models.NewClan(uuid.New(), "WOLF", "Night Wolves", "alice", 0, time.Now())
	require.NoError(t, err)
	other, err := models.NewClan(uuid.New(), "BEAR", "Iron Bears", "bob", 0, time.Now())
	require.NoError(t, err)

	online := testClanMember(t, idx, clan, "alice")
	excluded := testClanMember(t, idx, clan, "kicked")
	offline := testClanMember(t, idx, clan, "sleeper")
	outsider := testClanMember(t, idx, other, "bob")

	tracker.Connect(online)
	tracker.Connect(excluded)
	tracker.Connect(outsider)

	n := tracker.NotifyClanMembers(clan.ID, map[uuid.UUID]struct{}{excluded.id: {}}, "hello")

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"hello"}, online.messages)
	assert.Empty(t, excluded.messages)
	assert.Empty(t, offline.messages)
	assert.Empty(t, outsider.messages)
}

func TestNotifyPlayer(t *testing.T) {
	tracker := NewTracker(registry.NewMembershipIndex())
	h := &fakeHandle{id: uuid.New(), name: "alice"}

	assert.False(t, tracker.NotifyPlayer(h.id, "anyone home"))

	tracker.Connect(h)
	assert.True(t, tracker.NotifyPlayer(h.id, "welcome back"))
	assert.Equal(t, []string{"welcome back"}, h.messages)

	tracker.Disconnect(h.id)
	assert.False(t, tracker.NotifyPlayer(h.id, "gone"))
	assert.Len(t, h.messages, 1)
}

func TestFindByName(t *testing.T) {
	tracker := NewTracker(registry.NewMembershipIndex())
	h := &fakeHandle{id: uuid.New(), name: "Alice"}
	tracker.Connect(h)

	assert.Equal(t, h, tracker.FindByName("alice"))
	assert.Equal(t, h, tracker.FindByName("ALICE"))
	assert.Nil(t, tracker.FindByName("bob"))
	assert.Equal(t, 1, tracker.OnlineCount())
}

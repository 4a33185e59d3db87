package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinIsIdempotent(t *testing.T) {
	rooms := NewRooms()

	rooms.Join("course-1", "a")
	rooms.Join("course-1", "a")

	assert.Equal(t, []string{"a"}, rooms.MembersOf("course-1"))
}

func TestLeaveRemovesMember(t *testing.T) {
	rooms := NewRooms()

	rooms.Join("course-1", "a")
	rooms.Join("course-1", "b")
	rooms.Leave("course-1", "a")

	assert.Equal(t, []string{"b"}, rooms.MembersOf("course-1"))
	assert.False(t, rooms.Contains("course-1", "a"))
}

func TestLeaveUnknownRoomIsNoop(t *testing.T) {
	rooms := NewRooms()

	assert.NotPanics(t, func() {
		rooms.Leave("course-1", "a")
	})
}

func TestMembersOfUnknownRoomIsEmpty(t *testing.T) {
	rooms := NewRooms()

	// 未知房間和空房間一樣，回傳空集合而不是錯誤
	assert.Empty(t, rooms.MembersOf("course-404"))
}

func TestEmptyRoomIsReclaimed(t *testing.T) {
	rooms := NewRooms()

	rooms.Join("course-1", "a")
	rooms.Leave("course-1", "a")

	assert.Empty(t, rooms.MembersOf("course-1"))
	assert.NotContains(t, rooms.members, "course-1")
}

func TestLeaveAllClearsEveryMembership(t *testing.T) {
	rooms := NewRooms()

	rooms.Join("course-1", "a")
	rooms.Join("course-2", "a")
	rooms.Join("course-2", "b")

	rooms.LeaveAll("a")

	assert.Empty(t, rooms.MembersOf("course-1"))
	assert.Equal(t, []string{"b"}, rooms.MembersOf("course-2"))
	assert.NotContains(t, rooms.joined, "a")
}

// 任意的 join/leave 序列後，成員集合必須等於淨加入次數為正的連線
func TestMembershipMatchesNetJoins(t *testing.T) {
	rooms := NewRooms()

	ops := []struct {
		join   bool
		connID string
	}{
		{true, "a"},
		{true, "b"},
		{true, "a"}, // 重複 join
		{false, "b"},
		{true, "c"},
		{false, "a"},
		{true, "b"},
	}

	net := make(map[string]bool)
	for _, op := range ops {
		if op.join {
			rooms.Join("course-1", op.connID)
			net[op.connID] = true
		} else {
			rooms.Leave("course-1", op.connID)
			net[op.connID] = false
		}
	}

	members := rooms.MembersOf("course-1")
	assert.Len(t, members, 2)
	for _, connID := range members {
		assert.True(t, net[connID], "connection %s left but is still a member", connID)
	}
}

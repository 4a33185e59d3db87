package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drainEvents 讀出連線目前緩衝中的所有事件
func drainEvents(conn *Connection) []Event {
	var events []Event
	for {
		select {
		case evt := <-conn.Events():
			events = append(events, evt)
		default:
			return events
		}
	}
}

func decodeMessage(t *testing.T, evt Event) Message {
	t.Helper()
	require.Equal(t, EventReceiveMessage, evt.Name)
	var msg Message
	require.NoError(t, json.Unmarshal(evt.Data, &msg))
	return msg
}

func TestPublishFansOutToAllMembers(t *testing.T) {
	broker := NewBroker(16)

	a, _ := broker.Register(Identity{ID: "1", Name: "Alice", Role: "instructor"})
	b, _ := broker.Register(Identity{ID: "2", Name: "Bob", Role: "student"})
	c, _ := broker.Register(Identity{ID: "3", Name: "Carol", Role: "student"})
	for _, conn := range []*Connection{a, b, c} {
		broker.Join("course-1", conn.ID)
	}

	err := broker.Publish(a.ID, SendRequest{RoomID: "course-1", Content: "hello", Type: MessageTypeText})
	require.NoError(t, err)

	// 廣播策略包含發送者本人，三個成員各收到恰好一則
	for _, conn := range []*Connection{a, b, c} {
		events := drainEvents(conn)
		require.Len(t, events, 1)
		msg := decodeMessage(t, events[0])
		assert.Equal(t, "hello", msg.Content)
		assert.Equal(t, "1", msg.Sender.ID)
		assert.Equal(t, "Alice", msg.Sender.Name)
		assert.Equal(t, "course-1", msg.RoomID)
		assert.False(t, msg.Timestamp.IsZero())
	}
}

func TestPublishDoesNotLeakToOtherRooms(t *testing.T) {
	broker := NewBroker(16)

	a, _ := broker.Register(Identity{ID: "1"})
	b, _ := broker.Register(Identity{ID: "2"})
	broker.Join("course-1", a.ID)
	broker.Join("course-2", b.ID)

	require.NoError(t, broker.Publish(a.ID, SendRequest{RoomID: "course-1", Content: "hi"}))

	assert.Len(t, drainEvents(a), 1)
	assert.Empty(t, drainEvents(b))
}

func TestPublishWithoutRoomIsRejected(t *testing.T) {
	broker := NewBroker(16)

	a, _ := broker.Register(Identity{ID: "1"})
	b, _ := broker.Register(Identity{ID: "2"})
	broker.Join("course-1", a.ID)
	broker.Join("course-1", b.ID)

	err := broker.Publish(a.ID, SendRequest{RoomID: "", Content: "x"})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	// 錯誤只回給發送者，其他成員什麼都看不到
	events := drainEvents(a)
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Name)
	assert.Empty(t, drainEvents(b))
}

func TestPublishWithoutContentIsRejected(t *testing.T) {
	broker := NewBroker(16)

	a, _ := broker.Register(Identity{ID: "1"})
	broker.Join("course-1", a.ID)

	err := broker.Publish(a.ID, SendRequest{RoomID: "course-1"})
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestPublishAttachmentOnlyIsValid(t *testing.T) {
	broker := NewBroker(16)

	a, _ := broker.Register(Identity{ID: "1"})
	broker.Join("course-1", a.ID)

	err := broker.Publish(a.ID, SendRequest{
		RoomID:      "course-1",
		Type:        MessageTypeFile,
		Attachments: []Attachment{{Name: "notes.pdf", URL: "/files/notes.pdf", Type: "application/pdf"}},
	})
	require.NoError(t, err)

	events := drainEvents(a)
	require.Len(t, events, 1)
	msg := decodeMessage(t, events[0])
	assert.Equal(t, MessageTypeFile, msg.Type)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "notes.pdf", msg.Attachments[0].Name)
}

func TestPublishFromUnknownConnection(t *testing.T) {
	broker := NewBroker(16)

	err := broker.Publish("ghost", SendRequest{RoomID: "course-1", Content: "boo"})
	assert.ErrorIs(t, err, ErrUnknownConnection)
}

func TestPublishDefaultsToTextType(t *testing.T) {
	broker := NewBroker(16)

	a, _ := broker.Register(Identity{ID: "1"})
	broker.Join("course-1", a.ID)

	require.NoError(t, broker.Publish(a.ID, SendRequest{RoomID: "course-1", Content: "hi"}))

	msg := decodeMessage(t, drainEvents(a)[0])
	assert.Equal(t, MessageTypeText, msg.Type)
	assert.NotEmpty(t, msg.ID)
}

func TestUnregisterCleansUpMembership(t *testing.T) {
	broker := NewBroker(16)

	a, _ := broker.Register(Identity{ID: "1"})
	b, _ := broker.Register(Identity{ID: "2"})
	broker.Join("course-1", a.ID)
	broker.Join("course-2", a.ID)
	broker.Join("course-1", b.ID)

	broker.Unregister(a.ID)

	assert.Equal(t, []string{b.ID}, broker.MembersOf("course-1"))
	assert.Empty(t, broker.MembersOf("course-2"))

	// 斷線後的廣播不會再指向已移除的連線
	require.NoError(t, broker.Publish(b.ID, SendRequest{RoomID: "course-1", Content: "still here"}))
	assert.Len(t, drainEvents(b), 1)

	// 重複 Unregister 是 no-op
	assert.NotPanics(t, func() { broker.Unregister(a.ID) })
}

func TestJoinAfterUnregisterIsIgnored(t *testing.T) {
	broker := NewBroker(16)

	a, _ := broker.Register(Identity{ID: "1"})
	broker.Unregister(a.ID)

	// 與斷線競爭的 join 被靜默丟棄，不會讓死連線變成成員
	broker.Join("course-1", a.ID)
	assert.Empty(t, broker.MembersOf("course-1"))
}

func TestPublishOrderIsPreservedPerRoom(t *testing.T) {
	broker := NewBroker(16)

	a, _ := broker.Register(Identity{ID: "1", Name: "Alice"})
	b, _ := broker.Register(Identity{ID: "2", Name: "Bob"})
	c, _ := broker.Register(Identity{ID: "3", Name: "Carol"})
	for _, conn := range []*Connection{a, b, c} {
		broker.Join("course-1", conn.ID)
	}

	require.NoError(t, broker.Publish(a.ID, SendRequest{RoomID: "course-1", Content: "first"}))
	require.NoError(t, broker.Publish(b.ID, SendRequest{RoomID: "course-1", Content: "second"}))

	// 第三個成員看到的順序等於 Publish 的呼叫順序
	events := drainEvents(c)
	require.Len(t, events, 2)
	assert.Equal(t, "first", decodeMessage(t, events[0]).Content)
	assert.Equal(t, "second", decodeMessage(t, events[1]).Content)
}

func TestSlowConsumerDoesNotBlockOthers(t *testing.T) {
	broker := NewBroker(1) // 發送緩衝只有一格

	slow, _ := broker.Register(Identity{ID: "1"})
	fast, _ := broker.Register(Identity{ID: "2"})
	broker.Join("course-1", slow.ID)
	broker.Join("course-1", fast.ID)

	require.NoError(t, broker.Publish(fast.ID, SendRequest{RoomID: "course-1", Content: "one"}))
	assert.Len(t, drainEvents(fast), 1) // fast 立即消化自己的緩衝
	require.NoError(t, broker.Publish(fast.ID, SendRequest{RoomID: "course-1", Content: "two"}))

	// 慢的連線緩衝滿了，第二則被丟棄；快的連線照常收到
	assert.Len(t, drainEvents(slow), 1)
	events := drainEvents(fast)
	require.Len(t, events, 1)
	assert.Equal(t, "two", decodeMessage(t, events[0]).Content)
	assert.Equal(t, 1, slow.dropped)
}

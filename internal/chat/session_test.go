package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatServer 是測試用的聊天伺服器，身份從查詢參數帶入，
// 並保留連線引用以便模擬傳輸中斷
type chatServer struct {
	broker *Broker
	srv    *httptest.Server

	mu    sync.Mutex
	conns []*websocket.Conn
}

func newChatServer(t *testing.T) *chatServer {
	t.Helper()
	cs := &chatServer{broker: NewBroker(16)}

	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cs.mu.Lock()
		cs.conns = append(cs.conns, conn)
		cs.mu.Unlock()

		identity := Identity{
			ID:   r.URL.Query().Get("id"),
			Name: r.URL.Query().Get("name"),
			Role: "student",
		}
		client, err := NewClient(conn, cs.broker, identity, nil, 4096)
		if err != nil {
			conn.Close()
			return
		}
		client.Run()
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *chatServer) url(id, name string) string {
	return "ws" + strings.TrimPrefix(cs.srv.URL, "http") + "/?id=" + id + "&name=" + name
}

// dropConnections 從伺服器端強制關閉所有連線，模擬傳輸失敗
func (cs *chatServer) dropConnections() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for _, conn := range cs.conns {
		conn.Close()
	}
	cs.conns = nil
}

func TestSessionEndToEnd(t *testing.T) {
	cs := newChatServer(t)

	received := make(chan Message, 4)
	b := NewSession(SessionConfig{
		URL:       cs.url("2", "Bob"),
		Identity:  Identity{ID: "2", Name: "Bob", Role: "student"},
		OnMessage: func(msg Message) { received <- msg },
	})
	require.NoError(t, b.Start())
	defer b.Stop()

	a := NewSession(SessionConfig{
		URL:      cs.url("1", "Alice"),
		Identity: Identity{ID: "1", Name: "Alice", Role: "student"},
	})
	require.NoError(t, a.Start())
	defer a.Stop()

	require.Eventually(t, func() bool {
		return a.State() == StateConnected && b.State() == StateConnected
	}, 2*time.Second, 10*time.Millisecond)

	a.JoinRoom("course-1")
	b.JoinRoom("course-1")
	require.Eventually(t, func() bool {
		return len(cs.broker.MembersOf("course-1")) == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.Send("course-1", "hello", MessageTypeText, nil))

	// 樂觀更新：發送當下 A 的本地緩衝就已經有這則訊息
	msgs := a.Messages("course-1")
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, "1", msgs[0].Sender.ID)

	// B 的 onMessage 恰好觸發一次
	select {
	case msg := <-received:
		assert.Equal(t, "hello", msg.Content)
		assert.Equal(t, "1", msg.Sender.ID)
		assert.Equal(t, "course-1", msg.RoomID)
	case <-time.After(2 * time.Second):
		t.Fatal("B never received the message")
	}
	assert.Empty(t, received)

	// 回音去重：等回音送達後，A 的緩衝仍然只有一則
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, a.Messages("course-1"), 1)
	assert.Len(t, b.Messages("course-1"), 1)
}

func TestSessionReconnects(t *testing.T) {
	cs := newChatServer(t)

	states := make(chan SessionState, 16)
	s := NewSession(SessionConfig{
		URL:      cs.url("1", "Alice"),
		Identity: Identity{ID: "1", Name: "Alice"},
		OnState:  func(state SessionState) { states <- state },
	})
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return s.State() == StateConnected }, 2*time.Second, 10*time.Millisecond)
	s.JoinRoom("course-1")
	require.Eventually(t, func() bool {
		return len(cs.broker.MembersOf("course-1")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// 清空已觀察到的狀態
	for len(states) > 0 {
		<-states
	}

	// 留下一筆收不到回音的去重記錄（事件在舊連線上丟失的情況）
	s.mu.Lock()
	s.pending["lost-echo"] = struct{}{}
	s.mu.Unlock()

	// 模擬傳輸失敗，控制器必須自動回到 Connecting 再恢復 Connected
	cs.dropConnections()

	var observed []SessionState
	require.Eventually(t, func() bool {
		for len(states) > 0 {
			observed = append(observed, <-states)
		}
		return len(observed) >= 2 &&
			observed[0] == StateConnecting &&
			observed[len(observed)-1] == StateConnected
	}, 5*time.Second, 20*time.Millisecond)

	// 重連後自動重新加入先前的房間
	require.Eventually(t, func() bool {
		return len(cs.broker.MembersOf("course-1")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// 殘留的去重記錄在重連時被清掉，不會隨 Session 壽命累積
	s.mu.Lock()
	pendingLen := len(s.pending)
	s.mu.Unlock()
	assert.Zero(t, pendingLen)
}

func TestBackoffIsClampedAndPositive(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, backoff(1))
	assert.Equal(t, time.Second, backoff(2))
	assert.Equal(t, 8*time.Second, backoff(5))
	assert.Equal(t, 10*time.Second, backoff(6))

	// 大的重試次數不能讓位移溢位成負的等待時間
	assert.Equal(t, 10*time.Second, backoff(40))
	assert.Equal(t, 10*time.Second, backoff(1000))
}

func TestSessionGivesUpAfterRetryBound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close() // 之後所有連線嘗試都會失敗

	s := NewSession(SessionConfig{
		URL:        url,
		Identity:   Identity{ID: "1"},
		MaxRetries: 1,
	})
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, StateConnecting, s.State())

	// 重試上限用盡後進入終態 Disconnected，不再無限重試
	require.Eventually(t, func() bool {
		return s.State() == StateDisconnected
	}, 5*time.Second, 50*time.Millisecond)
}

func TestSessionStop(t *testing.T) {
	cs := newChatServer(t)

	s := NewSession(SessionConfig{
		URL:      cs.url("1", "Alice"),
		Identity: Identity{ID: "1", Name: "Alice"},
	})
	require.NoError(t, s.Start())
	require.Eventually(t, func() bool { return s.State() == StateConnected }, 2*time.Second, 10*time.Millisecond)

	s.Stop()
	assert.Equal(t, StateDisconnected, s.State())

	// 停止後的操作被丟棄，不會 panic 也不會重啟
	assert.ErrorIs(t, s.Send("course-1", "late", MessageTypeText, nil), ErrNotConnected)
	assert.NotPanics(t, s.Stop)
	assert.ErrorIs(t, s.Start(), ErrSessionClosed)
}

func TestSessionSendRequiresConnection(t *testing.T) {
	s := NewSession(SessionConfig{URL: "ws://127.0.0.1:0", Identity: Identity{ID: "1"}})

	err := s.Send("course-1", "hello", MessageTypeText, nil)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Empty(t, s.Messages("course-1"))
}

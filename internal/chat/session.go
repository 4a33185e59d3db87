package chat

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// SessionState 表示客戶端連線的狀態
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateConnected
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ErrNotConnected 在連線建立前呼叫了需要連線的操作
var ErrNotConnected = errors.New("chat: session not connected")

// ErrSessionClosed Session 已停止，不能再啟動
var ErrSessionClosed = errors.New("chat: session closed")

// SessionConfig 是客戶端 Session 的設定
type SessionConfig struct {
	URL        string             // WebSocket 端點，含身份 token
	Identity   Identity           // 本地身份，用於樂觀更新的發送者快照
	MaxRetries int                // 自動重連的次數上限，0 表示用預設值
	Dialer     *websocket.Dialer  // 可注入測試用 dialer，nil 用預設
	OnMessage  func(Message)      // 每則入站訊息觸發一次
	OnState    func(SessionState) // 狀態轉換時觸發
}

const defaultMaxRetries = 10

// Session 是客戶端的連線控制器，負責建立連線、斷線自動重連、
// 維護每個房間的本地訊息緩衝，並提供樂觀更新的發送 API。
// 緩衝只存在於 Session 生命週期內，不做持久化。
type Session struct {
	cfg    SessionConfig
	dialer *websocket.Dialer

	writeMu sync.Mutex // 序列化對連線的寫入
	mu      sync.Mutex
	state   SessionState
	conn    *websocket.Conn
	rooms   map[string]struct{}  // 已加入的房間，重連後自動重新加入
	buffers map[string][]Message // roomID -> 本地訊息緩衝
	pending map[string]struct{}  // 自己發出、尚未收到回音的訊息 ID
	started bool
	stopped bool

	stop chan struct{}
	done chan struct{}
}

// NewSession 建立一個尚未連線的 Session
func NewSession(cfg SessionConfig) *Session {
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	return &Session{
		cfg:     cfg,
		dialer:  dialer,
		state:   StateDisconnected,
		rooms:   make(map[string]struct{}),
		buffers: make(map[string][]Message),
		pending: make(map[string]struct{}),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start 開始建立連線並啟動自動重連迴圈
func (s *Session) Start() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.started {
		s.mu.Unlock()
		return errors.New("chat: session already started")
	}
	s.started = true
	s.mu.Unlock()

	s.setState(StateConnecting)
	go s.run()
	return nil
}

// Stop 立即轉為 Disconnected 並丟棄進行中的請求，可重複呼叫
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stop)
	conn := s.conn
	s.conn = nil
	started := s.started
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	s.setState(StateDisconnected)
	if started {
		<-s.done
	}
}

// State 回傳目前的連線狀態
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// JoinRoom 發出加入房間的請求。不阻塞等待結果，
// 完成與否由後續訊息到達觀察。重連後會自動重新加入。
func (s *Session) JoinRoom(roomID string) {
	s.mu.Lock()
	s.rooms[roomID] = struct{}{}
	s.mu.Unlock()
	s.writeEvent(EventJoinRoom, RoomRequest{RoomID: roomID})
}

// LeaveRoom 發出離開房間的請求
func (s *Session) LeaveRoom(roomID string) {
	s.mu.Lock()
	delete(s.rooms, roomID)
	s.mu.Unlock()
	s.writeEvent(EventLeaveRoom, RoomRequest{RoomID: roomID})
}

// Send 發送一則訊息。訊息會先樂觀地追加到本地緩衝（之後收到的
// 回音靠訊息 ID 去重），再發出 publish 請求；發送失敗不回滾緩衝。
func (s *Session) Send(roomID, content, msgType string, attachments []Attachment) error {
	s.mu.Lock()
	if s.state != StateConnected {
		s.mu.Unlock()
		return ErrNotConnected
	}
	if msgType == "" {
		msgType = MessageTypeText
	}

	now := time.Now()
	msg := Message{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		Sender:      s.cfg.Identity,
		Content:     content,
		Type:        msgType,
		Attachments: attachments,
		Timestamp:   now,
	}
	s.buffers[roomID] = append(s.buffers[roomID], msg)
	s.pending[msg.ID] = struct{}{}
	s.mu.Unlock()

	return s.writeEvent(EventSendMessage, SendRequest{
		ID:          msg.ID,
		RoomID:      roomID,
		Content:     content,
		Type:        msgType,
		Attachments: attachments,
		Timestamp:   now,
	})
}

// Messages 回傳房間的本地訊息緩衝副本
func (s *Session) Messages(roomID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.buffers[roomID]))
	copy(out, s.buffers[roomID])
	return out
}

// run 是連線與重連的主迴圈。連續失敗超過重試上限後
// 進入終態 Disconnected，不再無限重試。
func (s *Session) run() {
	defer close(s.done)

	retries := 0
	for {
		conn, _, err := s.dialer.Dial(s.cfg.URL, nil)
		if err != nil {
			retries++
			if retries > s.cfg.MaxRetries {
				log.Printf("chat: session giving up after %d attempts: %v", retries-1, err)
				s.setState(StateDisconnected)
				return
			}
			if !s.sleep(backoff(retries)) {
				return
			}
			continue
		}
		retries = 0

		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conn = conn
		s.state = StateConnected
		// 舊連線上未送達的回音不會再來（沒有補發機制），
		// 殘留的去重記錄直接清掉，避免隨 Session 壽命無限增長
		s.pending = make(map[string]struct{})
		rooms := make([]string, 0, len(s.rooms))
		for roomID := range s.rooms {
			rooms = append(rooms, roomID)
		}
		s.mu.Unlock()
		s.notify(StateConnected)

		// 重連後重新加入先前的房間，伺服器端沒有訊息補發
		for _, roomID := range rooms {
			s.writeEvent(EventJoinRoom, RoomRequest{RoomID: roomID})
		}

		s.readLoop(conn)

		s.mu.Lock()
		stopped := s.stopped
		s.conn = nil
		s.mu.Unlock()
		if stopped {
			return
		}

		// 傳輸失敗，自動回到 Connecting 重試
		s.setState(StateConnecting)
	}
}

// readLoop 讀取入站事件直到連線中斷
func (s *Session) readLoop(conn *websocket.Conn) {
	defer conn.Close()
	for {
		var evt Event
		if err := conn.ReadJSON(&evt); err != nil {
			return
		}
		s.handleEvent(evt)
	}
}

// handleEvent 處理伺服器推送的事件
func (s *Session) handleEvent(evt Event) {
	switch evt.Name {
	case EventReceiveMessage:
		var msg Message
		if err := unmarshalData(evt.Data, &msg); err != nil {
			log.Printf("chat: session message parse error: %v", err)
			return
		}

		s.mu.Lock()
		// 自己訊息的回音：本地已有樂觀副本，丟棄避免重複
		if _, ok := s.pending[msg.ID]; ok {
			delete(s.pending, msg.ID)
			s.mu.Unlock()
			return
		}
		s.buffers[msg.RoomID] = append(s.buffers[msg.RoomID], msg)
		s.mu.Unlock()

		if s.cfg.OnMessage != nil {
			s.cfg.OnMessage(msg)
		}

	case EventError:
		var payload ErrorPayload
		if err := unmarshalData(evt.Data, &payload); err != nil {
			return
		}
		log.Printf("chat: server error: %s", payload.Message)
	}
}

// writeEvent 將事件寫到連線上，未連線時靜默丟棄請求
func (s *Session) writeEvent(name string, data interface{}) error {
	evt, err := newEvent(name, data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return conn.WriteJSON(evt)
}

// sleep 等待重試間隔，Stop 時立即放棄並回傳 false
func (s *Session) sleep(d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-s.stop:
		return false
	}
}

// setState 更新狀態並通知觀察者
func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.mu.Unlock()
	s.notify(state)
}

func (s *Session) notify(state SessionState) {
	if s.cfg.OnState != nil {
		s.cfg.OnState(state)
	}
}

// backoff 回傳第 n 次重試前的等待時間，指數遞增並封頂。
// n 先夾住再位移，大的重試上限不會讓位移溢位成負值。
func backoff(n int) time.Duration {
	if n > 5 {
		return 10 * time.Second
	}
	d := 500 * time.Millisecond << uint(n-1)
	if d > 10*time.Second {
		d = 10 * time.Second
	}
	return d
}

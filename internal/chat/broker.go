package chat

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Broker 是訊息廣播引擎，擁有連線註冊表與房間管理器。
// 所有變更都在 mu 保護下進行，Publish 的「查成員 + 入隊」在同一把鎖內
// 完成，因此同一房間的送達順序等於 Publish 的呼叫順序。
type Broker struct {
	mu       sync.RWMutex
	registry *Registry
	rooms    *Rooms
}

// NewBroker 建立廣播引擎，sendBuffer 為每條連線的發送緩衝大小
func NewBroker(sendBuffer int) *Broker {
	return &Broker{
		registry: NewRegistry(sendBuffer),
		rooms:    NewRooms(),
	}
}

// Register 註冊一條新連線
func (b *Broker) Register(identity Identity) (*Connection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry.Register(identity)
}

// Unregister 移除連線並同步清掉它在所有房間的成員資格。
// 清理與斷線事件同步完成，之後的廣播不會再指向這條連線。
// 重複呼叫是 no-op。
func (b *Broker) Unregister(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms.LeaveAll(connID)
	b.registry.Unregister(connID)
}

// IdentityOf 查詢連線的身份
func (b *Broker) IdentityOf(connID string) (Identity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.registry.IdentityOf(connID)
}

// Join 將連線加入房間。未註冊的連線直接忽略，
// 這種情況只會發生在與斷線競爭時。
func (b *Broker) Join(roomID, connID string) {
	if roomID == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.registry.Get(connID) == nil {
		return
	}
	b.rooms.Join(roomID, connID)
}

// Leave 將連線移出房間
func (b *Broker) Leave(roomID, connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms.Leave(roomID, connID)
}

// MembersOf 回傳房間目前的成員連線 ID
func (b *Broker) MembersOf(roomID string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rooms.MembersOf(roomID)
}

// Publish 驗證訊息並廣播給房間內的所有成員（包含發送者本人，
// 客戶端靠訊息 ID 去重）。驗證失敗時錯誤只回給發送者。
// 單一連線發送失敗不影響其他成員的送達。
func (b *Broker) Publish(senderID string, req SendRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sender := b.registry.Get(senderID)
	if sender == nil {
		return ErrUnknownConnection
	}

	if req.RoomID == "" || (req.Content == "" && len(req.Attachments) == 0) {
		b.deliver(sender, newErrorEvent("Invalid message data"))
		return ErrInvalidMessage
	}

	msgType := req.Type
	if msgType == "" {
		msgType = MessageTypeText
	}
	msgID := req.ID
	if msgID == "" {
		msgID = uuid.NewString()
	}

	msg := Message{
		ID:          msgID,
		RoomID:      req.RoomID,
		Sender:      sender.Identity,
		Content:     req.Content,
		Type:        msgType,
		Attachments: req.Attachments,
		Timestamp:   time.Now(), // 排序用伺服器時間，不信任客戶端時間戳
	}

	evt, err := newEvent(EventReceiveMessage, msg)
	if err != nil {
		b.deliver(sender, newErrorEvent("Failed to send message"))
		return err
	}

	for _, connID := range b.rooms.MembersOf(req.RoomID) {
		if conn := b.registry.Get(connID); conn != nil {
			b.deliver(conn, evt)
		}
	}
	return nil
}

// SendError 將錯誤事件送給指定連線
func (b *Broker) SendError(connID, message string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if conn := b.registry.Get(connID); conn != nil {
		b.deliver(conn, newErrorEvent(message))
	}
}

// deliver 盡力而為地把事件放進連線的發送緩衝。
// 緩衝滿時丟棄並計數，不重試也不阻塞其他成員。
func (b *Broker) deliver(conn *Connection, evt Event) {
	select {
	case conn.send <- evt:
	default:
		conn.dropped++
		log.Printf("chat: send buffer full for connection %s (user %s), event dropped (%d total)",
			conn.ID, conn.Identity.ID, conn.dropped)
	}
}

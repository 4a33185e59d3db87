package chat

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	pingInterval  = 54 * time.Second
)

// AuthorizeFunc 決定身份能否加入房間。授權屬於外部協作者的職責，
// 核心只信任呼叫方；hook 為 nil 時一律放行。
type AuthorizeFunc func(identity Identity, roomID string) bool

// Client 包裝一條伺服器端的 WebSocket 連線，
// 負責讀寫 pump 以及事件分派。
type Client struct {
	conn           *websocket.Conn
	broker         *Broker
	registered     *Connection
	authorize      AuthorizeFunc
	maxMessageSize int64
}

// NewClient 為已完成身份驗證的 WebSocket 連線建立客戶端
func NewClient(conn *websocket.Conn, broker *Broker, identity Identity, authorize AuthorizeFunc, maxMessageSize int64) (*Client, error) {
	registered, err := broker.Register(identity)
	if err != nil {
		return nil, err
	}
	if maxMessageSize <= 0 {
		maxMessageSize = 4096
	}
	return &Client{
		conn:           conn,
		broker:         broker,
		registered:     registered,
		authorize:      authorize,
		maxMessageSize: maxMessageSize,
	}, nil
}

// Run 啟動讀寫處理，連線關閉後回傳。
// 斷線時同步清理註冊表與房間成員資格。
func (c *Client) Run() {
	defer func() {
		c.broker.Unregister(c.registered.ID)
		c.conn.Close()
	}()

	go c.writePump()
	c.readPump()
}

// readPump 持續讀取客戶端事件並分派處理
func (c *Client) readPump() {
	c.conn.SetReadLimit(c.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("chat: unexpected close from user %s: %v", c.registered.Identity.ID, err)
			}
			break
		}

		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			log.Printf("chat: event parse error from user %s: %v", c.registered.Identity.ID, err)
			c.broker.SendError(c.registered.ID, "Invalid event format")
			continue
		}

		c.dispatch(evt)
	}
}

// dispatch 依事件名稱分派到對應的處理函數。
// 每個事件的錯誤只影響這條連線，絕不中斷其他成員。
func (c *Client) dispatch(evt Event) {
	switch evt.Name {
	case EventJoinRoom:
		var req RoomRequest
		if err := json.Unmarshal(evt.Data, &req); err != nil || req.RoomID == "" {
			c.broker.SendError(c.registered.ID, "Failed to join course")
			return
		}
		if c.authorize != nil && !c.authorize(c.registered.Identity, req.RoomID) {
			c.broker.SendError(c.registered.ID, "Not a member of this course")
			return
		}
		c.broker.Join(req.RoomID, c.registered.ID)

	case EventLeaveRoom:
		var req RoomRequest
		if err := json.Unmarshal(evt.Data, &req); err != nil || req.RoomID == "" {
			return
		}
		c.broker.Leave(req.RoomID, c.registered.ID)

	case EventSendMessage:
		var req SendRequest
		if err := json.Unmarshal(evt.Data, &req); err != nil {
			c.broker.SendError(c.registered.ID, "Invalid message data")
			return
		}
		if err := c.broker.Publish(c.registered.ID, req); err != nil {
			// 錯誤事件已由 Publish 回給發送者，這裡僅記錄
			log.Printf("chat: publish from user %s rejected: %v", c.registered.Identity.ID, err)
		}

	default:
		log.Printf("chat: unknown event %q from user %s", evt.Name, c.registered.Identity.ID)
	}
}

// writePump 將連線的出站事件寫到 WebSocket，並定期發送心跳
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.registered.Events():
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			raw, err := json.Marshal(evt)
			if err != nil {
				log.Printf("chat: event encoding error: %v", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

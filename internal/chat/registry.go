package chat

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateConnection 連線 ID 已存在（正常情況下不會發生）
	ErrDuplicateConnection = errors.New("chat: duplicate connection id")
	// ErrUnknownConnection 操作引用了不在註冊表中的連線
	ErrUnknownConnection = errors.New("chat: unknown connection")
	// ErrInvalidMessage 訊息缺少房間 ID 或內容
	ErrInvalidMessage = errors.New("chat: invalid message")
)

// Connection 代表一條已驗證的客戶端連線，由 Registry 獨佔擁有。
// send 是連線的發送緩衝，由 writePump 消化；廣播端永不阻塞在上面。
type Connection struct {
	ID       string
	Identity Identity

	send    chan Event
	dropped int // 因發送緩衝滿而丟棄的事件數
}

// Events 回傳連線的出站事件通道，僅供讀取
func (c *Connection) Events() <-chan Event {
	return c.send
}

// Registry 追蹤所有存活連線與其身份
type Registry struct {
	conns      map[string]*Connection
	sendBuffer int
}

// NewRegistry 建立一個空的連線註冊表
func NewRegistry(sendBuffer int) *Registry {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Registry{
		conns:      make(map[string]*Connection),
		sendBuffer: sendBuffer,
	}
}

// Register 為身份建立一條新連線並分配連線 ID
func (r *Registry) Register(identity Identity) (*Connection, error) {
	id := uuid.NewString()
	if _, ok := r.conns[id]; ok {
		return nil, ErrDuplicateConnection
	}

	conn := &Connection{
		ID:       id,
		Identity: identity,
		send:     make(chan Event, r.sendBuffer),
	}
	r.conns[id] = conn
	return conn, nil
}

// IdentityOf 查詢連線的身份
func (r *Registry) IdentityOf(connID string) (Identity, error) {
	conn, ok := r.conns[connID]
	if !ok {
		return Identity{}, ErrUnknownConnection
	}
	return conn.Identity, nil
}

// Get 取得連線，不存在時回傳 nil
func (r *Registry) Get(connID string) *Connection {
	return r.conns[connID]
}

// Unregister 移除連線並關閉其發送通道。重複呼叫是 no-op。
func (r *Registry) Unregister(connID string) {
	conn, ok := r.conns[connID]
	if !ok {
		return
	}
	delete(r.conns, connID)
	close(conn.send)
}

// Len 回傳目前存活的連線數
func (r *Registry) Len() int {
	return len(r.conns)
}

package chat

import (
	"encoding/json"
	"time"
)

// 客戶端與伺服器之間的事件名稱
const (
	EventJoinRoom       = "join-room"
	EventLeaveRoom      = "leave-room"
	EventSendMessage    = "send-message"
	EventReceiveMessage = "receive-message"
	EventError          = "error"
)

// 訊息類型
const (
	MessageTypeText  = "text"
	MessageTypeFile  = "file"
	MessageTypeImage = "image"
)

// Event 是 WebSocket 上傳輸的統一封包格式
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Identity 代表連線背後已驗證的用戶身份
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Attachment 描述訊息夾帶的附件
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// RoomRequest 是 join-room / leave-room 事件的資料
type RoomRequest struct {
	RoomID string `json:"roomId"`
}

// SendRequest 是 send-message 事件的資料
type SendRequest struct {
	ID          string       `json:"id,omitempty"` // 客戶端產生的訊息 ID，用於回音去重
	RoomID      string       `json:"roomId"`
	Content     string       `json:"content"`
	Type        string       `json:"type"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Timestamp   time.Time    `json:"timestamp,omitempty"` // 客戶端時間，僅供顯示參考
}

// Message 是 receive-message 事件的資料，廣播給房間內所有成員
type Message struct {
	ID          string       `json:"id"`
	RoomID      string       `json:"roomId"`
	Sender      Identity     `json:"sender"`
	Content     string       `json:"content"`
	Type        string       `json:"type"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Timestamp   time.Time    `json:"timestamp"` // 伺服器觀測到的時間，排序以此為準
}

// ErrorPayload 是 error 事件的資料，只送給出錯的連線
type ErrorPayload struct {
	Message string `json:"message"`
}

// newEvent 將資料編碼後包成事件封包
func newEvent(name string, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Data: raw}, nil
}

// newErrorEvent 建立一個 error 事件，編碼失敗在這裡不可能發生
func newErrorEvent(message string) Event {
	evt, _ := newEvent(EventError, ErrorPayload{Message: message})
	return evt
}

// unmarshalData 解碼事件資料，空資料視為錯誤
func unmarshalData(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return ErrInvalidMessage
	}
	return json.Unmarshal(data, v)
}

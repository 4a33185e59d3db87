package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"course_web/internal/chat"
	"course_web/internal/service"
	"course_web/internal/utils"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	broker         *chat.Broker
	courseService  *service.CourseService
	maxMessageSize int64
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(broker *chat.Broker, courseService *service.CourseService, maxMessageSize int64) *WebSocketHandler {
	return &WebSocketHandler{
		broker:         broker,
		courseService:  courseService,
		maxMessageSize: maxMessageSize,
	}
}

// HandleWebSocket 處理 WebSocket 連接請求。
// 身份在升級前由 token 驗證，聊天核心只消費驗證結果。
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	// 瀏覽器的 WebSocket 不能帶自定義 header，token 走查詢參數
	claims, err := utils.ParseToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	// 升級 HTTP 連接為 WebSocket 連接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "升級WebSocket失敗"})
		return
	}

	identity := chat.Identity{
		ID:   strconv.FormatUint(uint64(claims.UserID), 10),
		Name: claims.Name,
		Role: claims.Role,
	}

	client, err := chat.NewClient(conn, h.broker, identity, h.authorizeJoin, h.maxMessageSize)
	if err != nil {
		conn.Close()
		return
	}

	// 阻塞直到連線結束，斷線清理由 client 自己完成
	client.Run()
}

// authorizeJoin 檢查用戶是否為課程成員（講師或已選修的學生）
func (h *WebSocketHandler) authorizeJoin(identity chat.Identity, roomID string) bool {
	courseID, err := strconv.ParseUint(roomID, 10, 32)
	if err != nil {
		return false
	}
	userID, err := strconv.ParseUint(identity.ID, 10, 32)
	if err != nil {
		return false
	}
	return h.courseService.IsMember(uint(courseID), uint(userID))
}

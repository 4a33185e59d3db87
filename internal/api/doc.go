// Package api 定義 HTTP 路由並掛載各個處理器。
//
// 路由分三塊：公開的認證與健康檢查、需要 JWT 的課程與用戶管理，
// 以及升級為 WebSocket 的聊天連接點（token 走查詢參數）。
// 處理器負責把 HTTP 請求轉換為服務調用，並把結果轉回 HTTP 響應。
package api

// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 目前只有 JWT 驗證：解析 Bearer token 並把用戶 ID、名稱與角色
// 放進請求上下文，供課程與用戶管理的處理器使用。
package middleware

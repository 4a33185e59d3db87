// Package chat 實現課程聊天室的即時訊息核心。
//
// 這個包管理客戶端連線（Registry）、房間成員關係（Rooms）與訊息廣播
// （Broker），並提供客戶端的 Session 控制器，負責連線、斷線重連與
// 本地訊息緩衝。訊息不做持久化，離線後即消失。
package chat

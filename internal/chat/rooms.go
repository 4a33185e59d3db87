package chat

// Rooms 維護房間到成員連線 ID 的對應。
// 房間在第一次 Join 時建立，最後一個成員離開時回收。
// 成員集合是唯一的共享可變狀態，只能透過這裡的方法修改。
type Rooms struct {
	members map[string]map[string]struct{} // roomID -> connID 集合
	joined  map[string]map[string]struct{} // connID -> roomID 集合，供斷線清理
}

// NewRooms 建立空的房間管理器
func NewRooms() *Rooms {
	return &Rooms{
		members: make(map[string]map[string]struct{}),
		joined:  make(map[string]map[string]struct{}),
	}
}

// Join 將連線加入房間，重複加入不會產生重複成員
func (r *Rooms) Join(roomID, connID string) {
	if r.members[roomID] == nil {
		r.members[roomID] = make(map[string]struct{})
	}
	r.members[roomID][connID] = struct{}{}

	if r.joined[connID] == nil {
		r.joined[connID] = make(map[string]struct{})
	}
	r.joined[connID][roomID] = struct{}{}
}

// Leave 將連線移出房間，房間空了就刪除
func (r *Rooms) Leave(roomID, connID string) {
	if members, ok := r.members[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.members, roomID)
		}
	}
	if rooms, ok := r.joined[connID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(r.joined, connID)
		}
	}
}

// LeaveAll 將連線移出它加入的所有房間，斷線時由 Broker 呼叫
func (r *Rooms) LeaveAll(connID string) {
	for roomID := range r.joined[connID] {
		if members, ok := r.members[roomID]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(r.members, roomID)
			}
		}
	}
	delete(r.joined, connID)
}

// MembersOf 回傳房間目前的成員連線 ID。
// 未知房間回傳空集合，空房間是合法狀態而非錯誤。
func (r *Rooms) MembersOf(roomID string) []string {
	members := r.members[roomID]
	out := make([]string, 0, len(members))
	for connID := range members {
		out = append(out, connID)
	}
	return out
}

// Contains 回傳連線是否在房間內
func (r *Rooms) Contains(roomID, connID string) bool {
	_, ok := r.members[roomID][connID]
	return ok
}

package permission

import (
	"sort"

	"github.com/esgdesk/services/team/internal/model"
)

// State 菜单ID到是否授权的映射
type State map[string]bool

// Clone 复制状态
func (s State) Clone() State {
	cp := make(State, len(s))
	for k, v := range s {
		cp[k] = v
	}
	return cp
}

// Granted 已授权的菜单ID, 按字典序
func (s State) Granted() []string {
	ids := make([]string, 0, len(s))
	for id, ok := range s {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// FromRecords 由权限记录构建状态, 原样加载不做一致性修正
func FromRecords(records []model.PermissionRecord) State {
	s := make(State, len(records))
	for _, r := range records {
		s[r.MenuItemID] = r.Granted
	}
	return s
}

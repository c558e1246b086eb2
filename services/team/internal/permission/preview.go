package permission

import (
	"github.com/esgdesk/services/team/internal/navigation"
)

// Project 按权限状态裁剪菜单森林, 仅用于预览
//
// 未授权的项被剔除; 有子项但子项全部被剔除且自身没有链接的项视为空标题, 一并剔除。
func Project(forest []*navigation.Item, state State) []*navigation.Item {
	out := make([]*navigation.Item, 0, len(forest))
	for _, item := range forest {
		if !state[item.ID] {
			continue
		}
		node := *item
		node.Children = nil
		if len(item.Children) > 0 {
			children := Project(item.Children, state)
			if len(children) == 0 && item.Href == "" {
				continue
			}
			if len(children) > 0 {
				node.Children = children
			}
		}
		out = append(out, &node)
	}
	return out
}

package navigation

// Level 菜单层级
type Level string

const (
	LevelMain       Level = "main"
	LevelSubmenu    Level = "submenu"
	LevelSubSubmenu Level = "subsubmenu"
)

// Item 导航菜单项
type Item struct {
	ID       string  `json:"id"`
	ParentID string  `json:"parentId,omitempty"`
	Name     string  `json:"name"`
	Level    Level   `json:"level"`
	Icon     string  `json:"icon,omitempty"`
	Href     string  `json:"href,omitempty"`
	Children []*Item `json:"children,omitempty"`
}

// clone 深拷贝子树
func (i *Item) clone() *Item {
	cp := *i
	if len(i.Children) > 0 {
		cp.Children = make([]*Item, len(i.Children))
		for k, child := range i.Children {
			cp.Children[k] = child.clone()
		}
	}
	return &cp
}

// Flatten 先序展开菜单森林, 父节点在子节点之前, 结果中不含 Children
func Flatten(forest []*Item) []Item {
	out := make([]Item, 0, len(forest))
	var walk func(items []*Item)
	walk = func(items []*Item) {
		for _, item := range items {
			flat := *item
			flat.Children = nil
			out = append(out, flat)
			walk(item.Children)
		}
	}
	walk(forest)
	return out
}

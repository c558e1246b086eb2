package navigation

// Catalog 只读的菜单目录, 带父子索引
type Catalog struct {
	forest   []*Item
	byID     map[string]*Item
	children map[string][]string
}

// NewCatalog 由菜单森林构建目录, 父ID以嵌套关系为准
func NewCatalog(forest []*Item) *Catalog {
	c := &Catalog{
		forest:   make([]*Item, len(forest)),
		byID:     make(map[string]*Item),
		children: make(map[string][]string),
	}
	for i, root := range forest {
		c.forest[i] = root.clone()
	}

	var index func(parentID string, items []*Item)
	index = func(parentID string, items []*Item) {
		for _, item := range items {
			item.ParentID = parentID
			c.byID[item.ID] = item
			if parentID != "" {
				c.children[parentID] = append(c.children[parentID], item.ID)
			}
			index(item.ID, item.Children)
		}
	}
	index("", c.forest)
	return c
}

var defaultCatalog = NewCatalog(portalMenu)

// Default 门户内置菜单目录
func Default() *Catalog {
	return defaultCatalog
}

// Structure 返回内置菜单森林的副本
func Structure() []*Item {
	return defaultCatalog.Structure()
}

// Structure 返回菜单森林的副本, 调用方可随意修改
func (c *Catalog) Structure() []*Item {
	out := make([]*Item, len(c.forest))
	for i, root := range c.forest {
		out[i] = root.clone()
	}
	return out
}

// Flat 先序展开的菜单列表
func (c *Catalog) Flat() []Item {
	return Flatten(c.forest)
}

// Has 菜单项是否存在
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Lookup 查找菜单项, 不含子节点
func (c *Catalog) Lookup(id string) (Item, bool) {
	item, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	flat := *item
	flat.Children = nil
	return flat, true
}

// Parent 父菜单ID, 根节点或未知ID返回 false
func (c *Catalog) Parent(id string) (string, bool) {
	item, ok := c.byID[id]
	if !ok || item.ParentID == "" {
		return "", false
	}
	return item.ParentID, true
}

// Children 直接子菜单ID, 按目录顺序
func (c *Catalog) Children(id string) []string {
	return c.children[id]
}

// Hrefs 目录中所有可导航地址, 先序且去重
func (c *Catalog) Hrefs() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range c.Flat() {
		if item.Href == "" {
			continue
		}
		if _, ok := seen[item.Href]; ok {
			continue
		}
		seen[item.Href] = struct{}{}
		out = append(out, item.Href)
	}
	return out
}

// HrefsOf 给定菜单ID对应的可导航地址
func (c *Catalog) HrefsOf(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if item, ok := c.byID[id]; ok && item.Href != "" {
			out = append(out, item.Href)
		}
	}
	return out
}

package planner

import (
	"golang.org/x/tools/go/types/typeutil"

	"github.com/origadmin/factorygen/internal/model"
)

// Group partitions items by target type identity. Groups are ordered by the
// first usage of their target, items keep discovery order.
func Group(items []model.AttributeItem) []*model.Group {
	var index typeutil.Map
	var groups []*model.Group
	for _, it := range items {
		g, _ := index.At(it.InterfaceType).(*model.Group)
		if g == nil {
			g = &model.Group{Target: it.InterfaceType}
			index.Set(it.InterfaceType, g)
			groups = append(groups, g)
		}
		g.Items = append(g.Items, it)
	}
	return groups
}

package asyncfilters

import "fmt"

// A Group is one bucket produced by groupby: the shared key and the items carrying it,
// in their original order.
type Group struct {
	Grouper any
	List    []any
}

// KeyFunc extracts the grouper key from an item.
type KeyFunc func(item any) (any, error)

type keyedItem struct {
	key  any
	item any
}

// GroupBy buckets items by key. Groups come out in ascending key order and each group keeps
// the original relative order of its items.
// A key error or a pair of incomparable keys aborts grouping and is returned as is.
func GroupBy(items []any, key KeyFunc) ([]Group, error) {
	keyed := make([]keyedItem, len(items))

	for i, item := range items {
		k, err := key(item)
		if err != nil {
			return nil, err
		}

		keyed[i] = keyedItem{key: k, item: item}
	}

	err := SortStable(keyed, func(a keyedItem, b keyedItem) (int, error) {
		return Compare(a.key, b.key)
	})
	if err != nil {
		return nil, err
	}

	groups := []Group{}

	for _, ki := range keyed {
		if n := len(groups); n > 0 {
			if c, err := Compare(groups[n-1].Grouper, ki.key); err == nil && c == 0 {
				groups[n-1].List = append(groups[n-1].List, ki.item)
				continue
			}
		}

		groups = append(groups, Group{Grouper: ki.key, List: []any{ki.item}})
	}

	return groups, nil
}

// GetAttr implements AttrGetter.
func (g Group) GetAttr(name string) (any, bool) {
	switch name {
	case "grouper":
		return g.Grouper, true
	case "list":
		return g.List, true
	default:
		return nil, false
	}
}

// GetItem implements ItemGetter, so a group unpacks as a (grouper, list) pair.
func (g Group) GetItem(index int) (any, bool) {
	switch index {
	case 0, -2:
		return g.Grouper, true
	case 1, -1:
		return g.List, true
	default:
		return nil, false
	}
}

// String implements fmt.Stringer.
func (g Group) String() string {
	return fmt.Sprintf("(%s, %s)", repr(g.Grouper), formatList(g.List))
}

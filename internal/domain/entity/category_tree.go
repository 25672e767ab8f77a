package entity

import (
	"slices"
	"strings"

	"boutique/internal/errors"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// ErrMalformedCategoryList is returned when a flat category list cannot form a forest.
var ErrMalformedCategoryList = errors.New("malformed category list")

// CategoryNode is a category copy together with its children.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *CategoryNode) Size() int {
	size := 1
	for _, child := range n.Children {
		size += child.Size()
	}

	return size
}

// BuildCategoryTree turns a flat category list into a forest.
//
// A category whose parent is nil or missing from the list becomes a root.
// Roots and children are sorted by name. Nil entries, duplicate IDs and
// parent cycles are rejected as a whole; no partial tree is returned.
func BuildCategoryTree(categories []*Category) ([]*CategoryNode, error) {
	lookup := make(map[uuid.UUID]*CategoryNode, len(categories))
	for i, category := range categories {
		if category == nil {
			return nil, errors.Wrapf(ErrMalformedCategoryList, "nil category at index %d", i)
		}
		if _, dup := lookup[category.ID]; dup {
			return nil, errors.Wrapf(ErrMalformedCategoryList, "duplicate category id %s", category.ID)
		}
		lookup[category.ID] = &CategoryNode{Category: *category, Children: []*CategoryNode{}}
	}

	if err := detectParentCycle(categories, lookup); err != nil {
		return nil, err
	}

	roots := make([]*CategoryNode, 0)
	for _, category := range categories {
		node := lookup[category.ID]
		if category.ParentID != nil {
			if parent, ok := lookup[*category.ParentID]; ok {
				parent.Children = append(parent.Children, node)

				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots, cases.Fold())

	return roots, nil
}

// FlattenCategoryTree lists every node depth-first, parents before children.
func FlattenCategoryTree(roots []*CategoryNode) []*CategoryNode {
	out := make([]*CategoryNode, 0, len(roots))
	var walk func(nodes []*CategoryNode)
	walk = func(nodes []*CategoryNode) {
		for _, node := range nodes {
			out = append(out, node)
			walk(node.Children)
		}
	}
	walk(roots)

	return out
}

// DescendantIDs returns the ID of the category and of every category below it.
func DescendantIDs(categories []*Category, rootID uuid.UUID) []uuid.UUID {
	children := make(map[uuid.UUID][]uuid.UUID, len(categories))
	for _, category := range categories {
		if category != nil && category.ParentID != nil {
			children[*category.ParentID] = append(children[*category.ParentID], category.ID)
		}
	}

	ids := []uuid.UUID{rootID}
	seen := map[uuid.UUID]bool{rootID: true}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if !seen[child] {
				seen[child] = true
				ids = append(ids, child)
			}
		}
	}

	return ids
}

func detectParentCycle(categories []*Category, lookup map[uuid.UUID]*CategoryNode) error {
	// 0 unvisited, 1 on the current path, 2 known to reach a root.
	state := make(map[uuid.UUID]int, len(categories))
	for _, category := range categories {
		path := make([]uuid.UUID, 0, 4)
		current := category
		for current != nil && state[current.ID] != 2 {
			if state[current.ID] == 1 {
				return errors.Wrapf(ErrMalformedCategoryList, "parent cycle through category %s", current.ID)
			}
			state[current.ID] = 1
			path = append(path, current.ID)

			if current.ParentID == nil {
				break
			}
			parent, ok := lookup[*current.ParentID]
			if !ok {
				break
			}
			current = &parent.Category
		}
		for _, id := range path {
			state[id] = 2
		}
	}

	return nil
}

// sortNodes orders siblings by case-folded name, then ID, at every level.
// A Caser is stateful, so each build gets its own.
func sortNodes(nodes []*CategoryNode, folder cases.Caser) {
	slices.SortStableFunc(nodes, func(a, b *CategoryNode) int {
		if c := strings.Compare(folder.String(a.Name), folder.String(b.Name)); c != 0 {
			return c
		}

		return strings.Compare(a.ID.String(), b.ID.String())
	})
	for _, node := range nodes {
		sortNodes(node.Children, folder)
	}
}

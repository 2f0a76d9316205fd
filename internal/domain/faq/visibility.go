package faq

import "sort"

// Visible keeps entries whose ask count has reached the threshold and
// orders them for display: unclustered entries first, then clusters by
// ascending id, newest first within each group.
func Visible(entries []Entry, threshold int) []Entry {
	visible := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.AskCount >= threshold {
			visible = append(visible, e)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		left, right := visible[i], visible[j]
		switch {
		case left.ClusterID == nil && right.ClusterID != nil:
			return true
		case left.ClusterID != nil && right.ClusterID == nil:
			return false
		case left.ClusterID != nil && right.ClusterID != nil && *left.ClusterID != *right.ClusterID:
			return *left.ClusterID < *right.ClusterID
		default:
			return left.CreatedAt.After(right.CreatedAt)
		}
	})
	return visible
}

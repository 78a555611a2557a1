package report

import (
	"lakbaycli/internal/config"
	"lakbaycli/pkg/contracts/domain"
)

// Labels of the active/inactive partition
const (
	LabelActive   = "Active"
	LabelInactive = "Inactive"
)

// PartitionCounts buckets records by field into one count per known
// category, in order, plus a trailing Others bucket for everything else.
// The counts always sum to len(records).
func PartitionCounts[T any](records []T, categories []string, field func(T) string) domain.AggregateCounts {
	counts := make(domain.AggregateCounts, 0, len(categories)+1)
	index := make(map[string]int, len(categories))
	for _, c := range categories {
		if _, dup := index[c]; dup || c == config.OtherCategory {
			continue
		}
		index[c] = len(counts)
		counts = append(counts, domain.CategoryCount{Label: c})
	}
	others := len(counts)
	counts = append(counts, domain.CategoryCount{Label: config.OtherCategory})

	for _, r := range records {
		if i, ok := index[field(r)]; ok {
			counts[i].Count++
			continue
		}
		counts[others].Count++
	}
	return counts
}

// PartitionActive returns exactly two buckets, Active then Inactive
func PartitionActive[T any](records []T, isActive func(T) bool) domain.AggregateCounts {
	active := 0
	for _, r := range records {
		if isActive(r) {
			active++
		}
	}
	return domain.AggregateCounts{
		{Label: LabelActive, Count: active},
		{Label: LabelInactive, Count: len(records) - active},
	}
}

// UserCounts partitions users by their active flag
func UserCounts(users []domain.User) domain.AggregateCounts {
	return PartitionActive(users, func(u domain.User) bool { return u.IsActive })
}

// EventCounts partitions events by their active flag
func EventCounts(events []domain.Event) domain.AggregateCounts {
	return PartitionActive(events, func(e domain.Event) bool { return e.IsActive })
}

// HotlineCounts partitions hotlines by category
func HotlineCounts(hotlines []domain.Hotline) domain.AggregateCounts {
	return PartitionCounts(hotlines, config.HotlineCategories, func(h domain.Hotline) string { return h.Category })
}

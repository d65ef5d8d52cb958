package commits

import (
	"sort"
	"strings"
)

// SortOrder selects the timestamp ordering of collected records.
type SortOrder string

// Supported sort orders.
const (
	SortOrderAscending  SortOrder = SortOrder("asc")
	SortOrderDescending SortOrder = SortOrder("desc")
)

// ParseSortOrder normalizes a configured sort order and reports whether it is supported.
func ParseSortOrder(rawOrder string) (SortOrder, bool) {
	normalizedOrder := SortOrder(strings.ToLower(strings.TrimSpace(rawOrder)))
	switch normalizedOrder {
	case SortOrderAscending, SortOrderDescending:
		return normalizedOrder, true
	default:
		return normalizedOrder, false
	}
}

// Sort returns a copy of the records ordered by timestamp only.
// Records with equal timestamps keep their collection order.
func Sort(records []Record, order SortOrder) []Record {
	sortedRecords := make([]Record, len(records))
	copy(sortedRecords, records)

	sort.SliceStable(sortedRecords, func(leftIndex int, rightIndex int) bool {
		if order == SortOrderDescending {
			return sortedRecords[leftIndex].Timestamp.After(sortedRecords[rightIndex].Timestamp)
		}
		return sortedRecords[leftIndex].Timestamp.Before(sortedRecords[rightIndex].Timestamp)
	})

	return sortedRecords
}

package models

import "time"

// TimeLayout is the created_at format used by the record tables.
const TimeLayout = "2006-01-02 15:04:05"

// CategoryAll is the filter sentinel meaning "do not filter by category".
const CategoryAll = "all"

// Categories is the fixed set offered on record creation. The edit form
// historically accepted free text, so stores must not reject other values.
var Categories = []string{"荣誉", "教育经历", "竞赛", "证书", "账号", "其他"}

// Record is a single row of a user's record table.
//
// ID is unique within one user's table only. CreatedAt is set once on
// creation and is immutable
// afterwards. Extra preserves columns from older table layouts that the
// current schema does not model (union-of-columns on load).
type Record struct {
	ID        int               `json:"id"`
	Category  string            `json:"category"`
	CreatedAt time.Time         `json:"created_at"`
	Title     string            `json:"title"`
	Notes     string            `json:"notes"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// NextID returns the id for a record appended to records: 0 for an empty
// table, max(existing)+1 otherwise. Interior gaps from deletions are never
// refilled; only removing the current maximum frees its value.
func NextID(records []Record) int {
	if len(records) == 0 {
		return 0
	}
	max := records[0].ID
	for _, r := range records[1:] {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

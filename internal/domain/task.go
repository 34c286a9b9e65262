package domain

// ─── Weekly Task Ledger Types ───────────────────────────────────────────────

// TaskCategory partitions the weekly checklist into the two supervised
// contexts a student earns rewards in.
type TaskCategory string

const (
	CategorySchool TaskCategory = "SCHOOL"
	CategoryHome   TaskCategory = "HOME"
)

// Valid reports whether c is a recognized category.
func (c TaskCategory) Valid() bool {
	return c == CategorySchool || c == CategoryHome
}

// Task keys form a closed, per-category catalog. Toggles are validated
// against the catalog so arbitrary keys can never accrue rewards.
var taskCatalog = map[TaskCategory][]string{
	CategorySchool: {
		"homework_done",
		"good_behavior",
		"participation",
		"materials_ready",
		"on_time",
	},
	CategoryHome: {
		"make_bed",
		"tidy_room",
		"set_table",
		"help_dishes",
		"feed_pet",
	},
}

// TaskKeys returns the recognized keys for a category, in catalog order.
// Returns nil for an unrecognized category.
func TaskKeys(c TaskCategory) []string {
	keys := taskCatalog[c]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// ValidTaskKey reports whether key belongs to the category's catalog.
func ValidTaskKey(c TaskCategory, key string) bool {
	for _, k := range taskCatalog[c] {
		if k == key {
			return true
		}
	}
	return false
}

// TaskLog is a week-scoped checklist of recurring achievements in one
// category. One log exists per (account, week, category); it is created
// lazily with every catalog key false and only its booleans ever change.
type TaskLog struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	WeekID     string          `json:"week_id"`
	Category   TaskCategory    `json:"category"`
	Completion map[string]bool `json:"completion"`
}

// Complete reports whether every task in the log is done.
func (l *TaskLog) Complete() bool {
	if len(l.Completion) == 0 {
		return false
	}
	for _, done := range l.Completion {
		if !done {
			return false
		}
	}
	return true
}

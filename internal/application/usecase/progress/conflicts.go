// Package progress contains goal progress use cases.
package progress

import (
	"log/slog"

	"github.com/goal-planner/backend/internal/domain/entity"
	domainerror "github.com/goal-planner/backend/internal/domain/error"
	"github.com/goal-planner/backend/internal/domain/planning"
)

// logConflicts reports duplicate month entries that reconciliation resolved.
func logConflicts(conflicts []planning.ProgressConflict) {
	for _, conflict := range conflicts {
		slog.Warn("Resolved duplicate progress entries",
			"code", domainerror.ErrCodeReconciliationConflict,
			"error", domainerror.ErrReconciliationConflict,
			"goalID", conflict.GoalID,
			"month", conflict.MonthYear.Format("2006-01"),
			"keptID", conflict.Kept.ID,
			"discardedID", conflict.Discarded.ID,
		)
	}
}

// entriesToWrite returns what must be upserted to turn before into after. When
// duplicates were resolved every entry is rewritten.
func entriesToWrite(before, after []entity.GoalProgressEntry, conflicts []planning.ProgressConflict) []entity.GoalProgressEntry {
	if len(conflicts) > 0 {
		return after
	}
	return planning.ChangedEntries(before, after)
}

package planning

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-planner/backend/internal/domain/entity"
)

// progressKey identifies the single entry a goal may have for a calendar month.
type progressKey struct {
	goalID uuid.UUID
	month  int
}

func keyOf(entry entity.GoalProgressEntry) progressKey {
	m := entity.FirstOfMonth(entry.MonthYear)
	return progressKey{goalID: entry.GoalID, month: m.Year()*12 + int(m.Month()) - 1}
}

// ProgressConflict describes two stored entries competing for one goal and month.
type ProgressConflict struct {
	GoalID    uuid.UUID
	MonthYear time.Time
	Kept      entity.GoalProgressEntry
	Discarded entity.GoalProgressEntry
}

// Reconcile collapses entries to one per goal and month, keeping the most recently
// updated one, and recomputes every cumulative value from the full history. The
// duplicates it resolves are returned so callers can surface them.
func Reconcile(entries []entity.GoalProgressEntry) ([]entity.GoalProgressEntry, []ProgressConflict) {
	index := make(map[progressKey]int, len(entries))
	unique := make([]entity.GoalProgressEntry, 0, len(entries))
	var conflicts []ProgressConflict

	for _, entry := range entries {
		entry.MonthYear = entity.FirstOfMonth(entry.MonthYear)
		key := keyOf(entry)
		pos, exists := index[key]
		if !exists {
			index[key] = len(unique)
			unique = append(unique, entry)
			continue
		}

		kept, discarded := unique[pos], entry
		if !entry.UpdatedAt.Before(kept.UpdatedAt) {
			kept, discarded = entry, unique[pos]
		}
		unique[pos] = kept
		conflicts = append(conflicts, ProgressConflict{
			GoalID:    key.goalID,
			MonthYear: entry.MonthYear,
			Kept:      kept,
			Discarded: discarded,
		})
	}

	return RecomputeCumulative(unique), conflicts
}

// MergeEntry upserts entry into a goal's history by goal and month, then recomputes
// the cumulative values of the whole history. A replaced entry keeps its identity.
func MergeEntry(history []entity.GoalProgressEntry, entry entity.GoalProgressEntry) ([]entity.GoalProgressEntry, []ProgressConflict) {
	resolved, conflicts := Reconcile(history)

	entry.MonthYear = entity.FirstOfMonth(entry.MonthYear)
	key := keyOf(entry)
	replaced := false
	for i := range resolved {
		if keyOf(resolved[i]) == key {
			entry.ID = resolved[i].ID
			entry.CreatedAt = resolved[i].CreatedAt
			resolved[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		resolved = append(resolved, entry)
	}

	return RecomputeCumulative(resolved), conflicts
}

// RecomputeCumulative sorts entries by goal and month and rebuilds cumulative planned,
// cumulative actual and variance from the chronologically preceding entry. Entries
// must already be unique per goal and month.
func RecomputeCumulative(entries []entity.GoalProgressEntry) []entity.GoalProgressEntry {
	out := make([]entity.GoalProgressEntry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		if c := bytes.Compare(out[i].GoalID[:], out[j].GoalID[:]); c != 0 {
			return c < 0
		}
		return out[i].MonthYear.Before(out[j].MonthYear)
	})

	var current uuid.UUID
	planned, actual := decimal.Zero, decimal.Zero
	for i := range out {
		if i == 0 || out[i].GoalID != current {
			current = out[i].GoalID
			planned, actual = decimal.Zero, decimal.Zero
		}
		planned = planned.Add(out[i].PlannedAmount)
		actual = actual.Add(out[i].ActualAmount)
		out[i].CumulativePlanned = planned
		out[i].CumulativeActual = actual
		out[i].Variance = actual.Sub(planned)
	}

	return out
}

// CurrentProgress returns the cumulative progress of a goal as of its latest entry.
// Without entries the progress is zero.
func CurrentProgress(goalID uuid.UUID, entries []entity.GoalProgressEntry) entity.ProgressSnapshot {
	snapshot := entity.ProgressSnapshot{
		GoalID:            goalID,
		CumulativePlanned: decimal.Zero,
		CumulativeActual:  decimal.Zero,
		Variance:          decimal.Zero,
	}

	var latest *entity.GoalProgressEntry
	for i := range entries {
		if entries[i].GoalID != goalID {
			continue
		}
		if latest == nil || entries[i].MonthYear.After(latest.MonthYear) {
			latest = &entries[i]
		}
	}
	if latest == nil {
		return snapshot
	}

	month := latest.MonthYear
	snapshot.MonthYear = &month
	snapshot.CumulativePlanned = latest.CumulativePlanned
	snapshot.CumulativeActual = latest.CumulativeActual
	snapshot.Variance = latest.Variance
	return snapshot
}

// ChangedEntries returns the entries of after that differ from their counterpart in
// before, or have none.
func ChangedEntries(before, after []entity.GoalProgressEntry) []entity.GoalProgressEntry {
	previous := make(map[progressKey]entity.GoalProgressEntry, len(before))
	for _, entry := range before {
		previous[keyOf(entry)] = entry
	}

	changed := make([]entity.GoalProgressEntry, 0, len(after))
	for _, entry := range after {
		old, ok := previous[keyOf(entry)]
		if !ok || !sameProgress(old, entry) {
			changed = append(changed, entry)
		}
	}
	return changed
}

func sameProgress(a, b entity.GoalProgressEntry) bool {
	return a.ID == b.ID &&
		a.PlannedAmount.Equal(b.PlannedAmount) &&
		a.ActualAmount.Equal(b.ActualAmount) &&
		a.CumulativePlanned.Equal(b.CumulativePlanned) &&
		a.CumulativeActual.Equal(b.CumulativeActual) &&
		a.Variance.Equal(b.Variance) &&
		a.Note == b.Note
}

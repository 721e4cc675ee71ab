package model

// All returns every persisted model, for migrations.
func All() []any {
	return []any{
		&GoalModel{},
		&ProgressEntryModel{},
		&BudgetModel{},
	}
}

package task

import "sort"

// SortDeadlineFirst сортирует задачи для выдачи списка:
// незавершённые раньше завершённых, затем ближайший дедлайн,
// задачи без дедлайна в конце, при равенстве — новые раньше.
func SortDeadlineFirst(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		aDone := a.Status == StatusCompleted
		bDone := b.Status == StatusCompleted
		if aDone != bDone {
			return !aDone
		}

		switch {
		case a.Deadline == nil && b.Deadline == nil:
		case a.Deadline == nil:
			return false
		case b.Deadline == nil:
			return true
		case !a.Deadline.Equal(*b.Deadline):
			return a.Deadline.Before(*b.Deadline)
		}

		return a.CreatedAt.After(b.CreatedAt)
	})
}

// SortByPriority сортирует срочные задачи вперёд, при равном приоритете —
// ближайший дедлайн раньше.
func SortByPriority(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		switch {
		case a.Deadline == nil && b.Deadline == nil:
			return a.CreatedAt.After(b.CreatedAt)
		case a.Deadline == nil:
			return false
		case b.Deadline == nil:
			return true
		}
		return a.Deadline.Before(*b.Deadline)
	})
}

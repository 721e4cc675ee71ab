// Package progress contains goal progress use cases.
package progress

import (
	"sync"

	"github.com/google/uuid"
)

// GoalLocks serializes progress writes per goal. Locks of different goals never block
// each other, and a goal's lock is released from the map once nobody holds or waits on it.
type GoalLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*goalLock
}

type goalLock struct {
	mu   sync.Mutex
	refs int
}

// NewGoalLocks creates an empty set of goal locks.
func NewGoalLocks() *GoalLocks {
	return &GoalLocks{
		locks: make(map[uuid.UUID]*goalLock),
	}
}

// Lock blocks until the goal's lock is held and returns its release function.
func (l *GoalLocks) Lock(goalID uuid.UUID) func() {
	l.mu.Lock()
	lock, ok := l.locks[goalID]
	if !ok {
		lock = &goalLock{}
		l.locks[goalID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, goalID)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of goals currently locked or waited on.
func (l *GoalLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

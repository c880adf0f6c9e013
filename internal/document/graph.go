package document

import "github.com/tgienger/taskgraph/internal/models"

// Status is the derived workability of a task.
type Status int

const (
	// StatusBlocked means at least one dependency is not yet completed.
	StatusBlocked Status = iota
	// StatusReady means every dependency is completed and the task is not.
	StatusReady
	// StatusCompleted means the task carries a completion mark.
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusBlocked:
		return "Blocked"
	case StatusReady:
		return "Ready"
	case StatusCompleted:
		return "Completed"
	}
	return "Unknown"
}

// Relation classifies how two tasks sit relative to each other in the
// dependency graph.
type Relation int

const (
	// RelationUnrelated means neither task reaches the other.
	RelationUnrelated Relation = iota
	// RelationSelf means the two ids are the same task.
	RelationSelf
	// RelationDependsOn means the target transitively depends on the other.
	RelationDependsOn
	// RelationDependedOnBy means the other transitively depends on the target.
	RelationDependedOnBy
)

func (r Relation) String() string {
	switch r {
	case RelationSelf:
		return "Self"
	case RelationDependsOn:
		return "DependsOn"
	case RelationDependedOnBy:
		return "DependedOnBy"
	}
	return "Unrelated"
}

// Status derives the task's workability: Completed when a completion
// mark is present, otherwise Ready iff every dependency is transitively
// Completed, else Blocked. The derivation recurses on every call with no
// memoization; the acyclicity invariant is what keeps it finite.
// Panics when id does not exist.
func (d *Document) Status(id models.TaskID) Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.statusLocked(id)
}

func (d *Document) statusLocked(id models.TaskID) Status {
	t := d.mustTaskLocked(id)
	if t.Completed != nil {
		return StatusCompleted
	}
	for _, dep := range t.DependsOn {
		// A dependency that no longer resolves cannot block anything.
		if _, ok := d.tasks[dep]; !ok {
			continue
		}
		if d.statusLocked(dep) != StatusCompleted {
			return StatusBlocked
		}
	}
	return StatusReady
}

// Relation classifies other relative to target by testing reachability
// through dependency edges in both directions. Panics when either id
// does not exist.
func (d *Document) Relation(target, other models.TaskID) Relation {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.mustTaskLocked(target)
	d.mustTaskLocked(other)
	if target == other {
		return RelationSelf
	}
	if d.reachesLocked(target, other) {
		return RelationDependsOn
	}
	if d.reachesLocked(other, target) {
		return RelationDependedOnBy
	}
	return RelationUnrelated
}

// reachesLocked reports whether to is reachable from from by walking
// dependency edges. Stale edge targets are skipped rather than failed.
func (d *Document) reachesLocked(from, to models.TaskID) bool {
	stack := []models.TaskID{from}
	seen := map[models.TaskID]struct{}{from: {}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t, ok := d.tasks[cur]
		if !ok {
			continue
		}
		for _, dep := range t.DependsOn {
			if dep == to {
				return true
			}
			if _, visited := seen[dep]; visited {
				continue
			}
			seen[dep] = struct{}{}
			stack = append(stack, dep)
		}
	}
	return false
}

// CanAddAsChild reports whether child may be added to parent's
// dependency set without closing a cycle. Both arguments are snapshots
// and may be hypothetical: an in-flight edit not yet written back. The
// reachability search substitutes the supplied snapshots for their own
// ids so it judges the graph as the caller intends it to become.
func (d *Document) CanAddAsChild(parent, child models.Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.canAddAsChildLocked(&parent, &child)
}

func (d *Document) canAddAsChildLocked(parent, child *models.Task) bool {
	if parent.ID == child.ID {
		return false
	}
	stack := []models.TaskID{child.ID}
	seen := map[models.TaskID]struct{}{child.ID: {}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		var t *models.Task
		switch cur {
		case parent.ID:
			// Parent reachable from child: the new edge would cycle.
			return false
		case child.ID:
			t = child
		default:
			var ok bool
			t, ok = d.tasks[cur]
			if !ok {
				continue
			}
		}
		for _, dep := range t.DependsOn {
			if _, visited := seen[dep]; visited {
				continue
			}
			seen[dep] = struct{}{}
			stack = append(stack, dep)
		}
	}
	return true
}

// ParentsOf returns copies of every task whose dependency set contains
// id, ordered by id.
func (d *Document) ParentsOf(id models.TaskID) []models.Task {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.mustTaskLocked(id)
	var parents []models.Task
	for _, pid := range d.sortedIDsLocked() {
		if pid != id && d.tasks[pid].DependsOnTask(id) {
			parents = append(parents, d.tasks[pid].Clone())
		}
	}
	return parents
}

// WalkSubtree calls fn for root and every task reachable below it
// through dependency edges, together with its depth below root. Shared
// dependencies are visited once; stale edge targets are skipped.
func (d *Document) WalkSubtree(root models.TaskID, fn func(id models.TaskID, depth int)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.walkSubtreeLocked(root, map[models.TaskID]struct{}{}, fn)
}

func (d *Document) walkSubtreeLocked(root models.TaskID, seen map[models.TaskID]struct{}, fn func(id models.TaskID, depth int)) {
	type frame struct {
		id    models.TaskID
		depth int
	}
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, visited := seen[cur.id]; visited {
			continue
		}
		t, ok := d.tasks[cur.id]
		if !ok {
			continue
		}
		seen[cur.id] = struct{}{}
		fn(cur.id, cur.depth)
		for _, dep := range t.DependsOn {
			stack = append(stack, frame{dep, cur.depth + 1})
		}
	}
}

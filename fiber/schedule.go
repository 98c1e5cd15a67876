package fiber

// TaskQueue runs enqueued tasks later, one at a time, on the goroutine that
// owns the root.
type TaskQueue interface {
	Enqueue(task func())
}

// ManualQueue holds tasks until Drain is called.
type ManualQueue struct {
	tasks []func()
}

func (q *ManualQueue) Enqueue(task func()) {
	q.tasks = append(q.tasks, task)
}

func (q *ManualQueue) Len() int {
	return len(q.tasks)
}

// Drain runs tasks until none are left, including tasks enqueued while
// draining. It returns how many ran.
func (q *ManualQueue) Drain() int {
	ran := 0
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		task()
		ran++
	}
	return ran
}

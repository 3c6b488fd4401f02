package usecase

import "sync"

// Listeners is a registry of change callbacks. Callbacks run on the
// notifying goroutine in registration order.
type Listeners struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]func()
	order    []int
}

// Add registers fn and returns a function that removes it again.
func (l *Listeners) Add(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handlers == nil {
		l.handlers = make(map[int]func())
	}
	id := l.next
	l.next++
	l.handlers[id] = fn
	l.order = append(l.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *Listeners) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.handlers, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i:i], l.order[i+1:]...)
			break
		}
	}
}

// Notify calls every registered callback. It must not be called while
// holding a lock a callback may need.
func (l *Listeners) Notify() {
	l.mu.RLock()
	fns := make([]func(), 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.handlers[id])
	}
	l.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

func (l *Listeners) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

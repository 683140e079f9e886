package iot

import "sync"

type deviceLock struct {
	sync.Mutex
	refs int
}

// deviceLocker serializes work per device id. Entries are dropped once no
// goroutine holds or waits for them.
type deviceLocker struct {
	mu    sync.Mutex
	locks map[uint]*deviceLock
}

func (l *deviceLocker) Lock(deviceID uint) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[uint]*deviceLock)
	}
	dl, exists := l.locks[deviceID]
	if !exists {
		dl = &deviceLock{}
		l.locks[deviceID] = dl
	}
	dl.refs++
	l.mu.Unlock()

	dl.Lock()
	return func() {
		dl.Unlock()

		l.mu.Lock()
		defer l.mu.Unlock()
		dl.refs--
		if dl.refs == 0 {
			delete(l.locks, deviceID)
		}
	}
}

func (l *deviceLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

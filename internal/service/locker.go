package service

import (
	"CookingSecret/internal/pkg/consts"
	"context"
	"strconv"
	"sync"
)

// Locker 按键互斥，用于串行化同一 (操作, 用户, 目标) 的切换请求
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// KeyedMutex 单进程部署使用的本地锁
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedEntry)}
}

func (m *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			m.release(key, e)
		})
	}, nil
}

func (m *KeyedMutex) release(key string, e *keyedEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(m.locks, key)
	}
}

func toggleLockKey(kind string, actorID, targetID uint64) string {
	return consts.ToggleLock + kind + ":" + strconv.FormatUint(actorID, 10) + ":" + strconv.FormatUint(targetID, 10)
}

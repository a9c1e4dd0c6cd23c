package tree

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

/*
Store is an interface to manage a store
where trees can be saved, retrieved and
deleted by name.

All it methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type Store interface {
	// Save takes a name and a tree and stores the
	// tree under the name, replacing any tree
	// previously stored with it. It returns an error
	// if the tree cannot be stored.
	Save(ctx context.Context, name string, t *Tree) error
	// Get takes a name and returns the tree in the
	// store with that name (or nil if it cannot be
	// found) or an error if the store cannot be
	// queried
	Get(ctx context.Context, name string) (*Tree, error)
	// Delete takes a name and deletes the tree stored
	// with it. It returns an error if the tree exists
	// but the deletion cannot be performed.
	Delete(ctx context.Context, name string) error
	// Close closes the store, implementations should
	// free any resources in use as well as ensure
	// any pending changes are applied before returning
	// (unless the context expires). It returns an error
	// if the Close cannot be completed (because of the
	// context or another error)
	Close(ctx context.Context) error
}

type memoryStore struct {
	trees map[string]*Tree
	lock  *sync.RWMutex
}

type cachedStore struct {
	Store
	cache *lru.Cache[string, *Tree]
}

// NewMemoryStore returns an implementation
// of Store with the process memory space
// as underlying backend
func NewMemoryStore() Store {
	return &memoryStore{
		trees: make(map[string]*Tree),
		lock:  &sync.RWMutex{},
	}
}

/*
NewCachedStore takes a Store and a size and returns a Store that keeps
the last size trees retrieved or saved through it in memory, so that
getting them again does not reach the given store.
*/
func NewCachedStore(s Store, size int) (Store, error) {
	cache, err := lru.New[string, *Tree](size)
	if err != nil {
		return nil, fmt.Errorf("creating tree cache: %v", err)
	}
	return &cachedStore{s, cache}, nil
}

func (ms *memoryStore) Save(ctx context.Context, name string, t *Tree) error {
	if t == nil {
		return fmt.Errorf("cannot save nil tree %q", name)
	}
	return ms.withLock(ctx, func(ctx context.Context) error {
		ms.trees[name] = t
		return nil
	})
}

func (ms *memoryStore) Get(ctx context.Context, name string) (*Tree, error) {
	var t *Tree
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		t = ms.trees[name]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (ms *memoryStore) Delete(ctx context.Context, name string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		delete(ms.trees, name)
		return nil
	})
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}

func (ms *memoryStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		ms.lock.Lock()
		select {
		case <-ctx.Done():
			ms.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.Unlock()
	}
	return f(ctx)
}

func (ms *memoryStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		ms.lock.RLock()
		select {
		case <-ctx.Done():
			ms.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.RUnlock()
	}
	return f(ctx)
}

func (cs *cachedStore) Save(ctx context.Context, name string, t *Tree) error {
	err := cs.Store.Save(ctx, name, t)
	if err != nil {
		cs.cache.Remove(name)
		return err
	}
	cs.cache.Add(name, t)
	return nil
}

func (cs *cachedStore) Get(ctx context.Context, name string) (*Tree, error) {
	if t, ok := cs.cache.Get(name); ok {
		return t, nil
	}
	t, err := cs.Store.Get(ctx, name)
	if err != nil || t == nil {
		return t, err
	}
	cs.cache.Add(name, t)
	return t, nil
}

func (cs *cachedStore) Delete(ctx context.Context, name string) error {
	cs.cache.Remove(name)
	return cs.Store.Delete(ctx, name)
}

func (cs *cachedStore) Close(ctx context.Context) error {
	cs.cache.Purge()
	return cs.Store.Close(ctx)
}

package memory

import (
	"context"
	"sync"
)

type txStateKey struct{}

type txState struct {
	held    map[string]bool
	unlocks []func()
	undo    []func()
}

// TxManager scopes key locks to a unit of work, the way transaction-level
// advisory locks behave in PostgreSQL. When fn fails, the writes made through
// the memory repositories inside it are undone in reverse order.
type TxManager struct{}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txStateKey{}).(*txState); ok {
		return fn(ctx)
	}

	state := &txState{held: make(map[string]bool)}
	defer func() {
		for i := len(state.unlocks) - 1; i >= 0; i-- {
			state.unlocks[i]()
		}
	}()

	err := fn(context.WithValue(ctx, txStateKey{}, state))
	if err != nil {
		for i := len(state.undo) - 1; i >= 0; i-- {
			state.undo[i]()
		}
	}
	return err
}

// onRollback registers undo to run if the unit of work in ctx fails. Outside
// a unit of work writes are final and undo is dropped.
func onRollback(ctx context.Context, undo func()) {
	if state, ok := ctx.Value(txStateKey{}).(*txState); ok {
		state.undo = append(state.undo, undo)
	}
}

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

// lock holds key until the unit of work in ctx ends. Outside a unit of work
// it is released at once. Locking a key twice in one unit of work is a no-op.
func (k *keyedMutex) lock(ctx context.Context, key string) error {
	state, ok := ctx.Value(txStateKey{}).(*txState)
	if ok && state.held[key] {
		return nil
	}

	l := k.get(key)
	done := make(chan struct{})
	go func() {
		l.Lock()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// release the lock once the pending acquisition completes
		go func() {
			<-done
			l.Unlock()
		}()
		return ctx.Err()
	}

	if !ok {
		l.Unlock()
		return nil
	}
	state.held[key] = true
	state.unlocks = append(state.unlocks, l.Unlock)
	return nil
}

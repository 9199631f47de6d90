package nano

import (
	"fmt"
	"sync"
)

// accountMutex hands out one mutex per account address, so only one
// goroutine at a time can extend a given account chain.
type accountMutex struct {
	// mutexes maps an address to the mutex shared by all callers
	// interested in it, plus the number of those callers.
	mutexes map[string]*cntMutex

	mapMtx sync.Mutex
}

type cntMutex struct {
	cnt int
	sync.Mutex
}

func newAccountMutex() *accountMutex {
	return &accountMutex{
		mutexes: make(map[string]*cntMutex),
	}
}

// Lock blocks until the chain of address is free.
func (c *accountMutex) Lock(address string) {
	c.mapMtx.Lock()
	mtx, ok := c.mutexes[address]
	if ok {
		mtx.cnt++
	} else {
		mtx = &cntMutex{cnt: 1}
		c.mutexes[address] = mtx
	}
	c.mapMtx.Unlock()

	mtx.Lock()
}

// Unlock releases address. It panics if address is not locked.
func (c *accountMutex) Unlock(address string) {
	c.mapMtx.Lock()

	mtx, ok := c.mutexes[address]
	if !ok {
		panic(fmt.Sprintf("double unlock for account %v", address))
	}

	// The last waiter removes the entry. Anyone arriving later creates a
	// fresh one under mapMtx.
	mtx.cnt--
	if mtx.cnt == 0 {
		delete(c.mutexes, address)
	}
	c.mapMtx.Unlock()

	mtx.Unlock()
}

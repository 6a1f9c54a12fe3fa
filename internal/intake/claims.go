package intake

import "sync"

// AddressClaims serializes pipeline work per mint address. Intake claims an
// address while admitting it and the resolver claims it while resolving, so
// at most one goroutine touches a given address at a time.
type AddressClaims struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewAddressClaims creates an empty claim set.
func NewAddressClaims() *AddressClaims {
	return &AddressClaims{active: make(map[string]struct{})}
}

// TryClaim attempts to claim the address. Returns false if another worker
// already holds it.
func (c *AddressClaims) TryClaim(address string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, held := c.active[address]; held {
		return false
	}
	c.active[address] = struct{}{}
	return true
}

// Release frees a claimed address. Releasing an unclaimed address is a no-op.
func (c *AddressClaims) Release(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.active, address)
}

package mem

import (
	"context"
	"sync"

	wt "payflow/wallet/wallet"
)

// inMemoryDirectory is an in-memory implementation of wallet.Directory,
// used in dev mode and in tests.
type inMemoryDirectory struct {
	mu      sync.RWMutex
	methods map[string][]wt.Method
}

// NewInMemoryDirectory creates a directory seeded with the given methods per customer.
func NewInMemoryDirectory() *inMemoryDirectory {
	return &inMemoryDirectory{
		methods: make(map[string][]wt.Method),
	}
}

// AddMethod registers a payment method for a customer.
func (d *inMemoryDirectory) AddMethod(customerID string, m wt.Method) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.methods[customerID] = append(d.methods[customerID], m)
}

// ListMethods returns the wallet-balance sentinel followed by the customer's
// registered methods.
func (d *inMemoryDirectory) ListMethods(_ context.Context, customerID string) ([]wt.Method, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := []wt.Method{{
		ID:      wt.Balance,
		Label:   "Wallet balance",
		Channel: wt.ChannelWallet,
	}}
	result = append(result, d.methods[customerID]...)
	return result, nil
}

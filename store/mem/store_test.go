package mem_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"payflow/store/mem"
	st "payflow/store/store"
)

func setupTest() st.IntentStore {
	return mem.NewInMemoryIntentStore()
}

func TestConsume(t *testing.T) {
	store := setupTest()
	ctx := context.Background()

	// Test 1: Successfully consume a fresh reference
	err := store.Consume(ctx, "ref_1", st.OutcomeDispatched)
	assert.NoError(t, err, "Consume should not return an error for a fresh reference")

	consumed, err := store.Consumed(ctx, "ref_1")
	assert.NoError(t, err)
	assert.True(t, consumed)

	// Test 2: Consuming the same reference again must fail
	err = store.Consume(ctx, "ref_1", st.OutcomeCancelled)
	assert.ErrorIs(t, err, st.ErrAlreadyConsumed, "a reference is single-use")
}

func TestConsumed(t *testing.T) {
	store := setupTest()
	ctx := context.Background()

	consumed, err := store.Consumed(ctx, "unknown")
	assert.NoError(t, err)
	assert.False(t, consumed, "an unseen reference is not consumed")

	assert.NoError(t, store.Consume(ctx, "ref_2", st.OutcomeCancelled))
	consumed, err = store.Consumed(ctx, "ref_2")
	assert.NoError(t, err)
	assert.True(t, consumed)
}

func TestConsumeConcurrent(t *testing.T) {
	store := setupTest()
	ctx := context.Background()

	// Exactly one of N concurrent consumers may win.
	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Consume(ctx, "ref_race", st.OutcomeDispatched)
		}()
	}
	wg.Wait()
	close(errs)

	var wins int
	for err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, st.ErrAlreadyConsumed)
		}
	}
	assert.Equal(t, 1, wins, "exactly one consumer may spend a reference")
}

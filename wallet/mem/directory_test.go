package mem_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"payflow/wallet/mem"
	wt "payflow/wallet/wallet"
)

func TestListMethodsSentinelFirst(t *testing.T) {
	dir := mem.NewInMemoryDirectory()
	dir.AddMethod("cus_1", wt.Method{ID: "fs_1", Label: "Visa •1234", Channel: wt.ChannelCard, Last4: "1234", Default: true})
	dir.AddMethod("cus_1", wt.Method{ID: "fs_2", Label: "MTN MoMo", Channel: wt.ChannelMobileMoney})

	methods, err := dir.ListMethods(context.Background(), "cus_1")
	assert.NoError(t, err)
	assert.Len(t, methods, 3)
	assert.Equal(t, wt.Balance, methods[0].ID, "wallet-balance sentinel must be listed first")
	assert.True(t, methods[0].ID.IsWallet())
	assert.Equal(t, wt.FundingSource("fs_1"), methods[1].ID)
}

func TestListMethodsUnknownCustomer(t *testing.T) {
	dir := mem.NewInMemoryDirectory()

	methods, err := dir.ListMethods(context.Background(), "cus_unknown")
	assert.NoError(t, err)
	assert.Len(t, methods, 1, "even an unknown customer sees the wallet sentinel")
	assert.Equal(t, wt.Balance, methods[0].ID)
}

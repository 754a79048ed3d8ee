package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletly/internal/store"
)

func TestSet_AssignsIDAndMerges(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	id, err := st.Set(ctx, "wallets", "", map[string]any{"name": "Cash", "amount": float64(10)})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Merge write keeps fields it does not mention.
	_, err = st.Set(ctx, "wallets", id, map[string]any{"name": "Daily"})
	require.NoError(t, err)

	doc, err := st.Get(ctx, "wallets", id)
	require.NoError(t, err)
	assert.Equal(t, "Daily", doc.Fields["name"])
	assert.Equal(t, float64(10), doc.Fields["amount"])
}

func TestGet_Absent(t *testing.T) {
	st := store.NewMemory()

	_, err := st.Get(context.Background(), "wallets", "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdate_PartialAndAbsent(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	id, err := st.Set(ctx, "wallets", "", map[string]any{"amount": float64(5), "name": "Cash"})
	require.NoError(t, err)

	require.NoError(t, st.Update(ctx, "wallets", id, map[string]any{"amount": float64(7)}))
	doc, err := st.Get(ctx, "wallets", id)
	require.NoError(t, err)
	assert.Equal(t, float64(7), doc.Fields["amount"])
	assert.Equal(t, "Cash", doc.Fields["name"])

	assert.ErrorIs(t, st.Update(ctx, "wallets", "ghost", map[string]any{"amount": float64(1)}), store.ErrNotFound)
}

func TestDelete_AbsentIsNoError(t *testing.T) {
	st := store.NewMemory()
	assert.NoError(t, st.Delete(context.Background(), "wallets", "ghost"))
}

func TestQuery_FilterOrderLimit(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := st.Set(ctx, "transactions", "", map[string]any{
			"walletId": "w1",
			"date":     base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := st.Set(ctx, "transactions", "", map[string]any{"walletId": "w2", "date": base})
	require.NoError(t, err)

	docs, err := st.Query(ctx, "transactions", store.Query{
		Filters: []store.Filter{{Field: "walletId", Value: "w1"}},
		OrderBy: "date",
		Desc:    true,
		Limit:   3,
	})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, base.Add(4*time.Hour), docs[0].Fields["date"])
	assert.Equal(t, base.Add(2*time.Hour), docs[2].Fields["date"])
}

func TestQuery_NoMatch(t *testing.T) {
	st := store.NewMemory()

	docs, err := st.Query(context.Background(), "transactions", store.Query{
		Filters: []store.Filter{{Field: "walletId", Value: "ghost"}},
	})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestBatchDelete(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := st.Set(ctx, "transactions", "", map[string]any{"walletId": "w1"})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	keep, err := st.Set(ctx, "transactions", "", map[string]any{"walletId": "w2"})
	require.NoError(t, err)

	require.NoError(t, st.BatchDelete(ctx, "transactions", ids))

	for _, id := range ids {
		_, err := st.Get(ctx, "transactions", id)
		assert.ErrorIs(t, err, store.ErrNotFound)
	}
	_, err = st.Get(ctx, "transactions", keep)
	assert.NoError(t, err)
}

package utils

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/aidchain/chaintest"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/store"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	db := store.MemStore()
	tx := &chaintest.Tx{Msg: &chaintest.Msg{RoutePath: "aidescrow/fund"}}

	_, err = m.Deliver(ctx, db, tx, &chaintest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, tx, &chaintest.Handler{})
	require.NoError(t, err)
	_, err = m.Check(ctx, db, tx, &chaintest.Handler{CheckErr: errors.ErrUnauthorized})
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.processed.WithLabelValues("aidescrow/fund", "deliver", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.processed.WithLabelValues("aidescrow/fund", "check", "2")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.processed))

	// Registering the same collectors twice is not possible.
	_, err = NewMetrics(reg)
	assert.True(t, errors.ErrDuplicate.Is(err))

	// Without a registerer, metrics are still collected.
	_, err = NewMetrics(nil)
	assert.NoError(t, err)
}

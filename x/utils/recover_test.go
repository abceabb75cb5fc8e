package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/store"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()

	var logs bytes.Buffer
	logger, err := aidchain.NewLogger(&logs, "error")
	require.NoError(t, err)
	ctx := aidchain.WithLogger(context.Background(), logger)
	s := store.MemStore()

	assert.Panics(t, func() { _, _ = h.Check(ctx, s, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, s, nil) })

	_, err = r.Check(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, logs.String(), "phase=check")

	_, err = r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, logs.String(), "phase=deliver")
}

func TestRecoveryPassesThrough(t *testing.T) {
	r := NewRecovery()
	h := writeHandler{key: []byte("k"), value: []byte("v"), err: errors.ErrState}

	_, err := r.Deliver(context.Background(), store.MemStore(), nil, h)
	assert.True(t, errors.ErrState.Is(err))
	assert.False(t, errors.ErrPanic.Is(err))
}

package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/chaintest"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/store"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger, err := aidchain.NewLogger(&buf, "info")
	require.NoError(t, err)

	ctx := aidchain.WithLogger(context.Background(), logger)
	db := store.MemStore()
	tx := &chaintest.Tx{Msg: &chaintest.Msg{RoutePath: "aidescrow/claim"}}
	l := NewLogging()

	// Successful checks are logged with the debug level only.
	_, err = l.Check(ctx, db, tx, &chaintest.Handler{CheckResult: aidchain.CheckResult{Log: "checked"}})
	require.NoError(t, err)
	assert.Equal(t, "", buf.String())

	_, err = l.Deliver(ctx, db, tx, &chaintest.Handler{DeliverResult: aidchain.DeliverResult{Log: "delivered"}})
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "I["), out)
	assert.True(t, strings.Contains(out, "delivered"), out)
	assert.True(t, strings.Contains(out, "path=aidescrow/claim"), out)

	buf.Reset()
	_, err = l.Check(ctx, db, tx, &chaintest.Handler{CheckErr: errors.ErrUnauthorized})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	out = buf.String()
	assert.True(t, strings.HasPrefix(out, "E["), out)
	assert.True(t, strings.Contains(out, "err=unauthorized"), out)
}

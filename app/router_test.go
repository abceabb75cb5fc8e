package app

import (
	"context"
	"testing"

	"github.com/iov-one/aidchain/chaintest"
	"github.com/iov-one/aidchain/chaintest/assert"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/store"
)

func TestRouterDispatch(t *testing.T) {
	var (
		foo = &chaintest.Handler{}
		bar = &chaintest.Handler{DeliverErr: errors.ErrAmount}
	)
	r := NewRouter()
	r.Handle(&chaintest.Msg{RoutePath: "test/foo"}, foo)
	r.Handle(&chaintest.Msg{RoutePath: "test/bar"}, bar)

	ctx := context.Background()
	db := store.MemStore()

	_, err := r.Deliver(ctx, db, &chaintest.Tx{Msg: &chaintest.Msg{RoutePath: "test/foo"}})
	assert.Nil(t, err)
	assert.Equal(t, 1, foo.DeliverCallCount())
	assert.Equal(t, 0, bar.CallCount())

	_, err = r.Deliver(ctx, db, &chaintest.Tx{Msg: &chaintest.Msg{RoutePath: "test/bar"}})
	assert.IsErr(t, errors.ErrAmount, err)

	_, err = r.Check(ctx, db, &chaintest.Tx{Msg: &chaintest.Msg{RoutePath: "test/bar"}})
	assert.Nil(t, err)
	assert.Equal(t, 1, bar.CheckCallCount())
}

func TestRouterErrors(t *testing.T) {
	r := NewRouter()
	r.Handle(&chaintest.Msg{RoutePath: "test/foo"}, &chaintest.Handler{})

	ctx := context.Background()
	db := store.MemStore()

	_, err := r.Check(ctx, db, &chaintest.Tx{Msg: &chaintest.Msg{RoutePath: "test/unknown"}})
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Deliver(ctx, db, &chaintest.Tx{})
	assert.IsErr(t, errors.ErrMsg, err)

	_, err = r.Deliver(ctx, db, &chaintest.Tx{Err: errors.ErrType})
	assert.IsErr(t, errors.ErrType, err)
}

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle(&chaintest.Msg{RoutePath: "test/foo"}, &chaintest.Handler{})

	assert.Panics(t, func() {
		r.Handle(&chaintest.Msg{RoutePath: "test/foo"}, &chaintest.Handler{})
	})
	assert.Panics(t, func() {
		r.Handle(&chaintest.Msg{RoutePath: "Invalid Path"}, &chaintest.Handler{})
	})
	assert.Panics(t, func() {
		r.Handle(&chaintest.Msg{RoutePath: "nopath"}, &chaintest.Handler{})
	})
}

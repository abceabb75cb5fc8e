package aidchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/chaintest"
	"github.com/iov-one/aidchain/errors"
)

func TestLoadMsg(t *testing.T) {
	msg := &chaintest.Msg{RoutePath: "test/load", Serialized: []byte("data")}
	tx := &chaintest.Tx{Msg: msg}

	var byValue chaintest.Msg
	require.NoError(t, aidchain.LoadMsg(tx, &byValue))
	assert.Equal(t, *msg, byValue)

	var byPointer *chaintest.Msg
	require.NoError(t, aidchain.LoadMsg(tx, &byPointer))
	assert.Equal(t, msg, byPointer)

	var wrong struct{ aidchain.Msg }
	err := aidchain.LoadMsg(tx, &wrong)
	assert.True(t, errors.ErrType.Is(err))

	err = aidchain.LoadMsg(tx, byValue)
	assert.True(t, errors.ErrType.Is(err))

	err = aidchain.LoadMsg(&chaintest.Tx{}, &byValue)
	assert.True(t, errors.ErrMsg.Is(err))

	invalid := &chaintest.Tx{Msg: &chaintest.Msg{RoutePath: "test/load", Err: errors.ErrInput}}
	err = aidchain.LoadMsg(invalid, &byValue)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "test/path", aidchain.GetPath(&chaintest.Tx{Msg: &chaintest.Msg{RoutePath: "test/path"}}))
	assert.Equal(t, "(missing)", aidchain.GetPath(&chaintest.Tx{}))
	assert.True(t, aidchain.IsValidPath("aidescrow/create_package"))
	assert.False(t, aidchain.IsValidPath("Aidescrow/claim"))
}

package aidescrow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/chaintest"
	"github.com/iov-one/aidchain/coin"
)

func TestEventsHaveClosedFieldSets(t *testing.T) {
	admin := chaintest.NewCondition()
	recipient := chaintest.NewCondition()
	f := newFixture(t)
	f.mustDeliver(&InitMsg{Metadata: meta(), Admin: admin.Address()}, admin)
	f.issue(admin, 5000, "TKX")

	steps := []struct {
		msg    aidchain.Msg
		signer aidchain.Condition
		topic  string
		actor  aidchain.Address
	}{
		{
			msg:    &FundMsg{Metadata: meta(), From: admin.Address(), Amount: coin.NewCoin(5000, "TKX")},
			signer: admin,
			topic:  TopicEscrowFunded,
		},
		{msg: f.createMsg(1, recipient, 100, "TKX", time.Hour), signer: admin, topic: TopicPackageCreated, actor: admin.Address()},
		{msg: &ClaimMsg{Metadata: meta(), PackageID: 1}, signer: recipient, topic: TopicPackageClaimed, actor: recipient.Address()},
		{msg: &DisburseMsg{Metadata: meta(), PackageID: 1}, signer: admin, topic: TopicPackageDisbursed, actor: admin.Address()},
		{msg: f.createMsg(2, recipient, 200, "TKX", time.Hour), signer: admin, topic: TopicPackageCreated, actor: admin.Address()},
		{msg: &RevokeMsg{Metadata: meta(), PackageID: 2}, signer: admin, topic: TopicPackageRevoked, actor: admin.Address()},
		{msg: f.createMsg(3, recipient, 300, "TKX", time.Second), signer: admin, topic: TopicPackageCreated, actor: admin.Address()},
	}
	for _, s := range steps {
		res := f.mustDeliver(s.msg, s.signer)
		require.Len(t, res.Events, 1, s.topic)
		assertEvent(t, f, res.Events[0], s.topic, s.actor)
	}

	f.advance(time.Minute)
	res := f.mustDeliver(&RefundMsg{Metadata: meta(), PackageID: 3}, admin)
	require.Len(t, res.Events, 1)
	assertEvent(t, f, res.Events[0], TopicPackageRefunded, admin.Address())

	amount, _ := res.Events[0].Get("amount")
	assert.Equal(t, "300", amount)
	id, _ := res.Events[0].Get("package_id")
	assert.Equal(t, "3", id)
	who, _ := res.Events[0].Get("recipient")
	assert.Equal(t, recipient.Address().String(), who)
}

func assertEvent(t *testing.T, f *fixture, e aidchain.Event, topic string, actor aidchain.Address) {
	t.Helper()
	assert.Equal(t, topic, e.Topic)
	assert.Equal(t, EventFields[topic], e.Keys())
	require.NoError(t, e.Validate())

	ts, ok := e.Get("timestamp")
	assert.True(t, ok)
	assert.Equal(t, f.unixNow().Decimal(), ts)
	if actor != nil {
		got, _ := e.Get("actor")
		assert.Equal(t, actor.String(), got)
	}
}

func TestNoEventsOnFailure(t *testing.T) {
	admin := chaintest.NewCondition()
	f := newFixture(t)
	f.setup(admin, 10, "TKX")

	res, err := f.deliver(&DisburseMsg{Metadata: meta(), PackageID: 1}, admin)
	assert.True(t, ErrPackageNotFound.Is(err))
	assert.Nil(t, res)
}

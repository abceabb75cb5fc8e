package aidescrow

import (
	"testing"
	"time"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/chaintest"
	"github.com/iov-one/aidchain/chaintest/assert"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/x/cash"
)

const day = 24 * time.Hour

func TestHappyPath(t *testing.T) {
	admin := chaintest.NewCondition()
	recipient := chaintest.NewCondition()
	f := newFixture(t)
	f.setup(admin, 10000, "TKX")

	assert.Equal(t, coin.NewAmount(10000), f.balance("TKX").Balance)
	assert.Equal(t, coin.NewAmount(10000), f.wallet(CustodyAddress, "TKX"))

	res := f.mustDeliver(f.createMsg(42, recipient, 1000, "TKX", day), admin)
	assert.Equal(t, PackageKey(42), res.Data)
	assert.Equal(t, PackageCreated, f.state(42))
	assert.Equal(t, coin.NewAmount(1000), f.balance("TKX").Reserved)

	f.mustDeliver(&ClaimMsg{Metadata: meta(), PackageID: 42}, recipient)
	assert.Equal(t, PackageClaimed, f.state(42))

	f.mustDeliver(&DisburseMsg{Metadata: meta(), PackageID: 42}, admin)
	assert.Equal(t, PackageDisbursed, f.state(42))

	bal := f.balance("TKX")
	assert.Equal(t, coin.NewAmount(9000), bal.Balance)
	assert.Equal(t, coin.NewAmount(0), bal.Reserved)
	assert.Equal(t, coin.NewAmount(1000), f.wallet(recipient.Address(), "TKX"))
	assert.Equal(t, coin.NewAmount(9000), f.wallet(CustodyAddress, "TKX"))
}

func TestDisburseWithoutClaim(t *testing.T) {
	admin := chaintest.NewCondition()
	recipient := chaintest.NewCondition()
	f := newFixture(t)
	f.setup(admin, 500, "TKX")

	f.mustDeliver(f.createMsg(1, recipient, 500, "TKX", day), admin)
	f.mustDeliver(&DisburseMsg{Metadata: meta(), PackageID: 1}, admin)
	assert.Equal(t, PackageDisbursed, f.state(1))
	assert.Equal(t, coin.NewAmount(500), f.wallet(recipient.Address(), "TKX"))
}

func TestExpiryRefund(t *testing.T) {
	admin := chaintest.NewCondition()
	recipient := chaintest.NewCondition()
	f := newFixture(t)
	f.setup(admin, 10000, "TKX")

	f.mustDeliver(f.createMsg(0, recipient, 1000, "TKX", time.Second), admin)

	_, err := f.deliver(&RefundMsg{Metadata: meta(), PackageID: 0}, admin)
	assert.IsErr(t, ErrNotYetExpired, err)

	f.advance(2 * time.Second)

	_, err = f.deliver(&ClaimMsg{Metadata: meta(), PackageID: 0}, recipient)
	assert.IsErr(t, ErrPackageExpired, err)
	_, err = f.deliver(&DisburseMsg{Metadata: meta(), PackageID: 0}, admin)
	assert.IsErr(t, ErrPackageExpired, err)

	f.mustDeliver(&RefundMsg{Metadata: meta(), PackageID: 0}, admin)
	assert.Equal(t, PackageRefunded, f.state(0))

	bal := f.balance("TKX")
	assert.Equal(t, coin.NewAmount(10000), bal.Balance)
	assert.Equal(t, coin.NewAmount(0), bal.Reserved)
	assert.Equal(t, coin.NewAmount(10000), f.wallet(CustodyAddress, "TKX"))
}

func TestExpiryIsInclusive(t *testing.T) {
	admin := chaintest.NewCondition()
	recipient := chaintest.NewCondition()
	f := newFixture(t)
	f.setup(admin, 100, "TKX")

	f.mustDeliver(f.createMsg(7, recipient, 100, "TKX", time.Minute), admin)
	f.advance(time.Minute)

	_, err := f.deliver(&ClaimMsg{Metadata: meta(), PackageID: 7}, recipient)
	assert.IsErr(t, ErrPackageExpired, err)
	f.mustDeliver(&RefundMsg{Metadata: meta(), PackageID: 7}, admin)
}

func TestRevokeBeforeClaim(t *testing.T) {
	admin := chaintest.NewCondition()
	recipient := chaintest.NewCondition()
	f := newFixture(t)
	f.setup(admin, 10000, "TKX")

	f.mustDeliver(f.createMsg(0, recipient, 1000, "TKX", day), admin)
	f.mustDeliver(&RevokeMsg{Metadata: meta(), PackageID: 0}, admin)
	assert.Equal(t, PackageRevoked, f.state(0))
	assert.Equal(t, coin.NewAmount(0), f.balance("TKX").Reserved)
	assert.Equal(t, coin.NewAmount(10000), f.balance("TKX").Balance)

	_, err := f.deliver(&ClaimMsg{Metadata: meta(), PackageID: 0}, recipient)
	assert.IsErr(t, ErrInvalidPackageState, err)
	_, err = f.deliver(&DisburseMsg{Metadata: meta(), PackageID: 0}, admin)
	assert.IsErr(t, ErrInvalidPackageState, err)
	_, err = f.deliver(&RefundMsg{Metadata: meta(), PackageID: 0}, admin)
	assert.IsErr(t, ErrInvalidPackageState, err)
	assert.Equal(t, PackageRevoked, f.state(0))
}

func TestRevokeAfterExpiry(t *testing.T) {
	admin := chaintest.NewCondition()
	recipient := chaintest.NewCondition()
	f := newFixture(t)
	f.setup(admin, 1000, "TKX")

	f.mustDeliver(f.createMsg(3, recipient, 1000, "TKX", time.Hour), admin)
	f.mustDeliver(&ClaimMsg{Metadata: meta(), PackageID: 3}, recipient)
	f.advance(2 * time.Hour)
	f.mustDeliver(&RevokeMsg{Metadata: meta(), PackageID: 3}, admin)
	assert.Equal(t, PackageRevoked, f.state(3))
}

func TestOverCommitmentRejected(t *testing.T) {
	admin := chaintest.NewCondition()
	recipient := chaintest.NewCondition()
	f := newFixture(t)
	f.setup(admin, 1000, "TKX")

	_, err := f.deliver(f.createMsg(0, recipient, 1500, "TKX", day), admin)
	assert.IsErr(t, ErrInsufficientEscrowBalance, err)

	// Reserved funds are not available for new packages.
	f.mustDeliver(f.createMsg(1, recipient, 600, "TKX", day), admin)
	_, err = f.deliver(f.createMsg(2, recipient, 500, "TKX", day), admin)
	assert.IsErr(t, ErrInsufficientEscrowBalance, err)
	f.mustDeliver(f.createMsg(2, recipient, 400, "TKX", day), admin)

	// Released reservations become available again.
	f.mustDeliver(&RevokeMsg{Metadata: meta(), PackageID: 1}, admin)
	f.mustDeliver(f.createMsg(3, recipient, 600, "TKX", day), admin)

	// Unfunded asset.
	_, err = f.deliver(f.createMsg(4, recipient, 1, "OTH", day), admin)
	assert.IsErr(t, ErrInsufficientEscrowBalance, err)
}

func TestDuplicatePackageRejected(t *testing.T) {
	admin := chaintest.NewCondition()
	first := chaintest.NewCondition()
	second := chaintest.NewCondition()
	f := newFixture(t)
	f.setup(admin, 10000, "TKX")

	f.mustDeliver(f.createMsg(5, first, 1000, "TKX", day), admin)
	f.mustDeliver(&ClaimMsg{Metadata: meta(), PackageID: 5}, first)

	_, err := f.deliver(f.createMsg(5, second, 200, "TKX", 2*day), admin)
	assert.IsErr(t, ErrDuplicatePackage, err)

	p, err := f.ctrl.Package(f.db, 5)
	assert.Nil(t, err)
	assert.Equal(t, PackageClaimed, p.State)
	assert.Equal(t, first.Address(), p.Recipient)
	assert.Equal(t, coin.NewCoin(1000, "TKX"), p.Amount)
	assert.Equal(t, coin.NewAmount(1000), f.balance("TKX").Reserved)
}

func TestHandlerErrors(t *testing.T) {
	admin := chaintest.NewCondition()
	recipient := chaintest.NewCondition()
	stranger := chaintest.NewCondition()

	cases := map[string]struct {
		// init creates the escrow funded with 1000 TKX and a package with
		// ID 1 for the recipient.
		init    bool
		signers []aidchain.Condition
		msg     func(f *fixture) aidchain.Msg
		wantErr *errors.Error
	}{
		"init twice": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return &InitMsg{Metadata: meta(), Admin: admin.Address()}
			},
			wantErr: ErrAlreadyInitialized,
		},
		"init without admin signature": {
			signers: []aidchain.Condition{stranger},
			msg: func(f *fixture) aidchain.Msg {
				return &InitMsg{Metadata: meta(), Admin: admin.Address()}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"fund before init": {
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return &FundMsg{Metadata: meta(), From: admin.Address(), Amount: coin.NewCoin(1, "TKX")}
			},
			wantErr: ErrNotInitialized,
		},
		"fund zero": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return &FundMsg{Metadata: meta(), From: admin.Address(), Amount: coin.NewCoin(0, "TKX")}
			},
			wantErr: errors.ErrInvalidAmount,
		},
		"fund zero by stranger": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return &FundMsg{Metadata: meta(), From: stranger.Address(), Amount: coin.NewCoin(0, "TKX")}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"fund without funder signature": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return &FundMsg{Metadata: meta(), From: stranger.Address(), Amount: coin.NewCoin(1, "TKX")}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"fund more than owned": {
			init:    true,
			signers: []aidchain.Condition{stranger},
			msg: func(f *fixture) aidchain.Msg {
				return &FundMsg{Metadata: meta(), From: stranger.Address(), Amount: coin.NewCoin(1, "TKX")}
			},
			wantErr: cash.ErrInsufficientFunds,
		},
		"create by non admin": {
			init:    true,
			signers: []aidchain.Condition{recipient},
			msg: func(f *fixture) aidchain.Msg {
				return f.createMsg(2, recipient, 10, "TKX", day)
			},
			wantErr: errors.ErrUnauthorized,
		},
		"create zero amount": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return f.createMsg(2, recipient, 0, "TKX", day)
			},
			wantErr: errors.ErrInvalidAmount,
		},
		"create zero amount by non admin": {
			init:    true,
			signers: []aidchain.Condition{recipient},
			msg: func(f *fixture) aidchain.Msg {
				return f.createMsg(2, recipient, 0, "TKX", day)
			},
			wantErr: errors.ErrUnauthorized,
		},
		"create duplicate with zero amount": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return f.createMsg(1, recipient, 0, "TKX", -time.Hour)
			},
			wantErr: ErrDuplicatePackage,
		},
		"create zero amount already expired": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return f.createMsg(2, recipient, 0, "TKX", -time.Hour)
			},
			wantErr: errors.ErrInvalidAmount,
		},
		"create expiring now": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return f.createMsg(2, recipient, 10, "TKX", 0)
			},
			wantErr: ErrInvalidExpiry,
		},
		"create expired": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return f.createMsg(2, recipient, 10, "TKX", -time.Hour)
			},
			wantErr: ErrInvalidExpiry,
		},
		"create before init": {
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return f.createMsg(2, recipient, 10, "TKX", day)
			},
			wantErr: ErrNotInitialized,
		},
		"claim by stranger": {
			init:    true,
			signers: []aidchain.Condition{stranger},
			msg: func(f *fixture) aidchain.Msg {
				return &ClaimMsg{Metadata: meta(), PackageID: 1}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"claim by admin": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return &ClaimMsg{Metadata: meta(), PackageID: 1}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"claim missing package": {
			init:    true,
			signers: []aidchain.Condition{recipient},
			msg: func(f *fixture) aidchain.Msg {
				return &ClaimMsg{Metadata: meta(), PackageID: 99}
			},
			wantErr: ErrPackageNotFound,
		},
		"disburse by recipient": {
			init:    true,
			signers: []aidchain.Condition{recipient},
			msg: func(f *fixture) aidchain.Msg {
				return &DisburseMsg{Metadata: meta(), PackageID: 1}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"disburse missing package": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return &DisburseMsg{Metadata: meta(), PackageID: 99}
			},
			wantErr: ErrPackageNotFound,
		},
		"revoke by recipient": {
			init:    true,
			signers: []aidchain.Condition{recipient},
			msg: func(f *fixture) aidchain.Msg {
				return &RevokeMsg{Metadata: meta(), PackageID: 1}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"refund by stranger": {
			init:    true,
			signers: []aidchain.Condition{stranger},
			msg: func(f *fixture) aidchain.Msg {
				return &RefundMsg{Metadata: meta(), PackageID: 1}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"refund missing package": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return &RefundMsg{Metadata: meta(), PackageID: 99}
			},
			wantErr: ErrPackageNotFound,
		},
		"migrate by stranger": {
			init:    true,
			signers: []aidchain.Condition{stranger},
			msg: func(f *fixture) aidchain.Msg {
				return &MigrateMsg{Metadata: meta(), NewVersion: 2}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"migrate backwards by stranger": {
			init:    true,
			signers: []aidchain.Condition{stranger},
			msg: func(f *fixture) aidchain.Msg {
				return &MigrateMsg{Metadata: meta(), NewVersion: 0}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"migrate to the current version": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return &MigrateMsg{Metadata: meta(), NewVersion: 1}
			},
			wantErr: ErrInvalidVersion,
		},
		"message without metadata": {
			init:    true,
			signers: []aidchain.Condition{admin},
			msg: func(f *fixture) aidchain.Msg {
				return &RevokeMsg{PackageID: 1}
			},
			wantErr: errors.ErrMetadata,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.init {
				f.setup(admin, 1000, "TKX")
				f.mustDeliver(f.createMsg(1, recipient, 100, "TKX", day), admin)
			}
			before := snapshot(t, f)

			msg := tc.msg(f)
			res, err := f.deliver(msg, tc.signers...)
			assert.IsErr(t, tc.wantErr, err)
			if res != nil {
				t.Fatalf("unexpected result %+v", res)
			}

			// A failed operation must not change the state.
			assert.Equal(t, before, snapshot(t, f))
		})
	}
}

func TestFailedFundHasNoEffect(t *testing.T) {
	admin := chaintest.NewCondition()
	f := newFixture(t)
	f.setup(admin, 0, "")

	// Check is skipped so that the transfer failure surfaces from deliver.
	h := f.routes[FundMsg{}.Path()]
	tx := &chaintest.Tx{Msg: &FundMsg{Metadata: meta(), From: admin.Address(), Amount: coin.NewCoin(10, "TKX")}}
	_, err := h.Deliver(f.ctx(admin), f.db, tx)
	assert.IsErr(t, cash.ErrEmptyAccount, err)

	assert.Equal(t, coin.Amount{}, f.balance("TKX").Balance)
	assert.Equal(t, coin.Amount{}, f.wallet(CustodyAddress, "TKX"))
}

// snapshot returns all persisted keys and values.
func snapshot(t testing.TB, f *fixture) map[string]string {
	t.Helper()
	it, err := f.db.Iterator(nil, nil)
	assert.Nil(t, err)
	defer it.Release()

	res := make(map[string]string)
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		assert.Nil(t, err)
		res[string(k)] = string(v)
	}
}

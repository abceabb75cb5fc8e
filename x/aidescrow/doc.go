/*
Package aidescrow implements an escrow that custodies funds on behalf of a
single administrator and releases them to recipients through aid packages.

The escrow account is a singleton created by InitMsg. Funds sent with FundMsg
are moved into the custody wallet and added to the per asset balance. Every
package reserves its amount against that balance until the package reaches a
terminal state:

	Created -> Claimed -> Disbursed
	Created -> Disbursed
	Created | Claimed -> Revoked
	Created | Claimed -> Refunded (only after expiry)

Disbursing transfers the funds out of custody to the recipient. Revoking and
refunding release the reservation and leave the funds in the pool.

Every successful transition emits exactly one event. Attribute sets are
fixed per topic, see events.go.
*/
package aidescrow

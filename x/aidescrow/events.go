package aidescrow

import (
	"strconv"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/coin"
)

// Event topics.
const (
	TopicEscrowFunded     = "escrow_funded"
	TopicPackageCreated   = "package_created"
	TopicPackageClaimed   = "package_claimed"
	TopicPackageDisbursed = "package_disbursed"
	TopicPackageRevoked   = "package_revoked"
	TopicPackageRefunded  = "package_refunded"
)

// EventFields lists the closed attribute set of every topic in emission
// order.
var EventFields = map[string][]string{
	TopicEscrowFunded:     {"from", "amount", "timestamp"},
	TopicPackageCreated:   packageEventFields,
	TopicPackageClaimed:   packageEventFields,
	TopicPackageDisbursed: packageEventFields,
	TopicPackageRevoked:   packageEventFields,
	TopicPackageRefunded:  packageEventFields,
}

var packageEventFields = []string{"package_id", "recipient", "amount", "actor", "timestamp"}

func fundedEvent(from aidchain.Address, amount coin.Amount, now aidchain.UnixTime) aidchain.Event {
	return aidchain.NewEvent(TopicEscrowFunded,
		"from", from.String(),
		"amount", amount.String(),
		"timestamp", now.Decimal(),
	)
}

func packageEvent(topic string, p *Package, actor aidchain.Address, now aidchain.UnixTime) aidchain.Event {
	return aidchain.NewEvent(topic,
		"package_id", strconv.FormatUint(p.ID, 10),
		"recipient", p.Recipient.String(),
		"amount", p.Amount.Amount.String(),
		"actor", actor.String(),
		"timestamp", now.Decimal(),
	)
}

package chaintest

import "github.com/iov-one/aidchain"

// Decorator is a mock decorator. When CheckErr or DeliverErr is set the
// corresponding call fails without reaching the next handler. Every call
// is counted, failed or not.
type Decorator struct {
	calls

	CheckErr   error
	DeliverErr error
}

var _ aidchain.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx, next aidchain.Checker) (*aidchain.CheckResult, error) {
	d.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx, next aidchain.Deliverer) (*aidchain.DeliverResult, error) {
	d.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate returns a handler passing every call through d before h.
func Decorate(h aidchain.Handler, d aidchain.Decorator) aidchain.Handler {
	return decorated{next: h, dec: d}
}

type decorated struct {
	next aidchain.Handler
	dec  aidchain.Decorator
}

func (d decorated) Check(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}

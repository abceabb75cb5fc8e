/*
Package app links together all the components of the aid escrow chain.
*/
package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/app"
	"github.com/iov-one/aidchain/x"
	"github.com/iov-one/aidchain/x/aidescrow"
	"github.com/iov-one/aidchain/x/cash"
	"github.com/iov-one/aidchain/x/sigs"
	"github.com/iov-one/aidchain/x/utils"
)

// Name is reported by the application Info.
const Name = "aidescrowd"

// Authenticator returns the authentication used by all handlers. Only
// public key signatures are supported.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns the decorators every transaction passes through. Metrics
// may be nil.
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the cash and escrow handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, ctrl)
	aidescrow.RegisterRoutes(r, authFn, ctrl)
	return r
}

// QueryRouter returns a query router giving access to "/sigs",
// "/cash/wallets" and the "/aidescrow/" paths. The application adds
// "/events".
func QueryRouter() aidchain.QueryRouter {
	r := aidchain.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		cash.RegisterQuery,
		aidescrow.RegisterQuery,
	)
	return r
}

// Messages returns a prototype of every message accepted by the chain.
func Messages() []aidchain.Msg {
	return []aidchain.Msg{
		&cash.SendMsg{},
		&aidescrow.InitMsg{},
		&aidescrow.FundMsg{},
		&aidescrow.CreatePackageMsg{},
		&aidescrow.ClaimMsg{},
		&aidescrow.DisburseMsg{},
		&aidescrow.RevokeMsg{},
		&aidescrow.RefundMsg{},
		&aidescrow.MigrateMsg{},
	}
}

// Decoder returns the transaction decoder.
func Decoder() *app.Decoder {
	return app.NewDecoder(Messages()...)
}

// Initializers load the genesis state of all extensions.
func Initializers() aidchain.Initializer {
	return aidchain.ChainInitializers(
		cash.Initializer{},
		aidescrow.Initializer{},
	)
}

// Stack wires up the router with the decorator chain.
func Stack(metrics *utils.Metrics) aidchain.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn))
}

// Options configure Application.
type Options struct {
	Logger aidchain.Logger
	Debug  bool
	// Registerer if set receives the transaction metrics.
	Registerer prometheus.Registerer
}

// Application returns the chain application running on top of given store.
func Application(db aidchain.CommitKVStore, opts Options) (*app.Application, error) {
	var metrics *utils.Metrics
	if opts.Registerer != nil {
		m, err := utils.NewMetrics(opts.Registerer)
		if err != nil {
			return nil, err
		}
		metrics = m
	}
	a, err := app.NewApplication(Name, db, Decoder().Decode, Stack(metrics), QueryRouter())
	if err != nil {
		return nil, err
	}
	a.WithInit(Initializers()).WithDebug(opts.Debug)
	if opts.Logger != nil {
		a.WithLogger(opts.Logger)
	}
	return a, nil
}

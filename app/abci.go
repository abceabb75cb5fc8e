package app

import (
	"encoding/json"
	"fmt"

	"github.com/gogo/protobuf/proto"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/codec"
	"github.com/iov-one/aidchain/errors"
)

// ABCI exposes an Application to a tendermint node.
//
// Tendermint has no way of rejecting InitChain, BeginBlock or Commit, so a
// failure of any of them panics and halts the node.
type ABCI struct {
	app *Application
}

var _ abci.Application = (*ABCI)(nil)

// NewABCI wraps given application.
func NewABCI(app *Application) *ABCI {
	return &ABCI{app: app}
}

// Info implements abci.Application. The height is the last committed block.
func (a *ABCI) Info(abci.RequestInfo) abci.ResponseInfo {
	info, err := a.app.Info()
	if err != nil {
		panic(err)
	}
	a.app.logger.Info("info synced", "height", info.Height, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             info.Name,
		Version:          info.Version,
		LastBlockHeight:  info.Height,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption implements abci.Application. No option is supported.
func (a *ABCI) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain implements abci.Application. The app state of the request is
// the same JSON object as the app_state of a genesis file.
func (a *ABCI) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	g := Genesis{
		ChainID:     req.ChainId,
		GenesisTime: aidchain.AsUnixTime(req.Time),
	}
	if len(req.AppStateBytes) != 0 {
		if err := json.Unmarshal(req.AppStateBytes, &g.AppState); err != nil {
			panic(errors.Wrapf(errors.ErrInput, "decode app state: %s", err))
		}
	}
	if err := a.app.InitChain(&g); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock implements abci.Application.
func (a *ABCI) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	if err := a.app.BeginBlock(req.Header.Height, req.Header.Time); err != nil {
		panic(err)
	}
	return abci.ResponseBeginBlock{}
}

// CheckTx implements abci.Application.
func (a *ABCI) CheckTx(raw []byte) abci.ResponseCheckTx {
	res := a.app.CheckTx(raw)
	return abci.ResponseCheckTx{
		Code: res.Code,
		Log:  res.Log,
		Data: res.Data,
	}
}

// DeliverTx implements abci.Application. Events are flattened into tags
// named <topic>.<attribute>.
func (a *ABCI) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	res := a.app.DeliverTx(raw)
	return abci.ResponseDeliverTx{
		Code: res.Code,
		Log:  res.Log,
		Data: res.Data,
		Tags: eventTags(res.Events),
	}
}

func eventTags(events []aidchain.Event) []cmn.KVPair {
	var tags []cmn.KVPair
	for _, e := range events {
		for _, attr := range e.Attributes {
			tags = append(tags, cmn.KVPair{
				Key:   []byte(e.Topic + "." + attr.Key),
				Value: []byte(attr.Value),
			})
		}
	}
	return tags
}

// EndBlock implements abci.Application. The validator set never changes.
func (a *ABCI) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit implements abci.Application.
func (a *ABCI) Commit() abci.ResponseCommit {
	id, err := a.app.Commit()
	if err != nil {
		panic(err)
	}
	return abci.ResponseCommit{Data: id.Hash}
}

// Query implements abci.Application. Only the latest committed state can be
// queried, so the requested height is ignored.
//
// Key and Value are serialized ResultSets of the same length, which keeps
// single and prefix queries on the same interface.
func (a *ABCI) Query(req abci.RequestQuery) abci.ResponseQuery {
	models, height, err := a.app.Query(req.Path, req.Data)
	if err != nil {
		return queryError(err, height, a.app.debug)
	}
	keys := ResultSet{Results: make([][]byte, len(models))}
	values := ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		keys.Results[i] = m.Key
		values.Results[i] = m.Value
	}
	res := abci.ResponseQuery{Height: height}
	if res.Key, err = keys.Marshal(); err != nil {
		return queryError(err, height, a.app.debug)
	}
	if res.Value, err = values.Marshal(); err != nil {
		return queryError(err, height, a.app.debug)
	}
	return res
}

func queryError(err error, height int64, debug bool) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseQuery{Code: code, Log: log, Height: height}
}

// ResultSet is the query response encoding of a list of keys or values.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3"`
}

type resultSetProto ResultSet

func (m *resultSetProto) Reset()         { *m = resultSetProto{} }
func (m *resultSetProto) String() string { return proto.CompactTextString(m) }
func (*resultSetProto) ProtoMessage()    {}

func (r *ResultSet) Marshal() ([]byte, error) {
	return codec.Marshal((*resultSetProto)(r))
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*resultSetProto)(r))
}

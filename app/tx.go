package app

import (
	"fmt"
	"reflect"

	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/codec"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/x/sigs"
)

// Tx is the transaction format of the chain: a single message together with
// the signatures authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        aidchain.Msg

	// path and payload are the serialized message, kept until a Decoder
	// resolves them into Msg.
	path    string
	payload []byte
}

var _ aidchain.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg aidchain.Msg) *Tx {
	return &Tx{Msg: msg}
}

func (tx *Tx) GetMsg() (aidchain.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "message not decoded")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	path, payload, err := tx.message()
	if err != nil {
		return nil, err
	}
	return codec.Marshal(&txProto{Path: path, Payload: payload})
}

// Sign appends a signature created with given key.
func (tx *Tx) Sign(key *sigs.StdSignature) {
	tx.Signatures = append(tx.Signatures, key)
}

func (tx *Tx) message() (string, []byte, error) {
	if tx.Msg == nil {
		if tx.path == "" {
			return "", nil, errors.Wrap(errors.ErrMsg, "missing message")
		}
		return tx.path, tx.payload, nil
	}
	payload, err := tx.Msg.Marshal()
	if err != nil {
		return "", nil, errors.Wrap(err, "marshal message")
	}
	return tx.Msg.Path(), payload, nil
}

// txProto is the wire form of a transaction. Sign bytes are the same
// structure without signatures.
type txProto struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3"`
	Path       string               `protobuf:"bytes,2,opt,name=path,proto3"`
	Payload    []byte               `protobuf:"bytes,3,opt,name=payload,proto3"`
}

func (m *txProto) Reset()         { *m = txProto{} }
func (m *txProto) String() string { return proto.CompactTextString(m) }
func (*txProto) ProtoMessage()    {}

func (tx *Tx) Marshal() ([]byte, error) {
	path, payload, err := tx.message()
	if err != nil {
		return nil, err
	}
	return codec.Marshal(&txProto{
		Signatures: tx.Signatures,
		Path:       path,
		Payload:    payload,
	})
}

// Unmarshal reads the signatures and the serialized message. Use a Decoder
// to get a transaction with the message resolved.
func (tx *Tx) Unmarshal(raw []byte) error {
	var w txProto
	if err := codec.Unmarshal(raw, &w); err != nil {
		return err
	}
	*tx = Tx{Signatures: w.Signatures, path: w.Path, payload: w.Payload}
	return nil
}

// Decoder knows all message types accepted by the chain.
type Decoder struct {
	msgs map[string]reflect.Type
}

// NewDecoder returns a decoder accepting messages of given prototypes. It
// panics if two prototypes share the same path.
func NewDecoder(prototypes ...aidchain.Msg) *Decoder {
	d := &Decoder{msgs: make(map[string]reflect.Type, len(prototypes))}
	for _, m := range prototypes {
		tp := reflect.TypeOf(m)
		if tp.Kind() != reflect.Ptr {
			panic(fmt.Sprintf("message prototype %T must be a pointer", m))
		}
		if _, ok := d.msgs[m.Path()]; ok {
			panic(fmt.Sprintf("message path %q registered twice", m.Path()))
		}
		d.msgs[m.Path()] = tp.Elem()
	}
	return d
}

// Decode implements aidchain.TxDecoder.
func (d *Decoder) Decode(raw []byte) (aidchain.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal transaction")
	}
	tp, ok := d.msgs[tx.path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message path %q", tx.path)
	}
	msg := reflect.New(tp).Interface().(aidchain.Msg)
	if err := msg.Unmarshal(tx.payload); err != nil {
		return nil, errors.Wrapf(err, "cannot unmarshal %s", tx.path)
	}
	tx.Msg = msg
	return &tx, nil
}

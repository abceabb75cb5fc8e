package cash

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/codec"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/errors"
)

const maxMemoSize int = 128

// SendMsg transfers funds between two addresses.
type SendMsg struct {
	Metadata    *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	Source      aidchain.Address   `protobuf:"bytes,2,opt,name=source,proto3"`
	Destination aidchain.Address   `protobuf:"bytes,3,opt,name=destination,proto3"`
	Amount      coin.Coin          `protobuf:"bytes,4,opt,name=amount,proto3"`
	Memo        string             `protobuf:"bytes,5,opt,name=memo,proto3"`
}

var _ aidchain.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if err := m.Amount.Validate(); err != nil {
		errs = errors.AppendField(errs, "Amount", err)
	} else if !m.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "too long"))
	}
	return errs
}

type sendProto SendMsg

func (m *sendProto) Reset()         { *m = sendProto{} }
func (m *sendProto) String() string { return proto.CompactTextString(m) }
func (*sendProto) ProtoMessage()    {}

func (m *SendMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*sendProto)(m))
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*sendProto)(m))
}

/*
Package codec serializes persisted models, messages and transactions with
the gogo protobuf library.

Every serialized struct carries protobuf struct tags, so that proto.Marshal
and proto.Unmarshal can encode it without generated code. Fields missing
from the input keep their zero value and unknown fields are skipped.

A type that exposes its own Marshal and Unmarshal methods would be called
back by the library, so those types declare an unexported twin with the
same fields. Only the twin implements proto.Message:

	type Package struct {
		ID        uint64           `protobuf:"varint,1,opt,name=id,proto3"`
		Recipient aidchain.Address `protobuf:"bytes,2,opt,name=recipient,proto3"`
	}

	type packageProto Package

	func (m *packageProto) Reset()         { *m = packageProto{} }
	func (m *packageProto) String() string { return proto.CompactTextString(m) }
	func (*packageProto) ProtoMessage()    {}

	func (p *Package) Marshal() ([]byte, error) {
		return codec.Marshal((*packageProto)(p))
	}

	func (p *Package) Unmarshal(raw []byte) error {
		return codec.Unmarshal(raw, (*packageProto)(p))
	}

Nested structs that do not implement Marshal are encoded directly from
their tags. Values that have no protobuf representation, like coin.Amount,
implement Marshal, Unmarshal and Size and are tagged with customtype.
*/
package codec

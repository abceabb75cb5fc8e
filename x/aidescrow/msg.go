package aidescrow

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/codec"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/errors"
)

// InitMsg creates the escrow account.
type InitMsg struct {
	Metadata *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	Admin    aidchain.Address   `protobuf:"bytes,2,opt,name=admin,proto3"`
}

var _ aidchain.Msg = (*InitMsg)(nil)

func (InitMsg) Path() string {
	return "aidescrow/init"
}

func (m *InitMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Admin", m.Admin.Validate())
	return errs
}

type initProto InitMsg

func (m *initProto) Reset()         { *m = initProto{} }
func (m *initProto) String() string { return proto.CompactTextString(m) }
func (*initProto) ProtoMessage()    {}

func (m *InitMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*initProto)(m))
}

func (m *InitMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*initProto)(m))
}

// FundMsg moves funds from the From wallet into the escrow custody.
type FundMsg struct {
	Metadata *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	From     aidchain.Address   `protobuf:"bytes,2,opt,name=from,proto3"`
	Amount   coin.Coin          `protobuf:"bytes,3,opt,name=amount,proto3"`
}

var _ aidchain.Msg = (*FundMsg)(nil)

func (FundMsg) Path() string {
	return "aidescrow/fund"
}

func (m *FundMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "From", m.From.Validate())
	errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	return errs
}

type fundProto FundMsg

func (m *fundProto) Reset()         { *m = fundProto{} }
func (m *fundProto) String() string { return proto.CompactTextString(m) }
func (*fundProto) ProtoMessage()    {}

func (m *FundMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*fundProto)(m))
}

func (m *FundMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*fundProto)(m))
}

// CreatePackageMsg reserves funds for a recipient.
type CreatePackageMsg struct {
	Metadata  *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	PackageID uint64             `protobuf:"varint,2,opt,name=package_id,proto3"`
	Recipient aidchain.Address   `protobuf:"bytes,3,opt,name=recipient,proto3"`
	Amount    coin.Coin          `protobuf:"bytes,4,opt,name=amount,proto3"`
	ExpiresAt aidchain.UnixTime  `protobuf:"varint,5,opt,name=expires_at,proto3"`
}

var _ aidchain.Msg = (*CreatePackageMsg)(nil)

func (CreatePackageMsg) Path() string {
	return "aidescrow/create_package"
}

func (m *CreatePackageMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	return errs
}

type createPackageProto CreatePackageMsg

func (m *createPackageProto) Reset()         { *m = createPackageProto{} }
func (m *createPackageProto) String() string { return proto.CompactTextString(m) }
func (*createPackageProto) ProtoMessage()    {}

func (m *CreatePackageMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*createPackageProto)(m))
}

func (m *CreatePackageMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*createPackageProto)(m))
}

// ClaimMsg is sent by the recipient to acknowledge a package.
type ClaimMsg struct {
	Metadata  *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	PackageID uint64             `protobuf:"varint,2,opt,name=package_id,proto3"`
}

var _ aidchain.Msg = (*ClaimMsg)(nil)

func (ClaimMsg) Path() string {
	return "aidescrow/claim"
}

func (m *ClaimMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate(), "")
}

func (m *ClaimMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*packageRefProto)(m))
}

func (m *ClaimMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*packageRefProto)(m))
}

// DisburseMsg transfers the package funds to the recipient.
type DisburseMsg struct {
	Metadata  *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	PackageID uint64             `protobuf:"varint,2,opt,name=package_id,proto3"`
}

var _ aidchain.Msg = (*DisburseMsg)(nil)

func (DisburseMsg) Path() string {
	return "aidescrow/disburse"
}

func (m *DisburseMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate(), "")
}

func (m *DisburseMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*packageRefProto)(m))
}

func (m *DisburseMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*packageRefProto)(m))
}

// RevokeMsg cancels a package at any time before it is terminal.
type RevokeMsg struct {
	Metadata  *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	PackageID uint64             `protobuf:"varint,2,opt,name=package_id,proto3"`
}

var _ aidchain.Msg = (*RevokeMsg)(nil)

func (RevokeMsg) Path() string {
	return "aidescrow/revoke"
}

func (m *RevokeMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate(), "")
}

func (m *RevokeMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*packageRefProto)(m))
}

func (m *RevokeMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*packageRefProto)(m))
}

// RefundMsg releases an expired package.
type RefundMsg struct {
	Metadata  *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	PackageID uint64             `protobuf:"varint,2,opt,name=package_id,proto3"`
}

var _ aidchain.Msg = (*RefundMsg)(nil)

func (RefundMsg) Path() string {
	return "aidescrow/refund"
}

func (m *RefundMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate(), "")
}

func (m *RefundMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*packageRefProto)(m))
}

func (m *RefundMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*packageRefProto)(m))
}

// MigrateMsg bumps the escrow version and migrates stored data.
type MigrateMsg struct {
	Metadata   *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	NewVersion uint32             `protobuf:"varint,2,opt,name=new_version,proto3"`
}

var _ aidchain.Msg = (*MigrateMsg)(nil)

func (MigrateMsg) Path() string {
	return "aidescrow/migrate"
}

// Validate checks the message structure only. The version ordering is
// verified by the handler once the caller is authorized.
func (m *MigrateMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate(), "")
}

type migrateProto MigrateMsg

func (m *migrateProto) Reset()         { *m = migrateProto{} }
func (m *migrateProto) String() string { return proto.CompactTextString(m) }
func (*migrateProto) ProtoMessage()    {}

func (m *MigrateMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*migrateProto)(m))
}

func (m *MigrateMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*migrateProto)(m))
}

// requirePositive is checked by handlers after authorization, so that an
// unauthorized caller learns nothing about the amount rules.
func requirePositive(c coin.Coin) error {
	if !c.IsPositive() {
		return errors.Field("Amount", errors.ErrInvalidAmount, "must be positive")
	}
	return nil
}

// packageRefProto is the wire form shared by all messages that only reference
// a package.
type packageRefProto struct {
	Metadata  *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	PackageID uint64             `protobuf:"varint,2,opt,name=package_id,proto3"`
}

func (m *packageRefProto) Reset()         { *m = packageRefProto{} }
func (m *packageRefProto) String() string { return proto.CompactTextString(m) }
func (*packageRefProto) ProtoMessage()    {}

package aidescrow

import (
	"encoding/binary"
	"encoding/json"

	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/codec"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/orm"
)

// Account is the escrow singleton.
type Account struct {
	Metadata *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	// Admin is the only identity allowed to manage packages.
	Admin aidchain.Address `protobuf:"bytes,2,opt,name=admin,proto3"`
	// Version is the contract version. It only grows.
	Version uint32 `protobuf:"varint,3,opt,name=version,proto3"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) GetMetadata() *aidchain.Metadata {
	return a.Metadata
}

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Admin", a.Admin.Validate())
	if a.Version == 0 {
		errs = errors.Append(errs, errors.Field("Version", ErrInvalidVersion, "required"))
	}
	return errs
}

type accountProto Account

func (m *accountProto) Reset()         { *m = accountProto{} }
func (m *accountProto) String() string { return proto.CompactTextString(m) }
func (*accountProto) ProtoMessage()    {}

func (a *Account) Marshal() ([]byte, error) {
	return codec.Marshal((*accountProto)(a))
}

func (a *Account) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*accountProto)(a))
}

// AssetBalance is the custodied amount of a single asset. Reserved is the sum
// of amounts of all non terminal packages in that asset.
type AssetBalance struct {
	Metadata *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	Ticker   string             `protobuf:"bytes,2,opt,name=ticker,proto3"`
	Balance  coin.Amount        `protobuf:"bytes,3,opt,name=balance,proto3,customtype=github.com/iov-one/aidchain/coin.Amount"`
	Reserved coin.Amount        `protobuf:"bytes,4,opt,name=reserved,proto3,customtype=github.com/iov-one/aidchain/coin.Amount"`
}

var _ orm.Model = (*AssetBalance)(nil)

func (b *AssetBalance) GetMetadata() *aidchain.Metadata {
	return b.Metadata
}

func (b *AssetBalance) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", b.Metadata.Validate())
	if !coin.IsCC(b.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", b.Ticker))
	}
	if !b.Balance.GTE(b.Reserved) {
		errs = errors.Append(errs, errors.Field("Reserved", ErrInsufficientEscrowBalance, "%s reserved of %s", b.Reserved, b.Balance))
	}
	return errs
}

// Available returns the part of the balance that is not reserved.
func (b *AssetBalance) Available() coin.Amount {
	avail, err := b.Balance.Sub(b.Reserved)
	if err != nil {
		return coin.Amount{}
	}
	return avail
}

type assetBalanceProto AssetBalance

func (m *assetBalanceProto) Reset()         { *m = assetBalanceProto{} }
func (m *assetBalanceProto) String() string { return proto.CompactTextString(m) }
func (*assetBalanceProto) ProtoMessage()    {}

func (b *AssetBalance) Marshal() ([]byte, error) {
	return codec.Marshal((*assetBalanceProto)(b))
}

func (b *AssetBalance) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*assetBalanceProto)(b))
}

// PackageState is the lifecycle state of a package.
type PackageState int32

const (
	PackageCreated PackageState = iota + 1
	PackageClaimed
	PackageDisbursed
	PackageRevoked
	PackageRefunded
)

var packageStateNames = map[PackageState]string{
	PackageCreated:   "created",
	PackageClaimed:   "claimed",
	PackageDisbursed: "disbursed",
	PackageRevoked:   "revoked",
	PackageRefunded:  "refunded",
}

func (s PackageState) String() string {
	if name, ok := packageStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the state by name.
func (s PackageState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// IsTerminal returns true if no further transition is allowed.
func (s PackageState) IsTerminal() bool {
	switch s {
	case PackageDisbursed, PackageRevoked, PackageRefunded:
		return true
	}
	return false
}

func (s PackageState) Validate() error {
	if _, ok := packageStateNames[s]; !ok {
		return errors.Wrapf(ErrInvalidPackageState, "unknown state %d", s)
	}
	return nil
}

// Package is an amount earmarked for a single recipient.
type Package struct {
	Metadata  *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	ID        uint64             `protobuf:"varint,2,opt,name=id,proto3"`
	Recipient aidchain.Address   `protobuf:"bytes,3,opt,name=recipient,proto3"`
	// Amount ticker is the asset backing this package.
	Amount    coin.Coin         `protobuf:"bytes,4,opt,name=amount,proto3"`
	ExpiresAt aidchain.UnixTime `protobuf:"varint,5,opt,name=expires_at,proto3"`
	State     PackageState      `protobuf:"varint,6,opt,name=state,proto3"`
	CreatedAt aidchain.UnixTime `protobuf:"varint,7,opt,name=created_at,proto3"`
}

var _ orm.Model = (*Package)(nil)

func (p *Package) GetMetadata() *aidchain.Metadata {
	return p.Metadata
}

func (p *Package) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", p.Metadata.Validate())
	errs = errors.AppendField(errs, "Recipient", p.Recipient.Validate())
	if err := p.Amount.Validate(); err != nil {
		errs = errors.AppendField(errs, "Amount", err)
	} else if !p.Amount.IsPositive() {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrInvalidAmount, "must be positive"))
	}
	if p.ExpiresAt.IsZero() {
		errs = errors.Append(errs, errors.Field("ExpiresAt", ErrInvalidExpiry, "required"))
	}
	errs = errors.AppendField(errs, "State", p.State.Validate())
	errs = errors.AppendField(errs, "CreatedAt", p.CreatedAt.Validate())
	return errs
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

// PackageKey returns the key a package is stored under. Keys sort the same
// way as package IDs.
func PackageKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

var accountKey = []byte("account")

// AccountBucket stores the escrow singleton.
type AccountBucket struct {
	orm.ModelBucket
}

func NewAccountBucket() AccountBucket {
	return AccountBucket{
		ModelBucket: orm.NewModelBucket("escacct", &Account{}),
	}
}

// Load returns the escrow account or ErrNotInitialized.
func (b AccountBucket) Load(db aidchain.ReadOnlyKVStore) (*Account, error) {
	var acc Account
	switch err := b.One(db, accountKey, &acc); {
	case err == nil:
		return &acc, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(ErrNotInitialized, "no escrow account")
	default:
		return nil, err
	}
}

func (b AccountBucket) Save(db aidchain.KVStore, acc *Account) error {
	return b.Put(db, accountKey, acc)
}

// BalanceBucket stores AssetBalance entities by ticker.
type BalanceBucket struct {
	orm.ModelBucket
}

func NewBalanceBucket() BalanceBucket {
	return BalanceBucket{
		ModelBucket: orm.NewModelBucket("escbal", &AssetBalance{}),
	}
}

// GetOrCreate returns the balance of given asset. A zero balance is returned
// for an asset that was never funded.
func (b BalanceBucket) GetOrCreate(db aidchain.ReadOnlyKVStore, ticker string, schema uint32) (*AssetBalance, error) {
	var bal AssetBalance
	switch err := b.One(db, []byte(ticker), &bal); {
	case err == nil:
		return &bal, nil
	case errors.ErrNotFound.Is(err):
		return &AssetBalance{
			Metadata: &aidchain.Metadata{Schema: schema},
			Ticker:   ticker,
		}, nil
	default:
		return nil, err
	}
}

func (b BalanceBucket) Save(db aidchain.KVStore, bal *AssetBalance) error {
	return b.Put(db, []byte(bal.Ticker), bal)
}

// PackageBucket is the package registry.
type PackageBucket struct {
	orm.ModelBucket
}

func NewPackageBucket() PackageBucket {
	return PackageBucket{
		ModelBucket: orm.NewModelBucket("escpkg", &Package{}),
	}
}

// Load returns the package with given ID or ErrPackageNotFound.
func (b PackageBucket) Load(db aidchain.ReadOnlyKVStore, id uint64) (*Package, error) {
	var p Package
	switch err := b.One(db, PackageKey(id), &p); {
	case err == nil:
		return &p, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrPackageNotFound, "id %d", id)
	default:
		return nil, err
	}
}

func (b PackageBucket) Save(db aidchain.KVStore, p *Package) error {
	return b.Put(db, PackageKey(p.ID), p)
}

package cash

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/codec"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/orm"
)

// BucketName is where we store the wallets.
const BucketName = "cash"

// Wallet is the balance of a single currency owned by an address.
type Wallet struct {
	Metadata *aidchain.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
	Owner    aidchain.Address   `protobuf:"bytes,2,opt,name=owner,proto3"`
	Coin     coin.Coin          `protobuf:"bytes,3,opt,name=coin,proto3"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate returns an error if the wallet is not well formed.
func (w *Wallet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", w.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", w.Owner.Validate())
	errs = errors.AppendField(errs, "Coin", w.Coin.Validate())
	return errs
}

type walletProto Wallet

func (m *walletProto) Reset()         { *m = walletProto{} }
func (m *walletProto) String() string { return proto.CompactTextString(m) }
func (*walletProto) ProtoMessage()    {}

func (w *Wallet) Marshal() ([]byte, error) {
	return codec.Marshal((*walletProto)(w))
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*walletProto)(w))
}

// WalletKey returns the key a wallet of given owner and currency is stored
// under.
func WalletKey(owner aidchain.Address, ticker string) []byte {
	key := make([]byte, 0, len(owner)+len(ticker))
	key = append(key, owner...)
	return append(key, ticker...)
}

// Bucket stores wallets.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing wallets.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Wallet{}),
	}
}

// GetOrCreate loads the wallet of given owner and currency. An empty wallet
// is returned if none is stored.
func (b Bucket) GetOrCreate(db aidchain.ReadOnlyKVStore, owner aidchain.Address, ticker string) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, WalletKey(owner, ticker), &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{
			Metadata: &aidchain.Metadata{Schema: 1},
			Owner:    owner,
			Coin:     coin.Coin{Ticker: ticker},
		}, nil
	default:
		return nil, err
	}
}

// Save stores given wallet.
func (b Bucket) Save(db aidchain.KVStore, w *Wallet) error {
	return b.Put(db, WalletKey(w.Owner, w.Coin.Ticker), w)
}

package crypto

import (
	"github.com/gogo/protobuf/proto"
	"golang.org/x/crypto/ed25519"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/codec"
	"github.com/iov-one/aidchain/errors"
)

// ExtensionName is used for the conditions we get from signatures.
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3"`
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if sig == nil || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a ledger condition. It returns nil
// for an empty key.
func (p *PublicKey) Condition() aidchain.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return aidchain.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address of the condition represented by this key.
func (p *PublicKey) Address() aidchain.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

// Validate returns an error if the key is not a well formed ed25519 public
// key.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key length %d", len(p.Ed25519))
	}
	return nil
}

type publicKeyProto PublicKey

func (m *publicKeyProto) Reset()         { *m = publicKeyProto{} }
func (m *publicKeyProto) String() string { return proto.CompactTextString(m) }
func (*publicKeyProto) ProtoMessage()    {}

func (p *PublicKey) Marshal() ([]byte, error) {
	return codec.Marshal((*publicKeyProto)(p))
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*publicKeyProto)(p))
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3"`
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if p == nil || len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	if p == nil || len(p.Ed25519) != ed25519.PrivateKeySize {
		return &PublicKey{}
	}
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

type privateKeyProto PrivateKey

func (m *privateKeyProto) Reset()         { *m = privateKeyProto{} }
func (m *privateKeyProto) String() string { return "ed25519 private key" }
func (*privateKeyProto) ProtoMessage()    {}

func (p *PrivateKey) Marshal() ([]byte, error) {
	return codec.Marshal((*privateKeyProto)(p))
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	if err := codec.Unmarshal(raw, (*privateKeyProto)(p)); err != nil {
		return err
	}
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return errors.Wrapf(errors.ErrInput, "private key length %d", len(p.Ed25519))
	}
	return nil
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3"`
}

type signatureProto Signature

func (m *signatureProto) Reset()         { *m = signatureProto{} }
func (m *signatureProto) String() string { return proto.CompactTextString(m) }
func (*signatureProto) ProtoMessage()    {}

func (s *Signature) Marshal() ([]byte, error) {
	return codec.Marshal((*signatureProto)(s))
}

func (s *Signature) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*signatureProto)(s))
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{Ed25519: priv}
}

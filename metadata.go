package aidchain

import (
	"github.com/iov-one/aidchain/errors"
)

// Metadata is the header attached to every persisted model and message. The
// schema version tells which layout the rest of the data is using so that
// stored records can be migrated.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3"`
}

// Validate returns an error if the schema version is not set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema == 0 {
		return errors.Wrap(errors.ErrMetadata, "schema version is required")
	}
	return nil
}

// Copy returns a copy of this object.
func (m *Metadata) Copy() *Metadata {
	cpy := *m
	return &cpy
}

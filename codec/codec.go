package codec

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/aidchain/errors"
)

// Marshal serializes m using the protobuf wire format.
func Marshal(m proto.Message) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal resets m and loads the protobuf serialized data into it.
// Malformed data results in ErrInput.
func Unmarshal(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot unmarshal %T: %s", m, err)
	}
	return nil
}

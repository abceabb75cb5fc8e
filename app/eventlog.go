package app

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/codec"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/orm"
)

// EventRecord is a single entry of the event log.
type EventRecord struct {
	Height int64 `protobuf:"varint,1,opt,name=height,proto3"`
	// TxHash identifies the transaction that emitted the event.
	TxHash []byte         `protobuf:"bytes,2,opt,name=tx_hash,proto3"`
	Event  aidchain.Event `protobuf:"bytes,3,opt,name=event,proto3"`
}

func (r *EventRecord) Validate() error {
	if r.Height <= 0 {
		return errors.Wrap(errors.ErrState, "height must be positive")
	}
	return r.Event.Validate()
}

type eventRecordProto EventRecord

func (m *eventRecordProto) Reset()         { *m = eventRecordProto{} }
func (m *eventRecordProto) String() string { return proto.CompactTextString(m) }
func (*eventRecordProto) ProtoMessage()    {}

func (r *EventRecord) Marshal() ([]byte, error) {
	return codec.Marshal((*eventRecordProto)(r))
}

func (r *EventRecord) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*eventRecordProto)(r))
}

// EventLog is an append only list of events. Entries are keyed by an 8 byte
// big endian sequence so that iteration returns them in emission order.
type EventLog struct {
	bucket orm.Bucket
	seq    orm.Sequence
}

// NewEventLog returns the event log stored in the "evlog" bucket.
func NewEventLog() EventLog {
	return EventLog{
		bucket: orm.NewBucket("evlog"),
		seq:    orm.NewSequence("evlog", "id"),
	}
}

// Append stores given events in order.
func (l EventLog) Append(db aidchain.KVStore, height int64, txHash []byte, events []aidchain.Event) error {
	for i := range events {
		if err := events[i].Validate(); err != nil {
			return errors.Wrapf(err, "event %d", i)
		}
		rec := EventRecord{Height: height, TxHash: txHash, Event: events[i]}
		raw, err := rec.Marshal()
		if err != nil {
			return errors.Wrap(err, "marshal event")
		}
		key, err := l.seq.NextVal(db)
		if err != nil {
			return errors.Wrap(err, "event sequence")
		}
		if err := l.bucket.Set(db, key, raw); err != nil {
			return errors.Wrap(err, "store event")
		}
	}
	return nil
}

// List returns all events with a sequence number greater or equal to from.
func (l EventLog) List(db aidchain.ReadOnlyKVStore, from uint64) ([]EventRecord, error) {
	var res []EventRecord
	err := l.bucket.Iterate(db, nil, func(key, value []byte) error {
		n, err := orm.DecodeSequence(key)
		if err != nil {
			return err
		}
		if n < from {
			return nil
		}
		var rec EventRecord
		if err := rec.Unmarshal(value); err != nil {
			return errors.Wrap(err, "unmarshal event")
		}
		res = append(res, rec)
		return nil
	})
	return res, err
}

// RegisterQuery exposes the event log under /events.
func (l EventLog) RegisterQuery(qr aidchain.QueryRouter) {
	l.bucket.Register("events", qr)
}

package aidchain

import (
	"fmt"

	"github.com/iov-one/aidchain/errors"
)

// Event is a structured, append only record of a state transition. Indexers
// depend on the topic and the attribute keys being stable.
type Event struct {
	Topic      string      `protobuf:"bytes,1,opt,name=topic,proto3"`
	Attributes []Attribute `protobuf:"bytes,2,rep,name=attributes,proto3"`
}

// Attribute is a single key-value entry of an event. All values are
// represented as strings.
type Attribute struct {
	Key   string `protobuf:"bytes,1,opt,name=key,proto3"`
	Value string `protobuf:"bytes,2,opt,name=value,proto3"`
}

// NewEvent returns an event with given topic and attributes declared as
// consecutive key-value pairs. It panics if an odd number of strings is
// given.
func NewEvent(topic string, keyvals ...string) Event {
	if len(keyvals)%2 != 0 {
		panic(fmt.Sprintf("event %q: odd number of attribute key-value elements", topic))
	}
	e := Event{
		Topic:      topic,
		Attributes: make([]Attribute, 0, len(keyvals)/2),
	}
	for i := 0; i < len(keyvals); i += 2 {
		e.Attributes = append(e.Attributes, Attribute{Key: keyvals[i], Value: keyvals[i+1]})
	}
	return e
}

// Get returns the value of the attribute with given key.
func (e Event) Get(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Keys returns attribute keys in declaration order.
func (e Event) Keys() []string {
	keys := make([]string, len(e.Attributes))
	for i, a := range e.Attributes {
		keys[i] = a.Key
	}
	return keys
}

// Validate returns an error if the event does not have a topic or declares
// the same attribute twice.
func (e *Event) Validate() error {
	if e.Topic == "" {
		return errors.Field("Topic", errors.ErrEmpty, "required")
	}
	seen := make(map[string]struct{}, len(e.Attributes))
	for i, a := range e.Attributes {
		if a.Key == "" {
			return errors.Field(fmt.Sprintf("Attributes.%d", i), errors.ErrEmpty, "key required")
		}
		if _, ok := seen[a.Key]; ok {
			return errors.Field(fmt.Sprintf("Attributes.%d", i), errors.ErrDuplicate, "key %q", a.Key)
		}
		seen[a.Key] = struct{}{}
	}
	return nil
}

package orm

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

func queryPrefix(db aidchain.ReadOnlyKVStore, prefix []byte) ([]aidchain.Model, error) {
	it, err := db.Iterator(prefix, prefixRangeEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []aidchain.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, aidchain.Pair(key, value))
	}
}

// prefixRangeEnd returns the []byte that would end a range query for all
// []byte with a certain prefix. Deals with last byte of prefix being
// FF without overflowing.
func prefixRangeEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}

	end := make([]byte, len(prefix))
	copy(end, prefix)

	for {
		if end[len(end)-1] != byte(255) {
			end[len(end)-1]++
			break
		}
		end = end[:len(end)-1]
		if len(end) == 0 {
			end = nil
			break
		}
	}
	return end
}

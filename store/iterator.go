package store

import (
	"bytes"

	"github.com/iov-one/aidchain/errors"
)

// cacheIterator merges a snapshot of cached items with the iterator of the
// backing store. Cached items shadow parent values with the same key and
// deleted items hide them.
type cacheIterator struct {
	items   []keyer
	idx     int
	reverse bool

	parent Iterator
	// Head of the parent iterator, read ahead to compare with the cache.
	pkey, pvalue []byte
	pdone        bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []keyer, parent Iterator, reverse bool) *cacheIterator {
	return &cacheIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// Next implements Iterator.
func (c *cacheIterator) Next() (key, value []byte, err error) {
	for {
		if err := c.peekParent(); err != nil {
			return nil, nil, err
		}
		if c.idx >= len(c.items) {
			if c.pdone {
				return nil, nil, errors.ErrIteratorDone
			}
			return c.takeParent()
		}

		item := c.items[c.idx]
		if !c.pdone {
			cmp := bytes.Compare(item.Key(), c.pkey)
			if c.reverse {
				cmp = -cmp
			}
			if cmp > 0 {
				return c.takeParent()
			}
			if cmp == 0 {
				// Cached value shadows the parent.
				c.pkey, c.pvalue = nil, nil
			}
		}

		c.idx++
		switch t := item.(type) {
		case setItem:
			return t.key, t.value, nil
		case deletedItem:
			continue
		default:
			return nil, nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
		}
	}
}

func (c *cacheIterator) peekParent() error {
	if c.pdone || c.pkey != nil {
		return nil
	}
	k, v, err := c.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		c.pdone = true
		return nil
	}
	if err != nil {
		return err
	}
	c.pkey, c.pvalue = k, v
	return nil
}

func (c *cacheIterator) takeParent() ([]byte, []byte, error) {
	k, v := c.pkey, c.pvalue
	c.pkey, c.pvalue = nil, nil
	return k, v, nil
}

// Release implements Iterator.
func (c *cacheIterator) Release() {
	c.parent.Release()
	c.items = nil
}

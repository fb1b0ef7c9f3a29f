package token

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// DefaultLocksBatch is a number of locks fetched per iterator traversal.
const DefaultLocksBatch = 100

// ParseLocks converts items returned by LocksExpanded into Lock structures.
func ParseLocks(items []stackitem.Item) ([]*Lock, error) {
	res := make([]*Lock, 0, len(items))
	for i := range items {
		l, err := itemToLock(items[i], nil)
		if err != nil {
			return nil, fmt.Errorf("lock #%d: %w", i, err)
		}
		res = append(res, l)
	}
	return res, nil
}

// ListLocks returns all stored locks of the account. It uses iterator session
// if the RPC server supports it and falls back to in-VM expansion of at most
// limit items otherwise.
func (c *ContractReader) ListLocks(account util.Uint160, limit int) ([]*Lock, error) {
	sess, iter, err := c.Locks(account)
	if err != nil {
		items, err := c.LocksExpanded(account, limit)
		if err != nil {
			return nil, err
		}
		return ParseLocks(items)
	}

	if sess == uuid.Nil {
		// Server has expanded the iterator itself.
		return ParseLocks(iter.Values)
	}
	defer func() {
		_ = c.invoker.TerminateSession(sess)
	}()

	var res []*Lock
	for len(res) < limit {
		items, err := c.invoker.TraverseIterator(sess, &iter, min(DefaultLocksBatch, limit-len(res)))
		if err != nil {
			return nil, fmt.Errorf("traverse locks iterator: %w", err)
		}
		if len(items) == 0 {
			break
		}

		locks, err := ParseLocks(items)
		if err != nil {
			return nil, err
		}
		res = append(res, locks...)
	}
	return res, nil
}

// Pending returns locks which are not mature by the given time (milliseconds).
// Stored locks may include matured ones not yet moved by the contract to the
// spendable balance.
func Pending(locks []*Lock, now *big.Int) []*Lock {
	var res []*Lock
	for _, l := range locks {
		if l.Until.Cmp(now) > 0 {
			res = append(res, l)
		}
	}
	return res
}


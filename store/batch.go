package store

import "github.com/iov-one/custody"

// opBatch piles up ops and executes them later on the underlying store.
// It is atomic only as far as the underlying store is in memory.
type opBatch struct {
	out custody.SetDeleter
	ops []item
}

var _ custody.Batch = (*opBatch)(nil)

func newBatch(out custody.SetDeleter) *opBatch {
	return &opBatch{out: out}
}

// Set adds a set operation to the batch.
func (b *opBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, setItem(key, value))
	return nil
}

// Delete adds a delete operation to the batch.
func (b *opBatch) Delete(key []byte) error {
	b.ops = append(b.ops, deletedItem(key))
	return nil
}

// Write applies all the ops to the underlying store and resets.
func (b *opBatch) Write() error {
	for _, op := range b.ops {
		var err error
		if op.deleted {
			err = b.out.Delete(op.key)
		} else {
			err = b.out.Set(op.key, op.value)
		}
		if err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

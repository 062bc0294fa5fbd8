/*
Package iavl provides the committed, merkle-hashed state of the application.
*/
package iavl

import (
	"os"
	"path/filepath"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of iavl nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state.
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ custody.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with a goleveldb backing stored at
// <dir>/<name>.db
func NewCommitStore(dir, name string, cacheSize int) (*CommitStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "cannot create %q: %s", filepath.Clean(dir), err)
	}
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "cannot open database: %s", err)
	}
	return newCommitStore(db, cacheSize), nil
}

// MockCommitStore creates a new in-memory store for testing.
func MockCommitStore() *CommitStore {
	return newCommitStore(dbm.NewMemDB(), DefaultCacheSize)
}

func newCommitStore(db dbm.DB, cacheSize int) *CommitStore {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &CommitStore{tree: iavl.NewMutableTree(db, cacheSize)}
}

// Get returns the value at last committed state.
// Returns nil iff key doesn't exist. Panics on nil key.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	version := s.tree.Version()
	_, val := s.tree.GetVersioned(key, version)
	return val, nil
}

// Commit the next version to disk, and returns info.
func (s *CommitStore) Commit() (custody.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return custody.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return custody.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk.
func (s *CommitStore) LatestVersion() (custody.CommitID, error) {
	return custody.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap gives us a savepoint to perform actions. Changes reach the
// working tree on Write and are persisted with the next Commit.
func (s *CommitStore) CacheWrap() custody.KVCacheWrap {
	return store.NewCacheWrap(&treeAdapter{tree: s.tree})
}

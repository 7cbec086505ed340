// Package store persists training snapshots in a LevelDB database, keyed
// by iteration number. It consumes only the solver's read-only Snapshot
// and never touches live solver state.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	cfr "kuhn-cfr"
)

// ErrNotFound is returned by Get and Latest when no snapshot exists.
var ErrNotFound = errors.New("store: snapshot not found")

// Store is a LevelDB-backed snapshot checkpoint store.
type Store struct {
	path string
	db   *leveldb.DB

	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
}

// Open opens (creating if necessary) a snapshot store at the given path.
func Open(path string, opts *opt.Options) (*Store, error) {
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "store: failed to open %v", path)
	}

	return &Store{path: path, db: db}, nil
}

// Close implements io.Closer.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put saves the snapshot taken after the given training iteration.
func (s *Store) Put(iter int, snapshot cfr.Snapshot) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snapshot); err != nil {
		return errors.Wrapf(err, "store: failed to encode snapshot at iter %d", iter)
	}

	if err := s.db.Put(iterKey(iter), buf.Bytes(), s.wOpts); err != nil {
		return errors.Wrapf(err, "store: failed to write snapshot at iter %d", iter)
	}

	glog.V(1).Infof("Checkpointed %d infosets at iter %d", len(snapshot), iter)
	return nil
}

// Get returns the snapshot saved at the given iteration, or ErrNotFound.
func (s *Store) Get(iter int) (cfr.Snapshot, error) {
	buf, err := s.db.Get(iterKey(iter), s.rOpts)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrapf(err, "store: failed to read snapshot at iter %d", iter)
	}

	return decodeSnapshot(buf)
}

// Latest returns the most recent snapshot and its iteration number, or
// ErrNotFound if the store is empty.
func (s *Store) Latest() (int, cfr.Snapshot, error) {
	it := s.db.NewIterator(nil, s.rOpts)
	defer it.Release()

	if !it.Last() {
		if err := it.Error(); err != nil {
			return 0, nil, errors.Wrap(err, "store: iterator failed")
		}

		return 0, nil, ErrNotFound
	}

	iter := int(binary.BigEndian.Uint64(it.Key()))
	snapshot, err := decodeSnapshot(it.Value())
	return iter, snapshot, err
}

func decodeSnapshot(buf []byte) (cfr.Snapshot, error) {
	var snapshot cfr.Snapshot
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&snapshot); err != nil {
		return nil, errors.Wrap(err, "store: failed to decode snapshot")
	}

	return snapshot, nil
}

// iterKey encodes the iteration number big-endian so LevelDB's lexicographic
// ordering matches iteration order.
func iterKey(iter int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(iter))
	return key
}

package core

// store.go implements the process-wide state S described in the system's
// design notes: a single owned KV object threaded through every dispatch,
// with closure-based commit/revert. The shape is adapted from the
// teacher's memState.Snapshot(fn func() error) error (virtual_machine.go):
// deep-copy the backing map, run the closure, restore the copy on error.
// Unlike the teacher, there is no package-level singleton — callers own
// their *Store.

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Iterator walks keys sharing a prefix in sorted order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
}

// Store is the concrete, in-memory KV backend plus the one commit/revert
// entry point every dispatch must go through. Key encoding is stable:
// every domain key begins with a one-byte contract prefix ('T' token,
// 'A' amm, 'B' bridge, 'S' system) so the layout survives schema growth.
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	Logger *logrus.Logger
}

// NewStore returns an empty store ready for dispatch.
func NewStore() *Store {
	return &Store{
		data:   make(map[string][]byte),
		Logger: logrus.StandardLogger(),
	}
}

// Get and Set are the store's locking, single-key public entry points, for
// callers operating outside a Dispatch closure. Every subsystem method
// (token.go/amm.go/bridge.go/system.go) instead funnels through the
// unlocked *Locked helpers below via getUint64/setUint64/etc., since those
// run both standalone and nested inside Dispatch's closure, and
// sync.RWMutex is not reentrant: a second Lock/RLock from the same
// goroutine that already holds Dispatch's Lock would block forever.
func (s *Store) Get(key []byte) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(key)
}

func (s *Store) getLocked(key []byte) ([]byte, bool) {
	v, ok := s.data[string(key)]
	return v, ok
}

func (s *Store) Set(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(key, value)
}

func (s *Store) setLocked(key, value []byte) {
	s.data[string(key)] = append([]byte(nil), value...)
}

type storeIterator struct {
	keys   [][]byte
	values [][]byte
	index  int
}

func (it *storeIterator) Next() bool {
	it.index++
	return it.index < len(it.keys)
}
func (it *storeIterator) Key() []byte   { return it.keys[it.index] }
func (it *storeIterator) Value() []byte { return it.values[it.index] }

// Iterator walks every key sharing prefix in sorted order; used by the
// query layer's QueryListedPools to enumerate AMM pools (§4.6), the one
// read this module needs a prefix scan rather than a single Get for.
func (s *Store) Iterator(prefix []byte) Iterator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.iteratorLocked(prefix)
}

func (s *Store) iteratorLocked(prefix []byte) Iterator {
	var keys []string
	for k := range s.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == string(prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	it := &storeIterator{index: -1}
	for _, k := range keys {
		it.keys = append(it.keys, []byte(k))
		it.values = append(it.values, s.data[k])
	}
	return it
}

// Dispatch runs fn under the store's write lock with commit/revert
// semantics: on error, every key written during fn is rolled back so the
// caller observes a bitwise-identical pre-call snapshot (P6); on success
// the mutations are left in place ("committed"). The lock is held for the
// whole of fn() so concurrent Dispatch calls serialize against each other;
// fn() itself (and everything it calls) must never re-enter s.mu, which is
// why the low-level helpers below don't use Get/Set.
func (s *Store) Dispatch(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	orig := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		orig[k] = append([]byte(nil), v...)
	}
	err := fn()
	if err != nil {
		s.data = orig
	}
	return err
}

// ---------------------------------------------------------------------
// Low-level typed helpers shared by token.go / amm.go / bridge.go / system.go
// ---------------------------------------------------------------------
//
// These always use the unlocked *Locked primitives rather than Get/Set.
// Every subsystem method built on them is called both standalone (tests,
// cmd/ledgerd) and nested inside Dispatch's closure (Store.Run); taking
// s.mu here would deadlock the second case, since Dispatch already holds
// it for fn()'s whole duration. Concurrent dispatches are still
// serialized by Dispatch's own lock.

func (s *Store) getUint64(key []byte) uint64 {
	v, ok := s.getLocked(key)
	if !ok || len(v) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

func (s *Store) setUint64(key []byte, v uint64) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	s.setLocked(key, buf)
}

func (s *Store) getBigInt(key []byte) *big.Int {
	v, ok := s.getLocked(key)
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).SetBytes(v)
}

func (s *Store) setBigInt(key []byte, v *big.Int) {
	s.setLocked(key, v.Bytes())
}

func (s *Store) getJSON(key []byte, out interface{}) bool {
	v, ok := s.getLocked(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(v, out); err != nil {
		panic(fmt.Sprintf("store: corrupt value at %x: %v", key, err))
	}
	return true
}

func (s *Store) setJSON(key []byte, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("store: unmarshalable value for %x: %v", key, err))
	}
	s.setLocked(key, raw)
}

// key-building helpers: one-byte contract prefix + ':' separated sub-keys.

func tokenKey(parts ...string) []byte  { return contractKey('T', parts...) }
func ammKey(parts ...string) []byte    { return contractKey('A', parts...) }
func bridgeKey(parts ...string) []byte { return contractKey('B', parts...) }
func systemKey(parts ...string) []byte { return contractKey('S', parts...) }

func contractKey(prefix byte, parts ...string) []byte {
	out := []byte{prefix}
	for _, p := range parts {
		out = append(out, ':')
		out = append(out, p...)
	}
	return out
}

func addrStr(a Address) string { return a.String() }

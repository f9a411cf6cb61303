// Package symbol manages symbols. Symbols are deduped strings represented as
// small integers, so comparing and hashing identifiers is cheap. Ownership
// places name their locals and fields by symbol ID.
package symbol

import (
	"sync"

	"github.com/ferrite-lang/ferrite/hash"
	"github.com/grailbio/base/must"
)

// ID represents an interned symbol.
type ID int32

const (
	// Invalid is a sentinel.
	Invalid = ID(0)
)

type idInfo struct {
	name string
	hash hash.Hash
}

// Singleton symbol intern table.
type table struct {
	mu   sync.Mutex
	syms map[string]ID
	ids  []idInfo
}

var symbols = table{
	syms: map[string]ID{"(invalid)": 0},
	ids:  []idInfo{{"(invalid)", hash.String("(invalid)")}},
}

// Intern returns the ID for the given name, allocating one on first use. Two
// Intern calls with the same name always return the same ID.
func Intern(name string) ID {
	symbols.mu.Lock()
	defer symbols.mu.Unlock()
	if id, ok := symbols.syms[name]; ok {
		return id
	}
	id := ID(len(symbols.ids))
	symbols.syms[name] = id
	symbols.ids = append(symbols.ids, idInfo{name, hash.String(name)})
	return id
}

// Str returns the name of the symbol.
func (id ID) Str() string {
	symbols.mu.Lock()
	defer symbols.mu.Unlock()
	must.Truef(int(id) < len(symbols.ids), "invalid symbol id %d", id)
	return symbols.ids[id].name
}

// Hash hashes the symbol. The hash is derived from the name, so it is stable
// across processes.
func (id ID) Hash() hash.Hash {
	symbols.mu.Lock()
	defer symbols.mu.Unlock()
	must.Truef(int(id) < len(symbols.ids), "invalid symbol id %d", id)
	return symbols.ids[id].hash
}

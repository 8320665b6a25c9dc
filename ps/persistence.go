package ps

import (
	"fmt"

	"github.com/nickyhof/MyDB/core"
)

// Persistence commits and loads whole databases through a Store,
// optionally passing the encoded bytes through a Transform.
type Persistence struct {
	store     Store
	transform Transform
}

// NewPersistence binds a store and an optional transform; a nil
// transform stores plain text.
func NewPersistence(store Store, transform Transform) *Persistence {
	return &Persistence{store: store, transform: transform}
}

func NewMemoryPersistence() *Persistence {
	return NewPersistence(NewMemoryStore(), nil)
}

func NewFilePersistence(baseDir string, transform Transform) (*Persistence, error) {
	store, err := NewFileStore(baseDir)
	if err != nil {
		return nil, err
	}
	return NewPersistence(store, transform), nil
}

func (p *Persistence) Store() Store {
	return p.store
}

// Encrypted reports whether files are cipher-transformed.
func (p *Persistence) Encrypted() bool {
	return p.transform != nil
}

// Commit fully rewrites the database file. It returns the transaction
// and the number of bytes written.
func (p *Persistence) Commit(database *core.Database, identity core.Identity) (Transaction, int, error) {
	data := Encode(database)

	if p.transform != nil {
		encrypted, err := p.transform.Encrypt(data)
		if err != nil {
			return Transaction{}, 0, fmt.Errorf("%w: encrypt %s: %w", ErrFileIO, database.Name, err)
		}
		data = encrypted
	}

	txn, err := p.store.WriteFile(database.Name, data, identity)
	if err != nil {
		return Transaction{}, 0, err
	}
	return txn, len(data), nil
}

// Load reads and decodes the named database into a fresh value.
func (p *Persistence) Load(name string) (*core.Database, int, error) {
	data, err := p.store.ReadFile(name)
	if err != nil {
		return nil, 0, err
	}
	size := len(data)

	if p.transform != nil {
		data, err = p.transform.Decrypt(data)
		if err != nil {
			return nil, size, err
		}
	}

	return Decode(name, data), size, nil
}

// History lists past commits of the named database when the store
// keeps history.
func (p *Persistence) History(name string) ([]Transaction, bool, error) {
	gitStore, ok := p.store.(*GitStore)
	if !ok {
		return nil, false, nil
	}
	transactions, err := gitStore.History(name)
	return transactions, true, err
}

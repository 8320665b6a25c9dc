package op

import (
	"fmt"
	"slices"

	"github.com/nickyhof/MyDB/core"
)

// Catalog holds every resident database and the one selected for
// unqualified commands. A Catalog belongs to a single session and is not
// safe for concurrent use.
type Catalog struct {
	databases map[string]*DatabaseOp
	current   *DatabaseOp
}

func NewCatalog() *Catalog {
	return &Catalog{databases: make(map[string]*DatabaseOp)}
}

// CreateDatabase adds an empty database. The current selection is left
// as is.
func (c *Catalog) CreateDatabase(name string) (*DatabaseOp, error) {
	if _, exists := c.databases[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseAlreadyExists, name)
	}
	op := &DatabaseOp{Database: core.NewDatabase(name)}
	c.databases[name] = op
	return op, nil
}

func (c *Catalog) Lookup(name string) (*DatabaseOp, bool) {
	op, ok := c.databases[name]
	return op, ok
}

// Use selects a resident database and reports whether it was found.
func (c *Catalog) Use(name string) bool {
	op, ok := c.databases[name]
	if ok {
		c.current = op
	}
	return ok
}

// Attach installs database, replacing any resident database of the same
// name, and selects it.
func (c *Catalog) Attach(database *core.Database) *DatabaseOp {
	op := &DatabaseOp{Database: database}
	c.databases[database.Name] = op
	c.current = op
	return op
}

func (c *Catalog) Current() (*DatabaseOp, error) {
	if c.current == nil {
		return nil, ErrNoDatabaseSelected
	}
	return c.current, nil
}

// CurrentName returns the selected database name, or "" if none.
func (c *Catalog) CurrentName() string {
	if c.current == nil {
		return ""
	}
	return c.current.Name()
}

func (c *Catalog) DatabaseNames() []string {
	names := make([]string, 0, len(c.databases))
	for name := range c.databases {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

package ps

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v6/plumbing/object"
)

// Transaction describes one successful commit of a database file. Id is
// empty for stores that keep no version identifier.
type Transaction struct {
	Id     string
	When   time.Time
	Author string // "Name <email>" format
}

func (transaction Transaction) String() string {
	return fmt.Sprintf("Transaction{Id: %s, When: %s, Author: %s}", transaction.Id, transaction.When, transaction.Author)
}

func transactionFromCommit(c *object.Commit) Transaction {
	author := ""
	if c.Author.Name != "" || c.Author.Email != "" {
		author = fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email)
	}
	return Transaction{
		Id:     c.Hash.String(),
		When:   c.Committer.When,
		Author: author,
	}
}

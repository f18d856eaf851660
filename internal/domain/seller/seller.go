package seller

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested seller does not exist.
var ErrNotFound = errors.New("seller not found")

// Seller represents a member of the sales team.
type Seller struct {
	ID        string
	FirstName string
	LastName  string
}

// FullName returns the seller's display name as "<first> <last>".
func (s Seller) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Repository defines read operations for the seller roster.
type Repository interface {
	List(ctx context.Context) ([]Seller, error)
	GetByID(ctx context.Context, id string) (*Seller, error)
}

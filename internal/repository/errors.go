// Error types that are reused across multiple
// repositories.  Higher layers translate them into the inventory error
// taxonomy.
package repository

import "errors"

// ErrConflict is returned when a write cannot be performed because the
// row changed underneath the caller, such as selling a ticket that was
// already sold.
var ErrConflict = errors.New("conflict")

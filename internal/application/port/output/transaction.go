package output

import "context"

// TransactionManager runs a unit of work atomically across repositories.
// Repositories called with txCtx join the transaction; a non-nil error from fn
// discards every write made through txCtx.
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

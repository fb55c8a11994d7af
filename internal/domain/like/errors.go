package like

import "errors"

var (
	ErrTransactionConflict = errors.New("like counter update conflicted")
	ErrUnknownVisitor      = errors.New("visitor identity missing")
)

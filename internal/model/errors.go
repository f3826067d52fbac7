package model

import "errors"

// ErrUnknownSymbol indicates a stem, branch, element or constitution outside the fixed tables.
var ErrUnknownSymbol = errors.New("unknown symbol")

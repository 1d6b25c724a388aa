package router

import "errors"

// ErrNoCandidates indicates the router has no registered models.
var ErrNoCandidates = errors.New("router: no model candidates registered")

package db

import "errors"

// ErrQueryFailed wraps driver errors from snapshot queries.
var ErrQueryFailed = errors.New("snapshot query failed")

package api

import "errors"

// ErrMissingField marks a well-formed response that lacks a field the
// pipeline depends on. Callers treat it as a category-level failure rather
// than aborting the whole run.
var ErrMissingField = errors.New("required field missing from response")

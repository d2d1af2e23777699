package application

import "errors"

var ErrNotFound = errors.New("not found")
var ErrConflict = errors.New("conflict")
var ErrBadRequest = errors.New("bad request")
var ErrSessionBusy = errors.New("session busy")

// ValidationError carries a user-facing validation message.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

package storage

import "errors"

// ErrInvalidSession is returned when a save is given a session without an ID,
// or a prev and next with different IDs
var ErrInvalidSession = errors.New("invalid session for save")

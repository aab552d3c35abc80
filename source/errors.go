package source

import "errors"

// ErrNoGenerator indicates that no responder is listening on the request subject.
var ErrNoGenerator = errors.New("no data generator available")

// ErrRemoteGenerator indicates that the remote generator reported an error.
var ErrRemoteGenerator = errors.New("remote generator failed")

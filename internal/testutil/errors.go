package testutil

import "errors"

// ErrSimulated is injected by fakes to exercise failure paths.
var ErrSimulated = errors.New("simulated failure")

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package links

import "errors"

// Redemption failure kinds. Callers get exactly one of these (or
// repository.ErrNotFound) so the link holder can tell an exhausted
// link from an expired one.
var (
	ErrAlreadyUsed = errors.New("link already used")
	ErrExpired     = errors.New("link expired")
	ErrOTPExpired  = errors.New("otp expired")
	ErrInvalidOTP  = errors.New("invalid otp")
	ErrRateLimited = errors.New("too many otp attempts")
)

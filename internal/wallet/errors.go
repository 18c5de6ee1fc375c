package wallet

import "errors"

var (
	ErrDuplicateEntry     = errors.New("duplicate pass entry")
	ErrReservedEntry      = errors.New("reserved pass entry name")
	ErrMissingAsset       = errors.New("missing wallet asset")
	ErrCredentialMismatch = errors.New("signing key does not match certificate")
	ErrAvatarUnavailable  = errors.New("avatar unavailable")
)

package geom

import "errors"

// Configuration errors, checked once at domain construction.
var (
	ErrBridgeTooWide              = errors.New("geom: bridge height must be less than the reservoir diameter")
	ErrChannelLengthNeedsFlatGate = errors.New("geom: distance-as-channel-length requires a flat gate")
)

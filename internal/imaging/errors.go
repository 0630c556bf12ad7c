package imaging

import "errors"

// Sentinel errors for image recoding.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrNoVectorTool      = errors.New("no vector image tool configured")
	ErrUnknownVectorTool = errors.New("unknown vector image tool")
	ErrDecode            = errors.New("decoding image")
	ErrEncode            = errors.New("encoding PNG")
	ErrVectorTool        = errors.New("vector image tool failed")
)

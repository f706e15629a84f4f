package docpipe

import "errors"

// ErrUnsupportedFormat is returned when a file extension is not one of the
// supported draft formats. Fatal to the request that submitted the file.
var ErrUnsupportedFormat = errors.New("docpipe: unsupported file type")

// ErrDocumentRead is returned when the underlying format parser fails on a
// corrupt or unreadable file.
var ErrDocumentRead = errors.New("docpipe: document read failed")

package thumbnail

import "errors"

// ErrUnavailable means no thumbnail could be produced. Callers treat it as
// "no thumbnail" rather than a failure of the video.
var ErrUnavailable = errors.New("thumbnail unavailable")

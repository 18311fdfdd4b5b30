package sitesearch

import "errors"

var ErrCloseFailed = errors.New("failed to close service")

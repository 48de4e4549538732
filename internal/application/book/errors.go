package book

import "errors"

var errNoGenerator = errors.New("semantic search unavailable")

package helper

import (
	"github.com/gosimple/slug"
)

// StationSlug is the lookup key of a station queue. Names that differ only in
// case, accents or punctuation share a queue.
func StationSlug(name string) string {
	return slug.Make(name)
}

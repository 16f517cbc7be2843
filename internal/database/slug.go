package database

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

func slugify(title string, at time.Time) string {
	return slug.Make(fmt.Sprintf("%s %d", title, at.Unix()))
}

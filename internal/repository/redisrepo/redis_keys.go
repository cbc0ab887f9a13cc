package redisrepo

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	POST_KEY       = "post:%s"       // <postID>
	POST_LEASE_KEY = "post:%s:lease" // <postID>
)

func PostKey(postID uuid.UUID) string {
	return fmt.Sprintf(POST_KEY, postID.String())
}

func PostLeaseKey(postID uuid.UUID) string {
	return fmt.Sprintf(POST_LEASE_KEY, postID.String())
}

// Package users resolves numeric user ids to login names.
package users

import (
	"os/user"
	"strconv"
	"sync"
)

// Unlisted is shown for user ids that have no passwd entry.
const Unlisted = "unlisted"

// Resolver maps a user id to a display name. Implementations never fail;
// unknown ids resolve to a placeholder.
type Resolver interface {
	Username(uid uint32) string
}

// LookupFunc looks up a user by numeric id, like user.LookupId.
type LookupFunc func(uid string) (*user.User, error)

// Cache is a Resolver that memoizes lookups, including misses.
type Cache struct {
	lookup LookupFunc

	mu    sync.Mutex
	names map[uint32]string
}

// NewCache returns a Cache backed by lookup, or by the OS user database when
// lookup is nil.
func NewCache(lookup LookupFunc) *Cache {
	if lookup == nil {
		lookup = user.LookupId
	}
	return &Cache{
		lookup: lookup,
		names:  make(map[uint32]string),
	}
}

// Username returns the login name for uid, or Unlisted when the id is unknown.
func (c *Cache) Username(uid uint32) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name, ok := c.names[uid]; ok {
		return name
	}

	name := Unlisted
	if u, err := c.lookup(strconv.FormatUint(uint64(uid), 10)); err == nil && u != nil && u.Username != "" {
		name = u.Username
	}
	c.names[uid] = name
	return name
}

// Static is a fixed uid→name table, mostly useful in tests.
type Static map[uint32]string

// Username returns the mapped name or Unlisted.
func (s Static) Username(uid uint32) string {
	if name, ok := s[uid]; ok {
		return name
	}
	return Unlisted
}

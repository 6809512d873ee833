// Package nameservice resolves user and group names to numeric ids via the
// host's account database. It is consulted only while parsing an expression
// (`user=alice`, `group=staff`); nothing in the evaluation path touches it.
package nameservice

import (
	"os/user"
	"strconv"
)

// Host looks names up with os/user. Create one with NewHost: the lookup
// caches are maps, which the zero value leaves nil.
//
// Lookups are memoized: an expression like `user=alice or user=alice and ...`
// hits the account database once. The cache needs no locking because parsing
// is single-threaded and the parser is the only caller.
type Host struct {
	users  map[string]lookupResult
	groups map[string]lookupResult
}

type lookupResult struct {
	id uint32
	ok bool
}

// NewHost creates a host-backed name service.
func NewHost() *Host {
	return &Host{
		users:  map[string]lookupResult{},
		groups: map[string]lookupResult{},
	}
}

// ResolveUser returns the uid for name, or false if the account database has
// no such user.
func (h *Host) ResolveUser(name string) (uint32, bool) {
	if r, ok := h.users[name]; ok {
		return r.id, r.ok
	}

	r := lookupResult{}

	if u, err := user.Lookup(name); err == nil {
		if uid, err := strconv.ParseUint(u.Uid, 10, 32); err == nil {
			r = lookupResult{id: uint32(uid), ok: true}
		}
	}

	h.users[name] = r

	return r.id, r.ok
}

// ResolveGroup returns the gid for name, or false if the account database
// has no such group.
func (h *Host) ResolveGroup(name string) (uint32, bool) {
	if r, ok := h.groups[name]; ok {
		return r.id, r.ok
	}

	r := lookupResult{}

	if g, err := user.LookupGroup(name); err == nil {
		if gid, err := strconv.ParseUint(g.Gid, 10, 32); err == nil {
			r = lookupResult{id: uint32(gid), ok: true}
		}
	}

	h.groups[name] = r

	return r.id, r.ok
}

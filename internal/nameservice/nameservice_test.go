package nameservice_test

import (
	"os/user"
	"strconv"
	"testing"

	"github.com/pfind/pfind/internal/nameservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUser_CurrentUser(t *testing.T) {
	t.Parallel()

	current, err := user.Current()
	if err != nil {
		t.Skipf("no current user available: %v", err)
	}

	expected, err := strconv.ParseUint(current.Uid, 10, 32)
	if err != nil {
		t.Skipf("non-numeric uid %q", current.Uid)
	}

	ns := nameservice.NewHost()

	uid, ok := ns.ResolveUser(current.Username)
	require.True(t, ok)
	assert.Equal(t, uint32(expected), uid)

	// Second lookup serves from the cache and must agree.
	again, ok := ns.ResolveUser(current.Username)
	require.True(t, ok)
	assert.Equal(t, uid, again)
}

func TestResolveUser_UnknownName(t *testing.T) {
	t.Parallel()

	ns := nameservice.NewHost()

	_, ok := ns.ResolveUser("no-such-user-pfind-test")
	assert.False(t, ok)

	// The negative result is cached too.
	_, ok = ns.ResolveUser("no-such-user-pfind-test")
	assert.False(t, ok)
}

func TestResolveGroup_UnknownName(t *testing.T) {
	t.Parallel()

	ns := nameservice.NewHost()

	_, ok := ns.ResolveGroup("no-such-group-pfind-test")
	assert.False(t, ok)
}

//go:build darwin

package walk

import (
	"io/fs"
	"syscall"
	"time"

	pfinderrors "github.com/pfind/pfind/internal/errors"
)

func sysStat(info fs.FileInfo) (*syscall.Stat_t, error) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, pfinderrors.New("no system stat data for " + info.Name())
	}

	return st, nil
}

func accessTime(info fs.FileInfo) (time.Time, error) {
	st, err := sysStat(info)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec), nil
}

func birthTime(info fs.FileInfo) (time.Time, error) {
	st, err := sysStat(info)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec), nil
}

func ownerUID(info fs.FileInfo) (uint32, error) {
	st, err := sysStat(info)
	if err != nil {
		return 0, err
	}

	return st.Uid, nil
}

func ownerGID(info fs.FileInfo) (uint32, error) {
	st, err := sysStat(info)
	if err != nil {
		return 0, err
	}

	return st.Gid, nil
}

// device returns the id of the filesystem holding info, for the
// same-filesystem confinement check.
func device(info fs.FileInfo) (uint64, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}

	return uint64(st.Dev), true
}

package walk

import (
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/pfind/pfind/internal/filter"
)

// osEntry adapts one discovered directory entry onto the filter.Entry
// contract. The cheap fields (name, path, depth, the dirent's type bits)
// come straight from the directory read; everything that needs a stat is
// fetched lazily, once, on first use, so entries that only ever answer
// Name()/Depth() never pay for a syscall.
type osEntry struct {
	path   string
	name   string
	depth  uint
	dirent fs.DirEntry

	statOnce sync.Once
	info     fs.FileInfo
	statErr  error
}

var _ filter.Entry = (*osEntry)(nil)

func newEntry(path, name string, depth uint, dirent fs.DirEntry) *osEntry {
	return &osEntry{path: path, name: name, depth: depth, dirent: dirent}
}

// lstat resolves the entry's FileInfo without following symlinks, caching
// both the result and the failure.
func (e *osEntry) lstat() (fs.FileInfo, error) {
	e.statOnce.Do(func() {
		if e.dirent != nil {
			e.info, e.statErr = e.dirent.Info()
			return
		}

		e.info, e.statErr = os.Lstat(e.path)
	})

	return e.info, e.statErr
}

func (e *osEntry) EntryType() (filter.EntryType, error) {
	var mode fs.FileMode

	if e.dirent != nil {
		mode = e.dirent.Type()
	} else {
		info, err := e.lstat()
		if err != nil {
			return filter.TypeUnknown, err
		}

		mode = info.Mode()
	}

	return entryTypeOf(mode), nil
}

func entryTypeOf(mode fs.FileMode) filter.EntryType {
	switch {
	case mode.IsRegular():
		return filter.TypeFile
	case mode.IsDir():
		return filter.TypeDir
	case mode&fs.ModeSymlink != 0:
		return filter.TypeSymlink
	case mode&fs.ModeSocket != 0:
		return filter.TypeSocket
	case mode&fs.ModeCharDevice != 0:
		return filter.TypeCharDevice
	case mode&fs.ModeDevice != 0:
		return filter.TypeBlockDevice
	case mode&fs.ModeNamedPipe != 0:
		return filter.TypeFIFO
	default:
		return filter.TypeUnknown
	}
}

func (e *osEntry) Name() (string, error) { return e.name, nil }

func (e *osEntry) Path() (string, error) { return e.path, nil }

func (e *osEntry) Depth() (uint, error) { return e.depth, nil }

func (e *osEntry) Size() (uint64, error) {
	info, err := e.lstat()
	if err != nil {
		return 0, err
	}

	size := info.Size()
	if size < 0 {
		return 0, nil
	}

	return uint64(size), nil
}

func (e *osEntry) ModTime() (time.Time, error) {
	info, err := e.lstat()
	if err != nil {
		return time.Time{}, err
	}

	return info.ModTime(), nil
}

func (e *osEntry) AccessTime() (time.Time, error) {
	info, err := e.lstat()
	if err != nil {
		return time.Time{}, err
	}

	return accessTime(info)
}

func (e *osEntry) BirthTime() (time.Time, error) {
	info, err := e.lstat()
	if err != nil {
		return time.Time{}, err
	}

	return birthTime(info)
}

func (e *osEntry) UID() (uint32, error) {
	info, err := e.lstat()
	if err != nil {
		return 0, err
	}

	return ownerUID(info)
}

func (e *osEntry) GID() (uint32, error) {
	info, err := e.lstat()
	if err != nil {
		return 0, err
	}

	return ownerGID(info)
}

func (e *osEntry) Permissions() (uint32, error) {
	info, err := e.lstat()
	if err != nil {
		return 0, err
	}

	return uint32(info.Mode().Perm()), nil
}

func (e *osEntry) Open() (filter.ReadCloser, error) {
	return os.Open(e.path)
}

// Package shm provides helpers for dealing with shared memory.
package shm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// Dir is where shared memory files are created on systems without
// memfd_create.
var Dir = "/dev/shm"

// CreateFile creates an anonymous shared memory file. It prefers
// memfd_create and falls back to a uniquely named file in Dir that is
// unlinked immediately.
func CreateFile() (*os.File, error) {
	fd, err := unix.MemfdCreate("wlframe-pool", unix.MFD_CLOEXEC)
	if err == nil {
		return os.NewFile(uintptr(fd), "wlframe-pool"), nil
	}
	if !errors.Is(err, unix.ENOSYS) && !errors.Is(err, unix.EPERM) {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}

	return createUnlinked(Dir)
}

func createUnlinked(dir string) (*os.File, error) {
	path := filepath.Join(dir, "wlframe-"+uuid.New().String())

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	err = os.Remove(path)
	if err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}

type Mmap []byte

func Map(file *os.File, size int, prot int) (mmap Mmap, err error) {
	sc, err := file.SyscallConn()
	if err != nil {
		return nil, err
	}

	cerr := sc.Control(func(fd uintptr) {
		m, merr := unix.Mmap(int(fd), 0, size, prot, unix.MAP_SHARED)
		mmap, err = Mmap(m), merr
	})
	if cerr != nil {
		return nil, cerr
	}

	return mmap, err
}

func (mmap Mmap) Unmap() error {
	return unix.Munmap(mmap)
}

// Region is a shared memory file mapped into the process.
type Region struct {
	file *os.File
	mmap Mmap
}

// Create creates and maps a shared memory region of the given size.
func Create(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid region size %v", size)
	}

	file, err := CreateFile()
	if err != nil {
		return nil, fmt.Errorf("create shared memory file: %w", err)
	}

	r := Region{file: file}
	err = r.mapSize(size)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &r, nil
}

func (r *Region) mapSize(size int) error {
	err := r.file.Truncate(int64(size))
	if err != nil {
		return fmt.Errorf("truncate shared memory file: %w", err)
	}

	mmap, err := Map(r.file, size, unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		return fmt.Errorf("mmap shared memory file: %w", err)
	}
	r.mmap = mmap
	return nil
}

// File returns the region's file, to be sent to the compositor.
func (r *Region) File() *os.File {
	return r.file
}

// Size returns the size of the region in bytes.
func (r *Region) Size() int {
	return len(r.mmap)
}

// Bytes returns the mapped memory. It is invalidated by Grow and
// Close.
func (r *Region) Bytes() []byte {
	return r.mmap
}

// Grow extends the region to size bytes and remaps it. The existing
// contents are preserved. Shrinking is not supported.
func (r *Region) Grow(size int) error {
	if size < r.Size() {
		return fmt.Errorf("cannot shrink region from %v to %v bytes", r.Size(), size)
	}
	if size == r.Size() {
		return nil
	}

	err := r.mmap.Unmap()
	if err != nil {
		return fmt.Errorf("unmap: %w", err)
	}
	r.mmap = nil
	return r.mapSize(size)
}

// Close unmaps the region and closes its file.
func (r *Region) Close() error {
	var errs []error
	if r.mmap != nil {
		errs = append(errs, r.mmap.Unmap())
		r.mmap = nil
	}
	errs = append(errs, r.file.Close())
	return errors.Join(errs...)
}

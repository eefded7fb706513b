package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ferrors "github.com/fernweh-dev/fern/internal/errors"
)

// FragmentExt is the file extension for markup fragments.
const FragmentExt = ".html"

// ErrNotFound reports a fragment missing from the content source.
var ErrNotFound = errors.New("fragment not found")

// Loader retrieves markup fragments and the JSON data payload from a
// content source. Loads are the only blocking operations in the system;
// both honor context cancellation from the caller's side, but a superseded
// load is never cancelled by the engine itself — a late response can still
// overwrite the currently displayed component.
type Loader interface {
	// Fragment returns the markup for the named fragment.
	Fragment(ctx context.Context, name string) ([]byte, error)

	// Data returns the JSON content payload.
	Data(ctx context.Context) ([]byte, error)
}

// Disk loads fragments from a directory and the payload from a single JSON
// file.
type Disk struct {
	dir      string
	dataFile string
}

// NewDisk creates a disk loader. dataFile may be empty when the site has
// no payload.
func NewDisk(dir, dataFile string) *Disk {
	return &Disk{dir: dir, dataFile: dataFile}
}

// Fragment implements Loader. Names are restricted to a single path
// segment so a request can never escape the fragments directory.
func (d *Disk) Fragment(_ context.Context, name string) ([]byte, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: bad fragment name %q", ErrNotFound, name)
	}
	raw, err := os.ReadFile(filepath.Join(d.dir, name+FragmentExt))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, ferrors.New("E010").Wrap(err)
	}
	return raw, nil
}

// Data implements Loader.
func (d *Disk) Data(_ context.Context) ([]byte, error) {
	if d.dataFile == "" {
		return nil, ferrors.New("E011")
	}
	raw, err := os.ReadFile(d.dataFile)
	if err != nil {
		return nil, ferrors.New("E011").Wrap(err)
	}
	return raw, nil
}

// Fragments lists the fragment names available on disk, for route
// registration at startup.
func (d *Disk) Fragments() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, FragmentExt) {
			names = append(names, strings.TrimSuffix(name, FragmentExt))
		}
	}
	return names, nil
}

// validName accepts single-segment fragment names: no separators, no
// leading dot, nothing empty.
func validName(name string) bool {
	if name == "" || name[0] == '.' {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

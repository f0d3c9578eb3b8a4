// ABOUTME: Dataset abstraction over the NetCDF container library
// ABOUTME: Confines the go-native-netcdf API to one adapter so tests can fake it
package netcdf

import (
	"fmt"

	gonetcdf "github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// Dataset is the minimal read surface the extractor needs from an opened
// profile file. Values returns the raw array for a named variable; shape
// coercion happens in this package, not in the container library.
type Dataset interface {
	Variables() []string
	Has(name string) bool
	Values(name string) (any, bool)
	Close() error
}

// ncDataset adapts an api.Group to the Dataset interface.
type ncDataset struct {
	group api.Group
}

// OpenDataset opens a NetCDF file from disk.
func OpenDataset(path string) (Dataset, error) {
	group, err := gonetcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open container: %w", err)
	}
	return &ncDataset{group: group}, nil
}

func (d *ncDataset) Variables() []string {
	return d.group.ListVariables()
}

func (d *ncDataset) Has(name string) bool {
	for _, v := range d.group.ListVariables() {
		if v == name {
			return true
		}
	}
	return false
}

func (d *ncDataset) Values(name string) (any, bool) {
	vr, err := d.group.GetVariable(name)
	if err != nil || vr == nil {
		return nil, false
	}
	return vr.Values, true
}

func (d *ncDataset) Close() error {
	d.group.Close()
	return nil
}

// ABOUTME: In-memory Dataset fake for tests
// ABOUTME: Backs the extractor tests without real NetCDF files on disk
package netcdf

import "errors"

var errUnknownFakePath = errors.New("no fake dataset for path")

// FakeDataset is an in-memory Dataset for tests. Keys are Argo variable
// names; values are raw arrays in any shape the coercion layer accepts.
type FakeDataset struct {
	Vars   map[string]any
	Closed bool
}

// NewFakeDataset creates a FakeDataset over the given variables.
func NewFakeDataset(vars map[string]any) *FakeDataset {
	return &FakeDataset{Vars: vars}
}

func (d *FakeDataset) Variables() []string {
	names := make([]string, 0, len(d.Vars))
	for name := range d.Vars {
		names = append(names, name)
	}
	return names
}

func (d *FakeDataset) Has(name string) bool {
	_, ok := d.Vars[name]
	return ok
}

func (d *FakeDataset) Values(name string) (any, bool) {
	v, ok := d.Vars[name]
	return v, ok
}

func (d *FakeDataset) Close() error {
	d.Closed = true
	return nil
}

// fakeOpener returns an opener that serves ds for every path.
func fakeOpener(ds Dataset) func(string) (Dataset, error) {
	return func(string) (Dataset, error) { return ds, nil }
}

// SetOpener replaces the dataset opener. Tests outside this package use
// it to feed fakes through the full processing path.
func (p *Processor) SetOpener(open func(string) (Dataset, error)) {
	if open != nil {
		p.open = open
	}
}

// FakeOpenerByPath serves a distinct fake dataset per base file name,
// erroring for unknown paths.
func FakeOpenerByPath(byName map[string]*FakeDataset) func(string) (Dataset, error) {
	return func(path string) (Dataset, error) {
		for name, ds := range byName {
			if len(path) >= len(name) && path[len(path)-len(name):] == name {
				return ds, nil
			}
		}
		return nil, errUnknownFakePath
	}
}

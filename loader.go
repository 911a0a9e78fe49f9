package perform

import (
	"fmt"
	"os"
	"path/filepath"
)

const marketDirname = "market"

// Workspace is one data folder holding everything a run needs: the
// instrument registry, the market price folder, the holdings and the
// benchmark declarations.
//
// Files that do not exist yet read as empty: a fresh workspace resolves
// nothing and prices nothing, and the gap report says so. Only a file that
// exists and cannot be parsed is an error.
type Workspace struct {
	path     string
	currency string
}

// NewWorkspace returns a workspace rooted at path, with market prices
// quoted in the given currency.
func NewWorkspace(path, currency string) *Workspace {
	return &Workspace{path: path, currency: currency}
}

// Path returns the workspace root folder.
func (w *Workspace) Path() string { return w.path }

// Currency returns the quote currency of the workspace.
func (w *Workspace) Currency() string { return w.currency }

// MarketDir returns the folder holding the yearly price files.
func (w *Workspace) MarketDir() string { return filepath.Join(w.path, marketDirname) }

// Registry loads the instrument registry, empty when the file does not
// exist yet.
func (w *Workspace) Registry() (*Registry, error) {
	filename := filepath.Join(w.path, registryFilename)
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open registry file %q: %w", filename, err)
	}
	defer f.Close()
	return DecodeRegistry(filename, f)
}

// SaveRegistry persists the registry, creating the workspace folder when
// needed.
func (w *Workspace) SaveRegistry(reg *Registry) error {
	if err := os.MkdirAll(w.path, 0755); err != nil {
		return fmt.Errorf("cannot create workspace folder %q: %w", w.path, err)
	}
	filename := filepath.Join(w.path, registryFilename)
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create registry file %q: %w", filename, err)
	}
	defer f.Close()
	return EncodeRegistry(f, reg)
}

// Market loads the market prices, empty when the folder does not exist yet.
func (w *Workspace) Market() (*MarketData, error) {
	return DecodeMarketPrices(w.MarketDir(), w.currency)
}

// SaveMarket persists the market prices into the yearly files.
func (w *Workspace) SaveMarket(m *MarketData) error {
	if err := os.MkdirAll(w.MarketDir(), 0755); err != nil {
		return fmt.Errorf("cannot create market folder %q: %w", w.MarketDir(), err)
	}
	return EncodeMarketPrices(w.MarketDir(), m)
}

// Portfolios loads the holdings grouped by entity, empty when the file does
// not exist yet.
func (w *Workspace) Portfolios() ([]Portfolio, error) {
	filename := filepath.Join(w.path, holdingsFilename)
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open holdings file %q: %w", filename, err)
	}
	defer f.Close()
	return DecodeHoldings(filename, f)
}

// SavePortfolios persists the holdings.
func (w *Workspace) SavePortfolios(portfolios []Portfolio) error {
	if err := os.MkdirAll(w.path, 0755); err != nil {
		return fmt.Errorf("cannot create workspace folder %q: %w", w.path, err)
	}
	filename := filepath.Join(w.path, holdingsFilename)
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create holdings file %q: %w", filename, err)
	}
	defer f.Close()
	return EncodeHoldings(f, portfolios)
}

// Benchmarks loads the benchmark declarations, empty when the file does not
// exist yet.
func (w *Workspace) Benchmarks() ([]BenchmarkSpec, error) {
	filename := filepath.Join(w.path, benchmarksFilename)
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open benchmarks file %q: %w", filename, err)
	}
	defer f.Close()
	return DecodeBenchmarks(filename, f)
}

// SaveBenchmarks persists the benchmark declarations.
func (w *Workspace) SaveBenchmarks(specs []BenchmarkSpec) error {
	if err := os.MkdirAll(w.path, 0755); err != nil {
		return fmt.Errorf("cannot create workspace folder %q: %w", w.path, err)
	}
	filename := filepath.Join(w.path, benchmarksFilename)
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create benchmarks file %q: %w", filename, err)
	}
	defer f.Close()
	return EncodeBenchmarks(f, specs)
}

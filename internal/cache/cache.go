// Package cache persists the most recently discovered slave address so a
// later pairing attempt can offer it as a default instead of re-reading or
// re-scanning. One record, overwritten on every successful slave phase.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/danieljhkim/hcpair/internal/addr"
	"github.com/danieljhkim/hcpair/internal/clock"
)

// Record is the on-disk shape of the cached address.
type Record struct {
	SlaveAddrColon string            `json:"slave_addr_colon"`
	SlaveAddrComma string            `json:"slave_addr_comma"`
	Meta           map[string]string `json:"meta,omitempty"`
	Timestamp      string            `json:"timestamp"`
}

// Cache reads and writes the single-record address file.
type Cache struct {
	path string
	clk  clock.Clock
}

// New creates a Cache storing its record at path.
func New(path string, clk clock.Clock) *Cache {
	return &Cache{path: path, clk: clk}
}

// DefaultPath returns the per-user location of the cache file.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(dir, "hcpair", "last_pair.json"), nil
}

// WriteLast replaces the cached record with a and its metadata.
func (c *Cache) WriteLast(a addr.Address, meta map[string]string) error {
	record := Record{
		SlaveAddrColon: a.Colon,
		SlaveAddrComma: a.Comma,
		Meta:           meta,
		Timestamp:      c.clk.Now().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal address cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write address cache: %w", err)
	}
	return nil
}

// LoadLast returns the cached address, or false when no usable record
// exists. A corrupt or missing file is not an error; the cache is only a
// convenience default.
func (c *Cache) LoadLast() (addr.Address, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return addr.Address{}, false
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return addr.Address{}, false
	}
	if record.SlaveAddrColon == "" || record.SlaveAddrComma == "" {
		return addr.Address{}, false
	}
	return addr.Address{Colon: record.SlaveAddrColon, Comma: record.SlaveAddrComma}, true
}

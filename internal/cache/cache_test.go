package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/hcpair/internal/addr"
	"github.com/danieljhkim/hcpair/internal/clock"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	clk := clock.NewFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return New(filepath.Join(t.TempDir(), "sub", "last_pair.json"), clk)
}

func TestCache_RoundTrip(t *testing.T) {
	c := testCache(t)
	a := addr.Address{Colon: "1234:56:ABCDEF", Comma: "1234,56,ABCDEF"}

	if err := c.WriteLast(a, map[string]string{"port": "/dev/ttyUSB0"}); err != nil {
		t.Fatalf("WriteLast: %v", err)
	}

	got, ok := c.LoadLast()
	if !ok {
		t.Fatal("LoadLast found nothing")
	}
	if got != a {
		t.Errorf("LoadLast = %+v, want %+v", got, a)
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := testCache(t)

	first := addr.Address{Colon: "1111:22:333333", Comma: "1111,22,333333"}
	second := addr.Address{Colon: "4444:55:666666", Comma: "4444,55,666666"}

	if err := c.WriteLast(first, nil); err != nil {
		t.Fatalf("WriteLast: %v", err)
	}
	if err := c.WriteLast(second, nil); err != nil {
		t.Fatalf("WriteLast: %v", err)
	}

	got, ok := c.LoadLast()
	if !ok || got != second {
		t.Errorf("LoadLast = %+v ok=%v, want %+v", got, ok, second)
	}
}

func TestCache_MissingFile(t *testing.T) {
	c := testCache(t)
	if _, ok := c.LoadLast(); ok {
		t.Error("LoadLast reported a record for a missing file")
	}
}

func TestCache_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "last_pair.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(path, clock.NewFakeClock(time.Now()))
	if _, ok := c.LoadLast(); ok {
		t.Error("LoadLast reported a record for a corrupt file")
	}
}

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/enonoeno/housingbot/internal/housing"
)

// ErrNoTable means no ward sheet exists for the requested address.
var ErrNoTable = errors.New("ward table not found")

// Store owns the per-ward spreadsheet files under one root directory,
// laid out as <root>/<Datacenter>/<Server>/<District>/NN.xlsx.
//
// Tables are never cached: every operation re-reads the backing sheet,
// mutates in memory and writes the whole sheet back. A keyed mutex
// serializes that cycle per table, so the command path and the scan loop
// can run on separate goroutines without interleaving writes.
type Store struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(root string) *Store {
	return &Store{root: root, locks: make(map[string]*sync.Mutex)}
}

func (s *Store) tableLock(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[path]
	if !ok {
		l = &sync.Mutex{}
		s.locks[path] = l
	}
	return l
}

func (s *Store) districtDir(dc, server string, d housing.District) string {
	return filepath.Join(s.root, capitalize(dc), capitalize(server), d.String())
}

func (s *Store) tablePath(a housing.Address) string {
	return filepath.Join(s.districtDir(a.Datacenter, a.Server, a.District),
		fmt.Sprintf("%02d.xlsx", a.Ward))
}

// Load reads the ward table holding a. The returned table is normalized to
// exactly 60 rows.
func (s *Store) Load(a housing.Address) (*housing.WardTable, error) {
	path := s.tablePath(a)
	l := s.tableLock(path)
	l.Lock()
	defer l.Unlock()
	return s.load(path, a.Ward)
}

func (s *Store) load(path string, ward int) (*housing.WardTable, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, path)
	}
	t, err := readTable(path, ward)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// Update runs fn under the table's lock with a freshly loaded copy. When fn
// returns save=true the whole table is written back before the lock is
// released; on any error nothing is written.
func (s *Store) Update(a housing.Address, fn func(t *housing.WardTable) (save bool, err error)) error {
	path := s.tablePath(a)
	l := s.tableLock(path)
	l.Lock()
	defer l.Unlock()

	t, err := s.load(path, a.Ward)
	if err != nil {
		return err
	}
	save, err := fn(t)
	if err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := writeTable(path, t); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Create writes a fresh normalized table for a ward, overwriting any
// existing sheet. Used by maintenance tooling to seed a district.
func (s *Store) Create(a housing.Address, t *housing.WardTable) error {
	path := s.tablePath(a)
	l := s.tableLock(path)
	l.Lock()
	defer l.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	t.Normalize()
	if err := writeTable(path, t); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var wardDigits = regexp.MustCompile(`\d+`)

// Wards lists the ward numbers that have a sheet for one district, ascending.
// The ward number comes from the digits of the file stem; discovery order of
// the directory listing is irrelevant.
func (s *Store) Wards(dc, server string, d housing.District) ([]int, error) {
	matches, err := filepath.Glob(filepath.Join(s.districtDir(dc, server, d), "*.xlsx"))
	if err != nil {
		return nil, err
	}
	var wards []int
	for _, m := range matches {
		stem := strings.TrimSuffix(filepath.Base(m), filepath.Ext(m))
		digits := wardDigits.FindString(stem)
		if digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n < 1 || n > housing.MaxWards {
			continue
		}
		wards = append(wards, n)
	}
	sort.Ints(wards)
	return wards, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

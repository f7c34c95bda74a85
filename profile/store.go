// Package profile records per-call-site and per-inline-cache-site
// counters and flushes them to a SQLite database. It implements
// vm.ProfileSink but never influences execution; a nil *Store is a
// no-op sink so profiling stays entirely optional.
package profile

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/smazumder05/zetavm/vm"
)

type siteCounters struct {
	calls  uint64
	cycles uint64
}

type cacheCounters struct {
	hits   uint64
	misses uint64
}

// Store accumulates counters in memory, keyed by call-site/cache-site
// object identity, and writes them to a SQLite database on Flush or
// Close. The mutex serializes access to the counter maps.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string

	sites  map[*vm.Object]*siteCounters
	caches map[*vm.Object]*cacheCounters
}

// Open opens (creating if necessary) a SQLite database at path and
// prepares its counter tables.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("profile: opening %s: %w", path, err)
	}
	s := &Store{
		db:     db,
		path:   path,
		sites:  make(map[*vm.Object]*siteCounters),
		caches: make(map[*vm.Object]*cacheCounters),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS call_sites (
	site_id  INTEGER PRIMARY KEY AUTOINCREMENT,
	calls    INTEGER NOT NULL,
	cycles   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cache_sites (
	site_id  INTEGER PRIMARY KEY AUTOINCREMENT,
	hits     INTEGER NOT NULL,
	misses   INTEGER NOT NULL
);
`
	_, err := s.db.Exec(ddl)
	if err != nil {
		return fmt.Errorf("profile: migrating %s: %w", s.path, err)
	}
	return nil
}

// RecordCall increments site's invocation counter (vm.ProfileSink).
func (s *Store) RecordCall(site *vm.Object) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sites[site]
	if !ok {
		c = &siteCounters{}
		s.sites[site] = c
	}
	c.calls++
}

// RecordCacheAccess increments site's hit or miss counter (vm.ProfileSink).
func (s *Store) RecordCacheAccess(site *vm.Object, hit bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.caches[site]
	if !ok {
		c = &cacheCounters{}
		s.caches[site] = c
	}
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

// AddCycles adds n to site's cycle counter, called once per completed
// top-level run rather than per instruction to keep the hot loop free of
// profiler bookkeeping.
func (s *Store) AddCycles(site *vm.Object, n uint64) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sites[site]
	if !ok {
		c = &siteCounters{}
		s.sites[site] = c
	}
	c.cycles += n
}

// Flush writes every accumulated counter to the database and clears the
// in-memory tables.
func (s *Store) Flush() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("profile: flush: %w", err)
	}
	for _, c := range s.sites {
		if _, err := tx.Exec(`INSERT INTO call_sites(calls, cycles) VALUES (?, ?)`, c.calls, c.cycles); err != nil {
			tx.Rollback()
			return fmt.Errorf("profile: flush call site: %w", err)
		}
	}
	for _, c := range s.caches {
		if _, err := tx.Exec(`INSERT INTO cache_sites(hits, misses) VALUES (?, ?)`, c.hits, c.misses); err != nil {
			tx.Rollback()
			return fmt.Errorf("profile: flush cache site: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("profile: flush commit: %w", err)
	}
	s.sites = make(map[*vm.Object]*siteCounters)
	s.caches = make(map[*vm.Object]*cacheCounters)
	return nil
}

// Close flushes any pending counters and closes the underlying database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	if err := s.Flush(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

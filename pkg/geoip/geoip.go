package geoip

import (
	"net"
	"sync"

	"github.com/oschwald/maxminddb-golang"
	"github.com/zeebo/errs"
)

// Error is the error class for geo lookups.
var Error = errs.Class("geoip")

// Location is the coarse place an address resolves to. Empty fields mean
// the database had no answer.
type Location struct {
	Country string
	City    string
}

// cityRecord mirrors the subset of a GeoLite2-City record we read.
type cityRecord struct {
	Country struct {
		ISOCode string            `maxminddb:"iso_code"`
		Names   map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
}

// Reader is the part of *maxminddb.Reader used here.
type Reader interface {
	Lookup(ip net.IP, result interface{}) error
	Close() error
}

// Locator resolves addresses to locations.
type Locator interface {
	Locate(ip string) Location
}

// DB is a Locator backed by a MaxMind database, memoising answers per
// address. The memo is capped; once full it is reset wholesale.
type DB struct {
	reader Reader

	mu    sync.RWMutex
	cache map[string]Location
	max   int
}

// Open opens the database at path.
func Open(path string) (*DB, error) {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, Error.New("unable to open geo location db: %w", err)
	}
	return NewDB(reader), nil
}

func NewDB(reader Reader) *DB {
	return &DB{reader: reader, cache: make(map[string]Location), max: 4096}
}

// Locate never fails: unknown, private or malformed addresses resolve to the
// zero Location.
func (db *DB) Locate(ip string) Location {
	db.mu.RLock()
	loc, ok := db.cache[ip]
	db.mu.RUnlock()
	if ok {
		return loc
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}
	}

	var record cityRecord
	if err := db.reader.Lookup(parsed, &record); err == nil {
		loc = Location{
			Country: record.Country.Names["en"],
			City:    record.City.Names["en"],
		}
		if loc.Country == "" {
			loc.Country = record.Country.ISOCode
		}
	}

	db.mu.Lock()
	if len(db.cache) >= db.max {
		db.cache = make(map[string]Location)
	}
	db.cache[ip] = loc
	db.mu.Unlock()

	return loc
}

func (db *DB) Close() error {
	return db.reader.Close()
}

// Noop is used when no database is configured.
type Noop struct{}

func (Noop) Locate(string) Location { return Location{} }

// Package geo resolves client IPs to countries for click enrichment.
package geo

import (
	"net"

	"github.com/oschwald/maxminddb-golang"
)

// Reader wraps a MaxMind database. A Reader without a database is a no-op,
// so deployments without a .mmdb file still work.
type Reader struct {
	db *maxminddb.Reader
}

// Open opens a MaxMind .mmdb file. An empty path yields a no-op Reader.
func Open(path string) (*Reader, error) {
	if path == "" {
		return &Reader{}, nil
	}
	db, err := maxminddb.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{db: db}, nil
}

// Close releases the underlying database, if any.
func (r *Reader) Close() {
	if r != nil && r.db != nil {
		r.db.Close()
	}
}

// Country returns the ISO 3166-1 alpha-2 country code for an IP, or ""
// when the IP cannot be resolved.
func (r *Reader) Country(ipStr string) string {
	if r == nil || r.db == nil {
		return ""
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}

	var record struct {
		Country struct {
			ISOCode string `maxminddb:"iso_code"`
		} `maxminddb:"country"`
	}
	if err := r.db.Lookup(ip, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

package utils

import "github.com/zeebo/xxh3"

// Fingerprint hashes statement text for cache keys.
func Fingerprint(s string) uint64 {
	return xxh3.HashString(s)
}

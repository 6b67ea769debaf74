package repository

import "strings"

// Every todo lives under this prefix so a pattern scan can enumerate them.
const keyPrefix = "hebeos:notes:"

// EncodeKey maps a todo id to its storage key.
func EncodeKey(id string) string {
	return keyPrefix + id
}

// DecodeKey extracts the id from a storage key: the suffix after the last
// separator. Minted ids are numeric, so an id containing the separator never
// occurs in practice; such a key would decode to its last segment.
func DecodeKey(key string) string {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		return key[i+1:]
	}
	return key
}

// KeyPattern returns the scan pattern covering the whole namespace.
func KeyPattern() string {
	return keyPrefix + "*"
}

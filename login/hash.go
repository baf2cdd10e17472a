package login

import (
	"crypto/md5" //nolint:gosec // The lab's stored hashes are MD5.
	"encoding/hex"
	"fmt"
	"hash"
	"slices"

	"golang.org/x/crypto/sha3"
)

// Hasher computes the value stored in the password column of the credential
// store. Implementations must be deterministic, since the hash is used as a
// lookup key.
type Hasher interface {
	Name() string
	Sum(password string) string
}

type hexHasher struct {
	name string
	new  func() hash.Hash
}

func (h hexHasher) Name() string {
	return h.name
}

func (h hexHasher) Sum(password string) string {
	hh := h.new()
	hh.Write([]byte(password))
	return hex.EncodeToString(hh.Sum(nil))
}

// MD5 returns the hasher the lab's default users are stored with. It's fast
// and unsalted, so it should never be used outside of the lab.
func MD5() Hasher {
	return hexHasher{name: "md5", new: md5.New}
}

// SHA3 returns a SHA3-256 hasher.
func SHA3() Hasher {
	return hexHasher{name: "sha3-256", new: sha3.New256}
}

var hashers = map[string]func() Hasher{
	"md5":      MD5,
	"sha3-256": SHA3,
}

// HasherByName returns the hasher with the given name.
func HasherByName(name string) (Hasher, error) {
	newHasher, ok := hashers[name]
	if !ok {
		return nil, fmt.Errorf("unknown hash function '%s'", name)
	}

	return newHasher(), nil
}

// HasherNames returns the names of all supported hash functions, sorted.
func HasherNames() []string {
	names := make([]string, 0, len(hashers))
	for name := range hashers {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

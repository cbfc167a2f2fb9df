// Package identity derives a stable, human-readable agent identity from an
// opaque session token. The derivation is a pure function: the same token
// always produces the same identity, across calls and process restarts,
// which is what makes worktree provisioning idempotent without any stored
// state beyond the token itself.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"unicode"
)

// BranchPrefix is prepended to every derived branch name.
const BranchPrefix = "auto-worktree"

// EmailDomain is the fixed domain used for derived commit-author emails.
const EmailDomain = "burrow.dev"

// HashLength is the number of hex characters kept from the token digest.
// 32 bits of hash is a deliberate readability-over-collision-resistance
// tradeoff; acceptable for the session volumes a single host sees.
const HashLength = 8

// Identity is the derived agent identity for one session.
type Identity struct {
	// Hash is the first 8 hex characters of the sha256 of the session token.
	Hash string
	// MiddleName is a lowercase human-readable name picked deterministically
	// from the hash.
	MiddleName string
	// UserName is MiddleName with its first letter upper-cased, used as the
	// commit-author display name.
	UserName string
	// UserEmail is MiddleName @ the fixed domain.
	UserEmail string
	// BranchName is "auto-worktree/<middleName>-<hash>".
	BranchName string
}

// Slug returns the "<middleName>-<hash>" form used for worktree directory names.
func (id Identity) Slug() string {
	return id.MiddleName + "-" + id.Hash
}

// Derive computes the identity for a session token. It never fails and has
// no side effects.
func Derive(token string) Identity {
	sum := sha256.Sum256([]byte(token))
	hash := hex.EncodeToString(sum[:])[:HashLength]

	// The hash always parses: it is 8 hex characters by construction.
	seed, _ := strconv.ParseUint(hash, 16, 64)
	middleName := nameCorpus[seed%uint64(len(nameCorpus))]

	return Identity{
		Hash:       hash,
		MiddleName: middleName,
		UserName:   capitalize(middleName),
		UserEmail:  middleName + "@" + EmailDomain,
		BranchName: BranchPrefix + "/" + middleName + "-" + hash,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

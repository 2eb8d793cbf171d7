package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type to avoid cross-entity collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PageUUID identifies a page definition by organization scope and name.
// Names are case-sensitive.
func PageUUID(orgScope, name string) uuid.UUID {
	return UUID("composer:page:" + strings.TrimSpace(orgScope) + ":" + strings.TrimSpace(name))
}

// SectionUUID identifies a section definition by its public key.
func SectionUUID(key string) uuid.UUID {
	return UUID("composer:section:" + strings.TrimSpace(key))
}

// Package ident generates the short prefixed identifiers used as
// persistence keys: an entity-kind tag plus a random hex token,
// e.g. "tbl_3f9c2a71d0be" or "row_0a1b2c3d4e5f".
package ident

import (
	"strings"

	"github.com/google/uuid"
)

const tokenLen = 12

// New returns a fresh identifier for the given entity kind.
func New(kind string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return kind + "_" + hex[:tokenLen]
}

// NewTableID returns an identifier for a table document.
func NewTableID() string { return New("tbl") }

// NewRowID returns an identifier for a row within a table.
func NewRowID() string { return New("row") }

package sqlite

import (
	"fmt"
	"strings"

	"go.trai.ch/mirror/internal/core/domain"
)

const (
	freshnessTable = "freshness"

	recordColumns    = "primary_key, owner_key, sort_key, payload, cached_at, expires_at"
	freshnessColumns = "key, namespace, owner_key, last_updated, item_count"
)

// namespaceMigration returns the schema step of ns at its declared version.
// Every statement is guarded by IF NOT EXISTS, so a version bump only adds what is missing.
func namespaceMigration(ns domain.Namespace) migration {
	return migration{
		name: fmt.Sprintf("%s@v%d", ns.Name, ns.Version),
		up:   namespaceDDL(ns),
	}
}

func namespaceDDL(ns domain.Namespace) string {
	table := ns.Table()

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", table)
	b.WriteString("    primary_key TEXT PRIMARY KEY,\n")
	b.WriteString("    owner_key TEXT NOT NULL,\n")
	b.WriteString("    sort_key INTEGER NOT NULL,\n")
	b.WriteString("    payload BLOB NOT NULL,\n")
	b.WriteString("    cached_at INTEGER NOT NULL,\n")
	b.WriteString("    expires_at INTEGER NOT NULL DEFAULT 0\n")
	b.WriteString(");\n")

	for _, idx := range ns.Indexes() {
		switch idx {
		case domain.IndexOwner:
			fmt.Fprintf(&b, "CREATE INDEX IF NOT EXISTS %s_owner ON %s (owner_key, sort_key DESC);\n", table, table)
		case domain.IndexExpiry:
			fmt.Fprintf(&b, "CREATE INDEX IF NOT EXISTS %s_expiry ON %s (expires_at);\n", table, table)
		}
	}
	return b.String()
}

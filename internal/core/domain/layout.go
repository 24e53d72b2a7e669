package domain

import "path/filepath"

const (
	// MirrorDirName is the name of the local data directory.
	MirrorDirName = ".mirror"

	// StoreFileName is the name of the SQLite entity store file.
	StoreFileName = "entities.db"

	// ConfigFileName is the name of the optional configuration file.
	ConfigFileName = "mirror.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// DefaultPage is the page used when neither the caller nor the preferences supply one.
	DefaultPage = 1

	// DefaultPageSize is the page size used when neither the caller nor the preferences supply one.
	DefaultPageSize = 20
)

// DefaultStorePath returns the default path of the entity store.
// It joins .mirror and entities.db.
func DefaultStorePath() string {
	return filepath.Join(MirrorDirName, StoreFileName)
}

// DefaultConfigPath returns the default path of the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(MirrorDirName, ConfigFileName)
}

package domain

import "go.trai.ch/zerr"

var (
	// ErrStorageUnavailable is returned when the durable entity store cannot be opened or used.
	// Accessors degrade to network-only operation when they observe it.
	ErrStorageUnavailable = zerr.New("entity storage unavailable")

	// ErrNetworkFailure is returned when a retrieval fails and no cached fallback exists.
	ErrNetworkFailure = zerr.New("network retrieval failed")

	// ErrStaleWriteIgnored marks a successful but empty retrieval that was not allowed to replace
	// a non-empty cached set. It is reported, never returned as a failure.
	ErrStaleWriteIgnored = zerr.New("empty refresh ignored for non-empty cached set")

	// ErrOwnerScopeViolation is returned when a query is issued without a complete owner tuple.
	ErrOwnerScopeViolation = zerr.New("owner scope violation")

	// ErrLegacyOwnerNotAllowed is returned when the legacy global owner is used on a namespace
	// that was never retrofitted with owner scoping.
	ErrLegacyOwnerNotAllowed = zerr.New("legacy global owner not allowed for namespace")

	// ErrUnknownNamespace is returned when a namespace is not declared in the catalog.
	ErrUnknownNamespace = zerr.New("unknown namespace")

	// ErrUnknownIndex is returned when a query names an index the namespace does not declare.
	ErrUnknownIndex = zerr.New("index not declared for namespace")

	// ErrInvalidNamespace is returned when a namespace declaration fails validation.
	ErrInvalidNamespace = zerr.New("invalid namespace declaration")

	// ErrStoreNotOpen is returned when a store is used before Open succeeded.
	ErrStoreNotOpen = zerr.New("entity store is not open")

	// ErrStoreReadFailed is returned when reading from the entity store fails.
	ErrStoreReadFailed = zerr.New("failed to read from entity store")

	// ErrStoreWriteFailed is returned when writing to the entity store fails.
	ErrStoreWriteFailed = zerr.New("failed to write to entity store")

	// ErrMigrationFailed is returned when a schema migration cannot be applied.
	ErrMigrationFailed = zerr.New("failed to apply schema migration")

	// ErrPayloadEncodeFailed is returned when an entity cannot be encoded for storage.
	ErrPayloadEncodeFailed = zerr.New("failed to encode entity payload")

	// ErrPayloadDecodeFailed is returned when a stored payload cannot be decoded.
	ErrPayloadDecodeFailed = zerr.New("failed to decode entity payload")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigEnvFailed is returned when environment overrides cannot be parsed.
	ErrConfigEnvFailed = zerr.New("failed to parse environment overrides")

	// ErrInvalidPolicyOverride is returned when a namespace policy override is malformed.
	ErrInvalidPolicyOverride = zerr.New("invalid namespace policy override")

	// ErrCredentialUnavailable is returned when the credential source cannot supply a token.
	ErrCredentialUnavailable = zerr.New("credential unavailable")

	// ErrInvalidOwnerKey is returned when an owner key cannot be interpreted by a retriever.
	ErrInvalidOwnerKey = zerr.New("invalid owner key for retriever")
)

package domain

import "errors"

// Common domain errors
var (
	// ErrConnectorNotFound is returned when no connector is registered for an id or provider
	ErrConnectorNotFound = errors.New("connector not found")

	// ErrAccountNotFound is returned when an external account does not exist
	ErrAccountNotFound = errors.New("external account not found")

	// ErrAccountDisabled is returned when syncing a disabled account
	ErrAccountDisabled = errors.New("external account is disabled")

	// ErrProviderNotFound is returned when no metadata provider is registered for an id
	ErrProviderNotFound = errors.New("metadata provider not found")

	// ErrNoMetadataFound is returned when every applicable provider came up empty
	ErrNoMetadataFound = errors.New("no metadata found")

	// ErrDeviceTokenInvalid is returned when a push device token matches no active device
	ErrDeviceTokenInvalid = errors.New("device token invalid")

	// ErrInvalidPlayerProfile is returned when a player profile violates its invariants
	ErrInvalidPlayerProfile = errors.New("invalid player profile")

	// ErrEnrichmentQueueFull is recorded on a metadata job dropped because the
	// background queue was at capacity
	ErrEnrichmentQueueFull = errors.New("enrichment queue full")
)

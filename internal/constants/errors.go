package constants

import "errors"

// Configuration errors.
var (
	ErrNoProjectsConfigured = errors.New("no projects configured, use 'dato projects add' to add one")
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectExists        = errors.New("project already exists")
	ErrNoTokenConfigured    = errors.New("no API token configured, use 'dato login' or set DATOCMS_API_TOKEN")
	ErrUnknownConfigKey     = errors.New("unknown configuration key")
	ErrEmptyToken           = errors.New("token must not be empty")
)

// Validation errors.
var (
	ErrInvalidAttributes  = errors.New("attributes must be a JSON object")
	ErrModelRequired      = errors.New("--model flag is required")
	ErrNoFieldsGiven      = errors.New("no fields given, use --field key=value or --json")
	ErrInvalidFieldFlag   = errors.New("invalid --field value, expected key=value")
	ErrInvalidOutput      = errors.New("invalid output format")
	ErrNoTagsGiven        = errors.New("at least one tag is required")
	ErrConfirmationNeeded = errors.New("refusing to continue without --yes")
)

// Webhook receiver errors.
var (
	ErrNoSinksConfigured = errors.New("no webhook sinks configured")
)

// File system errors.
var (
	ErrNotRegularFile             = errors.New("path is not a regular file")
	ErrDirectoryTraversalDetected = errors.New("directory traversal detected in file path")
)

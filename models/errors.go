package models

import (
	"fmt"
	"strings"
)

// NameError reports a parameter name that does not follow POSIX shell
// variable naming conventions.
type NameError struct {
	ParamType string // e.g. "Input parameter", "Environment variable"
	Name      string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid %s name: %q", e.ParamType, e.Name)
}

// UriError reports a URI that was rejected during validation, either for an
// unsupported provider or a disallowed path construct.
type UriError struct {
	URI    string
	Reason string
}

func (e *UriError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.URI)
}

// CollisionError reports duplicate parameter names across a job's env,
// input and output classes. Duplicates holds every offending name, not just
// the first, so all conflicts can be fixed in one pass.
type CollisionError struct {
	Duplicates []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("bad job config; duplicate names found: %s",
		strings.Join(e.Duplicates, ", "))
}

// ConfigError reports a malformed resources configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid resources config: %s: %s", e.Field, e.Reason)
}

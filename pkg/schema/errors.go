package schema

import "fmt"

// MissingKeyError reports that a required join key column is absent from a
// source table. This is fatal: joining without the key would fabricate data.
type MissingKeyError struct {
	Table string
	Key   string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("source %q is missing required join key column %q", e.Table, e.Key)
}

// EmptySourceError reports that a required source table has zero data rows.
// A unified set cannot be produced safely from an empty source.
type EmptySourceError struct {
	Table string
}

func (e *EmptySourceError) Error() string {
	return fmt.Sprintf("source %q contains no rows", e.Table)
}

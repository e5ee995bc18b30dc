package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError    = "error"
	FieldPath     = "path"
	FieldOutput   = "output"
	FieldManifest = "manifest"
	FieldRoot     = "root"

	// Extraction fields.
	FieldDocuments = "documents"
	FieldEntries   = "entries"
	FieldGroups    = "groups"
	FieldJobs      = "jobs"

	// Metrics fields.
	FieldTargetClass = "target_class"
	FieldPitPath     = "pit_path"
	FieldJacocoPath  = "jacoco_path"
	FieldCandidates  = "candidates"
	FieldCSV         = "csv"

	// Discovery fields.
	FieldAttempt = "attempt"
	FieldRuns    = "runs"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

package types

// Version is the canonical project version.
// The CLI, the report schema and the solver contract share this version.
const Version = "0.4.0"

// ReportSchemaVersion identifies the persisted report layout.
// Bump it whenever a field is renamed or its meaning changes.
const ReportSchemaVersion = "2"

package log

// FieldComponent tags every record with the subsystem that emitted it.
const FieldComponent = "component"

// ComponentApp is the default component for process-level records.
const ComponentApp = "app"

package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldPipelineID is the lead-generation pipeline run ID
	FieldPipelineID = "pipeline_id"

	// FieldSessionID is the search session ID
	FieldSessionID = "session_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldSource is the candidate origin (local knowledge base, web search)
	FieldSource = "source"
)

// Standard metric fields, attached at the entry level for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)

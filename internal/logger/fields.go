package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldBatchID identifies one dedup batch
	FieldBatchID = "batch_id"

	// FieldPhrase is the phrase being processed
	FieldPhrase = "phrase"

	// FieldComponent is the component/module name
	FieldComponent = "component"
)

// Standard metric fields, used for aggregation and alerting.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldSimilarity is the best cosine similarity score for a phrase
	FieldSimilarity = "similarity"

	// FieldDecision is the dedup outcome for a phrase: reuse or generate
	FieldDecision = "decision"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)

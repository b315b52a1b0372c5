package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldState        = "state"
	fieldWithdrawnAt  = "withdrawn_at"
	fieldDeletedAt    = "deleted_at"
	fieldPasswordHash = "password_hash"
	fieldAnswer       = "answer"
)

package dynamo

// DynamoDB attribute names for the verifications table.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldIdentifier = "identifier"
	fieldIssueID    = "issue_id"
	fieldExpiresAt  = "expires_at" // TTL attribute, Unix seconds
)

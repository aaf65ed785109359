package model

import "time"

// Names of the fields tracked by the match determination. These appear in
// discrepancy reports and as column flags in the match table.
const (
	FieldNamedInsured   = "named_insured"
	FieldEffectiveDate  = "effective_date"
	FieldExpirationDate = "expiration_date"
	FieldAgentCode      = "agent_code"
	FieldPriorCarrier   = "prior_carrier"
	FieldPolicyNumber   = "policy_number"
	FieldAgentNumber    = "agent_number"
)

// ExtractedPolicyFacts is the normalized view of a document-understanding
// result for a POP declarations page. Absent fields are nil, never a
// sentinel value. AllFieldsPresent is false if any required field could not
// be extracted; Missing names each one so partial results stay diagnosable.
type ExtractedPolicyFacts struct {
	AllFieldsPresent bool           `json:"all_fields_present"`
	Raw              map[string]any `json:"raw,omitempty"`

	PolicyID       *string `json:"policy_id,omitempty"`
	NamedInsured   *string `json:"named_insured,omitempty"`
	EffectiveDate  *string `json:"effective_date,omitempty"`
	ExpirationDate *string `json:"expiration_date,omitempty"`
	AgentCode      *int    `json:"agent_code,omitempty"`
	PriorCarrier   *string `json:"prior_carrier,omitempty"`

	Missing []string `json:"missing,omitempty"`
}

// AuthoritativeFacts is the comparison target fetched fresh from the
// system of record's decision page for a policy. Nullable columns map to
// nil pointers.
type AuthoritativeFacts struct {
	PolicyID       string     `json:"policy_id"`
	NamedInsured   *string    `json:"named_insured"`
	EffectiveDate  *time.Time `json:"effective_date"`
	ExpirationDate *time.Time `json:"expiration_date"`
	AgentCode      *int       `json:"agent_code"`
	PriorCarrier   *string    `json:"prior_carrier"`
}

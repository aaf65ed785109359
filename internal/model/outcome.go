package model

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// FieldDiscrepancy records one field where the document and the decision
// page disagree. Values are rendered as strings; absent values render as
// "<absent>".
type FieldDiscrepancy struct {
	FieldName          string `json:"field_name" xml:"name"`
	ExtractedValue     string `json:"extracted_value" xml:"document_value"`
	AuthoritativeValue string `json:"authoritative_value" xml:"record_value"`
}

// MatchOutcome is the immutable result of comparing one extracted document
// against its decision page. AllFieldsMatch is true iff Discrepancies is
// empty.
type MatchOutcome struct {
	PolicyID       string             `json:"policy_id"`
	AllFieldsMatch bool               `json:"all_fields_match"`
	Discrepancies  []FieldDiscrepancy `json:"discrepancies"`
}

// Summary renders a one-line human-readable outcome for the tracking ledger.
func (m MatchOutcome) Summary() string {
	if m.AllFieldsMatch {
		return "MATCHED: all fields match"
	}
	names := make([]string, len(m.Discrepancies))
	for i, d := range m.Discrepancies {
		names[i] = d.FieldName
	}
	return fmt.Sprintf("MISMATCH: %s", strings.Join(names, ", "))
}

// XML renders the structured discrepancy report stored in the match
// table's remarks column.
func (m MatchOutcome) XML() (string, error) {
	doc := struct {
		XMLName        xml.Name           `xml:"match_result"`
		PolicyID       string             `xml:"policy_id"`
		AllFieldsMatch bool               `xml:"all_fields_match"`
		Discrepancies  []FieldDiscrepancy `xml:"discrepancies>field"`
	}{
		PolicyID:       m.PolicyID,
		AllFieldsMatch: m.AllFieldsMatch,
		Discrepancies:  m.Discrepancies,
	}
	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out), nil
}

// MatchReport is the flattened row written back to the system of record's
// match table, keyed by (policy_id, file_id).
type MatchReport struct {
	PolicyID            string
	FileID              string
	NamedInsured        *string
	ExpirationDate      *string
	AgentCode           *int
	PriorCarrier        *string
	AllFieldsMatch      bool
	NamedInsuredMatch   bool
	EffectiveDateMatch  bool
	ExpirationDateMatch bool
	AgentCodeMatch      bool
	PriorCarrierMatch   bool
	Remarks             string
}

// BuildMatchReport flattens a MatchOutcome plus the extracted facts into a
// write-back row. Per-field booleans start true and flip for each recorded
// discrepancy.
func BuildMatchReport(fileID string, facts ExtractedPolicyFacts, outcome MatchOutcome) (MatchReport, error) {
	remarks, err := outcome.XML()
	if err != nil {
		return MatchReport{}, err
	}

	r := MatchReport{
		PolicyID:            outcome.PolicyID,
		FileID:              fileID,
		NamedInsured:        facts.NamedInsured,
		ExpirationDate:      facts.ExpirationDate,
		AgentCode:           facts.AgentCode,
		PriorCarrier:        facts.PriorCarrier,
		AllFieldsMatch:      outcome.AllFieldsMatch,
		NamedInsuredMatch:   true,
		EffectiveDateMatch:  true,
		ExpirationDateMatch: true,
		AgentCodeMatch:      true,
		PriorCarrierMatch:   true,
		Remarks:             remarks,
	}
	for _, d := range outcome.Discrepancies {
		switch d.FieldName {
		case FieldNamedInsured:
			r.NamedInsuredMatch = false
		case FieldEffectiveDate:
			r.EffectiveDateMatch = false
		case FieldExpirationDate:
			r.ExpirationDateMatch = false
		case FieldAgentCode:
			r.AgentCodeMatch = false
		case FieldPriorCarrier:
			r.PriorCarrierMatch = false
		}
	}
	return r, nil
}

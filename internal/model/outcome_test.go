package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutcome() MatchOutcome {
	return MatchOutcome{
		PolicyID:       "482144",
		AllFieldsMatch: false,
		Discrepancies: []FieldDiscrepancy{
			{FieldName: FieldAgentCode, ExtractedValue: "104", AuthoritativeValue: "207"},
			{FieldName: FieldPriorCarrier, ExtractedValue: "Ocean Harbor", AuthoritativeValue: "<absent>"},
		},
	}
}

func TestMatchOutcome_Summary(t *testing.T) {
	matched := MatchOutcome{PolicyID: "482144", AllFieldsMatch: true}
	assert.Equal(t, "MATCHED: all fields match", matched.Summary())

	assert.Equal(t, "MISMATCH: agent_code, prior_carrier", sampleOutcome().Summary())
}

func TestMatchOutcome_XML(t *testing.T) {
	out, err := sampleOutcome().XML()
	require.NoError(t, err)

	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, "<match_result>")
	assert.Contains(t, out, "<policy_id>482144</policy_id>")
	assert.Contains(t, out, "<all_fields_match>false</all_fields_match>")
	assert.Contains(t, out, "<name>agent_code</name>")
	assert.Contains(t, out, "<document_value>104</document_value>")
	assert.Contains(t, out, "<record_value>207</record_value>")
	assert.Contains(t, out, "&lt;absent&gt;")
}

func TestMatchOutcome_XMLNoDiscrepancies(t *testing.T) {
	out, err := MatchOutcome{PolicyID: "482144", AllFieldsMatch: true}.XML()
	require.NoError(t, err)
	assert.Contains(t, out, "<all_fields_match>true</all_fields_match>")
	assert.NotContains(t, out, "<field>")
}

func TestBuildMatchReport_FlipsPerFieldFlags(t *testing.T) {
	insured := "John Doe"
	exp := "2024-07-15"
	code := 104
	facts := ExtractedPolicyFacts{
		NamedInsured:   &insured,
		ExpirationDate: &exp,
		AgentCode:      &code,
	}

	report, err := BuildMatchReport("SC001234", facts, sampleOutcome())
	require.NoError(t, err)

	assert.Equal(t, "482144", report.PolicyID)
	assert.Equal(t, "SC001234", report.FileID)
	assert.False(t, report.AllFieldsMatch)
	assert.False(t, report.AgentCodeMatch)
	assert.False(t, report.PriorCarrierMatch)
	assert.True(t, report.NamedInsuredMatch)
	assert.True(t, report.EffectiveDateMatch)
	assert.True(t, report.ExpirationDateMatch)
	assert.Contains(t, report.Remarks, "<match_result>")

	require.NotNil(t, report.AgentCode)
	assert.Equal(t, 104, *report.AgentCode)
	assert.Nil(t, report.PriorCarrier)
}

func TestBuildMatchReport_CleanMatch(t *testing.T) {
	outcome := MatchOutcome{PolicyID: "482144", AllFieldsMatch: true}
	report, err := BuildMatchReport("SC001234", ExtractedPolicyFacts{}, outcome)
	require.NoError(t, err)

	assert.True(t, report.AllFieldsMatch)
	assert.True(t, report.NamedInsuredMatch)
	assert.True(t, report.AgentCodeMatch)
	assert.True(t, report.PriorCarrierMatch)
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusNotProcessed, StatusInProgress, StatusFailed, StatusProcessed} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("DONE").Valid())
	assert.False(t, Status("").Valid())
}

package recon

import (
	"strconv"
	"time"

	"github.com/starcasualty/popmatch/internal/compare"
	"github.com/starcasualty/popmatch/internal/model"
)

const absent = "<absent>"

// Compare runs the field-by-field match determination between extracted
// document facts and the decision page. It accumulates a discrepancy for
// every mismatching tracked field; AllFieldsMatch is true iff none.
func Compare(facts model.ExtractedPolicyFacts, auth model.AuthoritativeFacts) model.MatchOutcome {
	outcome := model.MatchOutcome{
		PolicyID:       auth.PolicyID,
		AllFieldsMatch: true,
	}
	mismatch := func(field, extracted, authoritative string) {
		outcome.AllFieldsMatch = false
		outcome.Discrepancies = append(outcome.Discrepancies, model.FieldDiscrepancy{
			FieldName:          field,
			ExtractedValue:     extracted,
			AuthoritativeValue: authoritative,
		})
	}

	if !compare.NamedInsuredEqual(facts.NamedInsured, auth.NamedInsured) {
		mismatch(model.FieldNamedInsured, renderString(facts.NamedInsured), renderString(auth.NamedInsured))
	}
	if !compare.DatesEqual(facts.EffectiveDate, auth.EffectiveDate) {
		mismatch(model.FieldEffectiveDate, renderString(facts.EffectiveDate), renderDate(auth.EffectiveDate))
	}
	if !compare.DatesEqual(facts.ExpirationDate, auth.ExpirationDate) {
		mismatch(model.FieldExpirationDate, renderString(facts.ExpirationDate), renderDate(auth.ExpirationDate))
	}
	if !compare.CodesEqual(facts.AgentCode, auth.AgentCode) {
		mismatch(model.FieldAgentCode, renderInt(facts.AgentCode), renderInt(auth.AgentCode))
	}
	if !compare.TextEqual(facts.PriorCarrier, auth.PriorCarrier) {
		mismatch(model.FieldPriorCarrier, renderString(facts.PriorCarrier), renderString(auth.PriorCarrier))
	}

	return outcome
}

func renderString(s *string) string {
	if s == nil {
		return absent
	}
	return *s
}

func renderInt(n *int) string {
	if n == nil {
		return absent
	}
	return strconv.Itoa(*n)
}

func renderDate(t *time.Time) string {
	if t == nil {
		return absent
	}
	return t.Format("2006-01-02")
}

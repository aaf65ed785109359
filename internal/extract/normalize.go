package extract

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/starcasualty/popmatch/internal/model"
)

// Normalize converts a loosely-structured document-understanding result
// into typed policy facts. Each required field is extracted independently
// so a maximally-informative partial record survives any single miss;
// AllFieldsPresent flips false on the first absent field and never resets.
// Callers must inspect AllFieldsPresent before trusting the record.
func Normalize(raw map[string]any) model.ExtractedPolicyFacts {
	facts := model.ExtractedPolicyFacts{
		AllFieldsPresent: true,
		Raw:              raw,
	}
	miss := func(field string) {
		facts.AllFieldsPresent = false
		facts.Missing = append(facts.Missing, field)
	}

	if agent, ok := childObject(raw, "insurance_agent_info"); ok {
		if code, ok := intField(agent, "agent_number"); ok {
			facts.AgentCode = &code
		} else {
			miss(model.FieldAgentNumber)
		}
	} else {
		miss(model.FieldAgentNumber)
	}

	if policy, ok := childObject(raw, "policy_summary"); ok {
		if num, ok := stringField(policy, "policy_number"); ok {
			facts.PolicyID = &num
		} else {
			miss(model.FieldPolicyNumber)
		}
		if period, ok := childObject(policy, "policy_period"); ok {
			if start, ok := stringField(period, "start_date"); ok {
				facts.EffectiveDate = &start
			} else {
				miss(model.FieldEffectiveDate)
			}
			if end, ok := stringField(period, "end_date"); ok {
				facts.ExpirationDate = &end
			} else {
				miss(model.FieldExpirationDate)
			}
		} else {
			miss(model.FieldEffectiveDate)
			miss(model.FieldExpirationDate)
		}
		if carrier, ok := stringField(policy, "underwritten_by"); ok {
			facts.PriorCarrier = &carrier
		} else {
			miss(model.FieldPriorCarrier)
		}
	} else {
		miss(model.FieldPolicyNumber)
		miss(model.FieldEffectiveDate)
		miss(model.FieldExpirationDate)
		miss(model.FieldPriorCarrier)
	}

	if insured, ok := childObject(raw, "named_insured"); ok {
		if name, ok := stringField(insured, "name"); ok {
			facts.NamedInsured = &name
		} else {
			miss(model.FieldNamedInsured)
		}
	} else {
		miss(model.FieldNamedInsured)
	}

	if !facts.AllFieldsPresent {
		zap.L().Warn("extraction is missing required fields",
			zap.Strings("missing", facts.Missing),
		)
	}
	return facts
}

func childObject(m map[string]any, key string) (map[string]any, bool) {
	child, ok := m[key].(map[string]any)
	return child, ok
}

// stringField returns a trimmed string value; blank after trimming counts
// as absent.
func stringField(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// intField parses a numeric code that arrives either as a JSON number or
// a digit string. Non-numeric counts as absent.
func intField(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

package extract

// schemaJSON is the target schema handed to the document-understanding
// model. It normalizes heterogeneous auto insurance declarations pages
// into one shape; the match determination only consumes a handful of these
// fields, but the wider schema keeps the model anchored on the document
// structure.
const schemaJSON = `{
  "type": "object",
  "properties": {
    "document_type": {"type": "string", "enum": ["Auto Insurance Declarations Page"]},
    "policy_summary": {
      "type": "object",
      "properties": {
        "policy_number": {"type": "string"},
        "underwritten_by": {"type": "string"},
        "issue_date": {"type": "string", "format": "date"},
        "policy_period": {
          "type": "object",
          "properties": {
            "start_date": {"type": "string", "format": "date"},
            "end_date": {"type": "string", "format": "date"}
          },
          "required": ["start_date", "end_date"]
        },
        "total_policy_premium": {"type": "string"}
      },
      "required": ["policy_number", "underwritten_by", "policy_period"]
    },
    "insurance_agent_info": {
      "type": "object",
      "properties": {
        "agent_name": {"type": "string"},
        "agent_number": {"type": "string"}
      },
      "required": ["agent_name", "agent_number"]
    },
    "named_insured": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "address": {"type": "string"}
      },
      "required": ["name"]
    },
    "drivers_and_household_residents": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {"name": {"type": "string"}},
        "required": ["name"]
      }
    },
    "vehicle_details": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "year": {"type": "string"},
          "make": {"type": "string"},
          "model": {"type": "string"},
          "vin": {"type": "string"}
        },
        "required": ["year", "make", "model", "vin"]
      }
    }
  },
  "required": ["document_type", "policy_summary", "named_insured"]
}`

// extractionPrompt instructs the model. Dates must come back ISO so the
// date comparator can parse them; the agent number is often embedded in
// the agency name on the page.
const extractionPrompt = `You are an expert at extracting structured information from auto insurance declarations pages.
Analyze the provided document and extract the policy details, insured parties, agent information, and vehicle details.

The output MUST be a single JSON object that adheres to the JSON schema below.
Do not include any text outside of the JSON object.
If a field is not found in the document, omit it.
All dates must be formatted as YYYY-MM-DD.

Special note on the agent fields: the agent number may appear next to the agency name.
<example>
  Input string: ESTRELLA INSURANCE #104

  Output should contain:
     agent_name: ESTRELLA INSURANCE
     agent_number: 104
</example>

JSON Schema:
` + schemaJSON

// Schema returns the declarations-page JSON schema as given to the model.
func Schema() string {
	return schemaJSON
}

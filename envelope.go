package sufast

import "encoding/json"

// RequestEnvelope is the JSON record handed to the foreign handler for a
// dynamic-tier dispatch. Numbers are carried as strings throughout,
// URL-decoded verbatim; the bridge never coerces path or query values to
// numeric types itself.
type RequestEnvelope struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	PathParams  map[string]string `json:"path_params"`
	QueryParams map[string]string `json:"query_params"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body"`
}

// ResponseEnvelope is the JSON record returned by the foreign handler.
// Status defaults to 200 and Headers defaults to a nil map (which the
// dispatcher reads as "use application/json") when the foreign layer omits
// them.
type ResponseEnvelope struct {
	Status  int               `json:"status"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

// rawResponseEnvelope lets DecodeResponseEnvelope tell "status omitted"
// (defaulted to 200) apart from "status explicitly 0" (rejected as out of
// range).
type rawResponseEnvelope struct {
	Status  *int              `json:"status"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

// DecodeResponseEnvelope parses a response envelope, applying the default
// (status 200 when omitted) and rejecting a status outside 100..599, as
// required by the bridge's failure taxonomy.
func DecodeResponseEnvelope(data []byte) (*ResponseEnvelope, error) {
	var raw rawResponseEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	status := 200
	if raw.Status != nil {
		status = *raw.Status
	}

	if status < 100 || status > 599 {
		return nil, errStatusOutOfRange
	}

	return &ResponseEnvelope{
		Status:  status,
		Body:    raw.Body,
		Headers: raw.Headers,
	}, nil
}

// Encode serializes the request envelope to JSON.
func (re *RequestEnvelope) Encode() ([]byte, error) {
	return json.Marshal(re)
}

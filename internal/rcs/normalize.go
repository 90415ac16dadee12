package rcs

// Google RBM wraps message content in a contentMessage envelope:
//
//	{ contentMessage: { text, richCard, suggestions, ... }, messageTrafficType, ttl }
//
// The simulator stores the flat shape:
//
//	{ text, richCard, suggestions, ..., trafficType, ttl }
//
// NormalizePayload reconciles the two. An already-flat payload passes
// through unchanged, so the function is idempotent.

const wrapperField = "contentMessage"

// outputOnlyFields are assigned by the RBM backend on responses and must
// never survive into the stored payload.
var outputOnlyFields = []string{
	"name",
	"sendTime",
	"richMessageClassification",
	"totalPayloadSizeBytes",
	"carrier",
}

// NormalizePayload converts either wire shape into the canonical flat shape.
// A nil body is returned as-is. The query map carries request query
// parameters; a messageId query value is copied into the payload only when
// the body does not already name one. The input map is never mutated.
func NormalizePayload(body map[string]any, query map[string]string) map[string]any {
	if body == nil {
		return nil
	}

	out := body

	if wrapped, ok := body[wrapperField].(map[string]any); ok {
		out = make(map[string]any, len(body)+len(wrapped))
		for k, v := range body {
			out[k] = v
		}

		delete(out, wrapperField)
		delete(out, "messageTrafficType")
		for _, f := range outputOnlyFields {
			delete(out, f)
		}

		// Wrapper content wins over same-named top-level fields.
		for k, v := range wrapped {
			out[k] = v
		}

		if traffic, ok := body["messageTrafficType"]; ok && traffic != nil {
			out["trafficType"] = traffic
		}
	}

	if id := query["messageId"]; id != "" {
		if existing, ok := out["messageId"]; !ok || existing == nil || existing == "" {
			out = withMessageID(out, id)
		}
	}

	return out
}

func withMessageID(m map[string]any, id string) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out["messageId"] = id
	return out
}

package stream

// Envelope is a decoded Cloudflare API response body. Cloudflare wraps every
// response in {success, result, errors, messages}; the result schema grows
// over time, so the envelope stays a generic map with typed accessors for the
// fields this application reads.
type Envelope map[string]any

// Success reports the envelope's top-level success flag.
func (e Envelope) Success() bool {
	ok, _ := e["success"].(bool)
	return ok
}

// Result returns the result object, or nil when result is absent or a list.
func (e Envelope) Result() map[string]any {
	m, _ := e["result"].(map[string]any)
	return m
}

// ResultList returns the result as a list of objects, or nil when result is
// absent or a single object. Non-object entries are skipped.
func (e Envelope) ResultList() []map[string]any {
	raw, _ := e["result"].([]any)
	if raw == nil {
		return nil
	}
	items := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

// ResultString returns a string field of the result object, or "" when the
// field is missing or not a string.
func (e Envelope) ResultString(key string) string {
	return stringField(e.Result(), key)
}

// ResultInt64 returns a numeric field of the result object truncated to
// int64. JSON numbers decode as float64.
func (e Envelope) ResultInt64(key string) int64 {
	f, _ := e.Result()[key].(float64)
	return int64(f)
}

// Errors returns the envelope's errors list decoded into code/message pairs.
func (e Envelope) Errors() []APIMessage {
	raw, _ := e["errors"].([]any)
	if len(raw) == 0 {
		return nil
	}
	msgs := make([]APIMessage, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		code, _ := m["code"].(float64)
		msgs = append(msgs, APIMessage{
			Code:    int(code),
			Message: stringField(m, "message"),
		})
	}
	return msgs
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

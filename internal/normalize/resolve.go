package normalize

// The boundary is not consistent about key naming: the same logical field
// arrives as snake_case, camelCase or a legacy alias depending on which
// endpoint produced the record. Resolution order is declared here in one
// table instead of inline fallback chains, so the priority is auditable.
var synonyms = map[string][]string{
	"user_id":        {"user_id", "userId"},
	"event_id":       {"event_id", "eventId"},
	"booked_at":      {"booked_at", "bookedAt", "booked_at_sql"},
	"requires_adult": {"requires_adult", "requiresAdult"},
}

// Resolve returns the value of a logical field by trying its wire synonyms
// in priority order; the first key present with a non-nil value wins. Fields
// without a synonym entry resolve by their own name. Absence of every
// synonym is not an error: ok is false and the caller decides the default.
func Resolve(rec map[string]any, field string) (any, bool) {
	keys, found := synonyms[field]
	if !found {
		keys = []string{field}
	}
	for _, key := range keys {
		if val, present := rec[key]; present && val != nil {
			return val, true
		}
	}
	return nil, false
}

package cache

import (
	"encoding/json"
	"fmt"

	"github.com/revlens/revlens/internal/core/domain"
)

// Key derives the canonical cache key for a fetch request. The request is
// round-tripped through a generic map so the final serialization has
// sorted object keys regardless of how the FilterSet was constructed;
// semantically equal requests always produce identical keys.
func Key(endpoint string, req domain.FetchRequest) string {
	raw, err := json.Marshal(req.Normalized())
	if err != nil {
		// FetchRequest contains only marshalable fields; this path is
		// unreachable in practice but must not produce colliding keys.
		return fmt.Sprintf("%s|unmarshalable|%+v", endpoint, req)
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Sprintf("%s|%s", endpoint, raw)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return fmt.Sprintf("%s|%s", endpoint, raw)
	}

	return fmt.Sprintf("%s|%s", endpoint, canonical)
}

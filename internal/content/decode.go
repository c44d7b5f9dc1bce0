package content

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeWorkOrders parses a JSON object of objects into a WorkOrderSet.
// An absent or null payload yields an empty set. Any other shape is rejected
// with an error wrapping ErrContractViolation.
func DecodeWorkOrders(raw json.RawMessage) (WorkOrderSet, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return WorkOrderSet{}, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContractViolation, err)
	}

	orders := make(WorkOrderSet, len(entries))
	for name, entry := range entries {
		var order WorkOrder
		if err := json.Unmarshal(entry, &order); err != nil || order == nil {
			return nil, fmt.Errorf("%w: work order %q is not an object", ErrContractViolation, name)
		}
		orders[name] = order
	}

	return orders, nil
}

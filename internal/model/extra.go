package model

import (
	"encoding/json"
	"fmt"
)

// Extra holds object members a model type does not declare. Documents are
// shared with other clients, so members this tool does not know about are
// written back untouched.
type Extra map[string]json.RawMessage

// collectExtra returns the members of the JSON object in data whose names are
// not in known. It returns nil when there are none.
func collectExtra(data []byte, known ...string) (Extra, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}

	for _, k := range known {
		delete(members, k)
	}

	if len(members) == 0 {
		return nil, nil
	}

	return members, nil
}

// mergeExtra marshals value and adds every extra member it does not already
// set. Declared fields win over extra members of the same name.
func mergeExtra(value any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	if len(extra) == 0 {
		return data, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, fmt.Errorf("failed to merge extra members: %w", err)
	}

	for k, v := range extra {
		if _, ok := members[k]; !ok {
			members[k] = v
		}
	}

	return json.Marshal(members)
}

package tools

import (
	"fmt"
	"strconv"
)

// stringArg returns args[key] as a string, "" when absent.
func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// boolArg returns args[key] as a bool, or fallback when absent.
func boolArg(args map[string]interface{}, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// intArg returns args[key] as an int, or fallback when absent. JSON numbers
// arrive as float64.
func intArg(args map[string]interface{}, key string, fallback int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return fallback
}

// optionalBoolArg returns a pointer to args[key] when present, nil when the
// argument was omitted.
func optionalBoolArg(args map[string]interface{}, key string) *bool {
	if v, ok := args[key].(bool); ok {
		return &v
	}
	return nil
}

// stringListArg extracts a string or array-of-strings argument. Numeric
// items are rendered as decimal text so clients may pass message IDs as
// numbers. Returns nil when the argument is absent.
func stringListArg(args map[string]interface{}, key string) ([]string, error) {
	val, ok := args[key]
	if !ok || val == nil {
		return nil, nil
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch it := item.(type) {
			case string:
				if it != "" {
					out = append(out, it)
				}
			case float64:
				out = append(out, strconv.FormatFloat(it, 'f', -1, 64))
			default:
				return nil, fmt.Errorf("%s must contain strings", key)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", key)
	}
}

// recipientLists extracts the to/cc/bcc arguments together.
func recipientLists(args map[string]interface{}) (to, cc, bcc []string, err error) {
	if to, err = stringListArg(args, "to"); err != nil {
		return nil, nil, nil, err
	}
	if cc, err = stringListArg(args, "cc"); err != nil {
		return nil, nil, nil, err
	}
	if bcc, err = stringListArg(args, "bcc"); err != nil {
		return nil, nil, nil, err
	}
	return to, cc, bcc, nil
}

// intListArg extracts an array-of-integers argument, nil when absent.
func intListArg(args map[string]interface{}, key string) ([]int, error) {
	val, ok := args[key]
	if !ok || val == nil {
		return nil, nil
	}
	items, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array of integers", key)
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		f, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("%s must contain integers", key)
		}
		out = append(out, int(f))
	}
	return out, nil
}

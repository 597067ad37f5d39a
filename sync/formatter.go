package sync

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/refkit/tablesync/tableapi"
)

// FormatFailure reports one configured value that could not be coerced to its
// attribute's declared type. Failures are collected per entry and never abort
// the run.
type FormatFailure struct {
	AttributeName string
	RawValue      string
	Err           error
}

func (f FormatFailure) Error() string {
	return fmt.Sprintf("cannot format value %q for attribute %q: %v", f.RawValue, f.AttributeName, f.Err)
}

// Format transforms row specifications into the ordered sequence of wire
// values submitted to the remote store. Each produced value carries the
// current lock version of its attribute; attributes absent from locks get a
// zero token, which the store rejects as a conflict.
//
// Format is a pure transform with no remote calls.
func Format(rows []tableapi.RowSpec, types map[string]tableapi.ValueType, locks tableapi.LockVersions) ([]tableapi.Value, []FormatFailure) {
	var values []tableapi.Value
	var failures []FormatFailure

	for _, row := range rows {
		for _, attr := range row.Attributes {
			serialized, err := formatValue(attr.Value, types[attr.AttributeName])
			if err != nil {
				failures = append(failures, FormatFailure{
					AttributeName: attr.AttributeName,
					RawValue:      stringify(attr.Value),
					Err:           err,
				})
				continue
			}
			values = append(values, tableapi.Value{
				PrimaryValues: row.PrimaryValues,
				AttributeName: attr.AttributeName,
				Value:         serialized,
				LockVersion:   locks[attr.AttributeName],
			})
		}
	}

	return values, failures
}

// formatValue serializes a raw configured value per its declared type. List
// types are encoded as JSON arrays; everything else passes through as its
// string representation (the remote API accepts value as a string regardless
// of declared type).
func formatValue(raw any, valueType tableapi.ValueType) (string, error) {
	switch valueType {
	case tableapi.ValueTypeTextList:
		return formatTextList(raw)
	case tableapi.ValueTypeNumberList:
		return formatNumberList(raw)
	default:
		return stringify(raw), nil
	}
}

func formatTextList(raw any) (string, error) {
	if s, ok := raw.(string); ok {
		encoded, err := json.Marshal(strings.Split(s, ","))
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
	// Already a structured list: pass through.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func formatNumberList(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		encoded, err := json.Marshal(raw)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}

	tokens := strings.Split(s, ",")
	numbers := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			return "", fmt.Errorf("non-numeric token %q", strings.TrimSpace(tok))
		}
		numbers = append(numbers, n)
	}
	encoded, err := json.Marshal(numbers)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// stringify renders a raw configured value as the string the wire expects.
// JSON-decoded numbers arrive as float64; integral values print without a
// decimal point.
func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

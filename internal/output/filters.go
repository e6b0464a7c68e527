// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// filterRegex is the pattern used to parse filter expressions into key, operator, and target components.
// It matches: key + operator + target, where operator can be negated with !
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~><@/])(.*)$`)

// Filter represents a single parsed --filter expression including the key,
// operand, optional negation and target value.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Malformed specs are logged and skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("HOOKCTL_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil || parts[1] == "" {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		negate := strings.HasPrefix(parts[2], "!")
		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: strings.TrimPrefix(parts[2], "!"),
			Target:  parts[3],
		})
	}

	return filters
}

// FilterRows returns the rows matching every filter in spec. Keys are gjson
// paths into the JSON form of each row.
func FilterRows(rows []map[string]interface{}, spec string) []map[string]interface{} {
	filters := BuildFilters(spec)
	if len(filters) == 0 {
		return rows
	}

	//nolint:prealloc // Don't prealloc because we don't know what len will be.
	var kept []map[string]interface{}
	for _, row := range rows {
		raw, err := json.Marshal(row)
		if err != nil {
			log.WithError(err).Warn("skipping unencodable row")
			continue
		}
		if applyFilters(gjson.ParseBytes(raw), filters) {
			kept = append(kept, row)
		}
	}
	return kept
}

// applyFilters returns true if the candidate row matches all of the provided
// filters.
func applyFilters(candidate gjson.Result, filters []Filter) bool {
	for _, filter := range filters {
		value := candidate.Get(filter.Key)
		if !value.Exists() {
			fmt.Fprintf(os.Stderr, "warning: filter key not found: %s\n", filter.Key)
			return false
		}

		var ok bool
		switch {
		case value.IsArray() && filter.Operand == "@":
			ok = checkContainsOperand(value, filter)
		case value.Type == gjson.Number && (filter.Operand == ">" || filter.Operand == "<"):
			ok = checkNumberOperand(value.Num, filter)
		default:
			ok = checkStringOperand(value.String(), filter)
		}
		if !ok {
			return false
		}
	}
	return true
}

// checkContainsOperand evaluates a membership style filter (operand '@')
// against array values.
func checkContainsOperand(value gjson.Result, filter Filter) bool {
	found := false
	for _, item := range value.Array() {
		if item.String() == filter.Target {
			found = true
			break
		}
	}
	return found == !filter.Negate
}

func checkNumberOperand(value float64, filter Filter) bool {
	target := gjson.Parse(filter.Target)
	if target.Type != gjson.Number {
		return checkStringOperand(fmt.Sprintf("%v", value), filter)
	}
	switch filter.Operand {
	case ">":
		return value > target.Num == !filter.Negate
	default:
		return value < target.Num == !filter.Negate
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Target == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Target) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Target) == !filter.Negate
	case ">":
		return value > filter.Target == !filter.Negate
	case "<":
		return value < filter.Target == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Target) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Target, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}

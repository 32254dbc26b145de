package models

import "strings"

// ConditionEvaluator evaluates the minimal boolean expression language used
// by step conditions.
//
// Forms are checked in this fixed priority, and the first structural match
// wins even if the string could also match a later form:
//
//	A contains B
//	A equals B
//	A startsWith B
//	A endsWith B
//	A isEmpty
//	A isNotEmpty
//
// This is a compatibility contract: an operand A that itself contains the
// literal " contains " is parsed as the contains form. If nothing matches,
// a non-empty trimmed expression is true.
type ConditionEvaluator struct{}

type binaryOp struct {
	token string
	apply func(a, b string) bool
}

var binaryOps = []binaryOp{
	{" contains ", strings.Contains},
	{" equals ", func(a, b string) bool { return a == b }},
	{" startsWith ", strings.HasPrefix},
	{" endsWith ", strings.HasSuffix},
}

func (ConditionEvaluator) Evaluate(expression string) bool {
	for _, op := range binaryOps {
		idx := strings.Index(expression, op.token)
		if idx < 0 {
			continue
		}

		left := strings.TrimSpace(expression[:idx])
		right := stripQuotes(strings.TrimSpace(expression[idx+len(op.token):]))

		return op.apply(left, right)
	}

	trimmed := strings.TrimSpace(expression)

	if rest, ok := strings.CutSuffix(trimmed, "isEmpty"); ok && !strings.HasSuffix(trimmed, "isNotEmpty") {
		return strings.TrimSpace(rest) == ""
	}

	if rest, ok := strings.CutSuffix(trimmed, "isNotEmpty"); ok {
		return strings.TrimSpace(rest) != ""
	}

	return trimmed != ""
}

func stripQuotes(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return value[1 : len(value)-1]
		}
	}

	return value
}

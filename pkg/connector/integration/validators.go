package integration

import (
	"regexp"
	"strings"
)

// uriShapeRegexp is a permissive URI-shape matcher, not a strict parser:
// scheme, authority, path, query and fragment are all optional captures, so
// host/path extraction never fails on odd but plausible URLs.
var uriShapeRegexp = regexp.MustCompile(`^(?:([^:/?#]+):)?(?://([^/?#]*))?([^?#]*)(?:\?([^#]*))?(?:#(.*))?`)

// urlPart extracts the requested slice of the URL, or "" when the shape does
// not match.
func urlPart(part URLPartType, url string) string {
	switch part {
	case PagePath:
		return pathFromURL(url)
	case PageURL:
		return url
	case HostName:
		return hostNameFromURL(url)
	default:
		return ""
	}
}

func hostNameFromURL(url string) string {
	m := uriShapeRegexp.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[2]
}

func pathFromURL(url string) string {
	m := uriShapeRegexp.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[3]
}

// evaluateComparison applies one comparison operator. All inputs are
// null-safe; an unknown operator never matches.
func evaluateComparison(op ComparisonOperator, isNegative, isIgnoreCase bool, value, valueToCompare string, valuesToCompare []string) bool {
	switch op {
	case ComparisonEquals:
		return compareEquals(value, valueToCompare, isNegative, isIgnoreCase)
	case ComparisonContains:
		return compareContains(value, valueToCompare, isNegative, isIgnoreCase)
	case ComparisonStartsWith:
		return compareAffix(strings.HasPrefix, value, valueToCompare, isNegative, isIgnoreCase)
	case ComparisonEndsWith:
		return compareAffix(strings.HasSuffix, value, valueToCompare, isNegative, isIgnoreCase)
	case ComparisonMatchesWith:
		return compareRegex(value, valueToCompare, isNegative, isIgnoreCase)
	case ComparisonEqualsAny:
		return compareAny(compareEquals, value, valuesToCompare, isNegative, isIgnoreCase)
	case ComparisonContainsAny:
		return compareAny(compareContains, value, valuesToCompare, isNegative, isIgnoreCase)
	default:
		return false
	}
}

func compareEquals(value, valueToCompare string, isNegative, isIgnoreCase bool) bool {
	var match bool
	if isIgnoreCase {
		match = strings.EqualFold(value, valueToCompare)
	} else {
		match = value == valueToCompare
	}
	return match != isNegative
}

func compareContains(value, valueToCompare string, isNegative, isIgnoreCase bool) bool {
	// "*" is the wildcard: any non-empty subject matches, negation ignored.
	if valueToCompare == "*" && value != "" {
		return true
	}

	var match bool
	if isIgnoreCase {
		match = strings.Contains(strings.ToUpper(value), strings.ToUpper(valueToCompare))
	} else {
		match = strings.Contains(value, valueToCompare)
	}
	return match != isNegative
}

func compareAffix(affix func(string, string) bool, value, valueToCompare string, isNegative, isIgnoreCase bool) bool {
	var match bool
	if isIgnoreCase {
		match = affix(strings.ToUpper(value), strings.ToUpper(valueToCompare))
	} else {
		match = affix(value, valueToCompare)
	}
	return match != isNegative
}

func compareRegex(value, pattern string, isNegative, isIgnoreCase bool) bool {
	if isIgnoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value) != isNegative
}

// compareAny passes when any candidate matches under the base operator;
// negation applies once to the aggregate result, never per candidate.
func compareAny(compare func(string, string, bool, bool) bool, value string, valuesToCompare []string, isNegative, isIgnoreCase bool) bool {
	for _, candidate := range valuesToCompare {
		if compare(value, candidate, false, isIgnoreCase) {
			return !isNegative
		}
	}
	return isNegative
}

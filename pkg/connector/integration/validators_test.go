package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLPartExtraction(t *testing.T) {
	url := "http://test.example.com:80/resource.aspx?gf=(andet)&b=c"

	assert.Equal(t, "test.example.com:80", urlPart(HostName, url))
	assert.Equal(t, "/resource.aspx", urlPart(PagePath, url))
	assert.Equal(t, url, urlPart(PageURL, url))
	assert.Equal(t, "", urlPart(URLPartType("Fragment"), url))
}

func TestURLPartExtractionOddShapes(t *testing.T) {
	assert.Equal(t, "", hostNameFromURL("/relative/path"))
	assert.Equal(t, "/relative/path", pathFromURL("/relative/path"))
	assert.Equal(t, "example.com", hostNameFromURL("//example.com/x"))
	assert.Equal(t, "", pathFromURL("http://example.com"))
}

func TestCompareEquals(t *testing.T) {
	cases := []struct {
		name         string
		value, other string
		isNegative   bool
		isIgnoreCase bool
		want         bool
	}{
		{"exact match", "test1", "test1", false, false, true},
		{"mismatch", "test1", "Test1", false, false, false},
		{"ignore case", "test1", "Test1", false, true, true},
		{"negated match", "test1", "test1", true, false, false},
		{"negated mismatch", "test1", "test2", true, false, true},
		{"both empty", "", "", false, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := evaluateComparison(ComparisonEquals, tc.isNegative, tc.isIgnoreCase, tc.value, tc.other, nil)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompareContains(t *testing.T) {
	cases := []struct {
		name         string
		value, other string
		isNegative   bool
		isIgnoreCase bool
		want         bool
	}{
		{"substring", "test_test1_test", "test1", false, false, true},
		{"case mismatch", "test_test1_test", "Test1", false, false, false},
		{"ignore case", "test_test1_test", "Test1", false, true, true},
		{"negated hit", "test_test1", "test1", true, false, false},
		{"negated miss", "test_test1", "test2", true, false, true},
		{"wildcard non-empty", "anything at all", "*", false, false, true},
		{"wildcard overrides negation", "anything", "*", true, false, true},
		{"wildcard empty subject", "", "*", false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := evaluateComparison(ComparisonContains, tc.isNegative, tc.isIgnoreCase, tc.value, tc.other, nil)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompareAffixes(t *testing.T) {
	assert.True(t, evaluateComparison(ComparisonStartsWith, false, false, "test1_test2", "test1", nil))
	assert.False(t, evaluateComparison(ComparisonStartsWith, false, false, "test1_test2", "Test1", nil))
	assert.True(t, evaluateComparison(ComparisonStartsWith, false, true, "test1_test2", "Test1", nil))
	assert.False(t, evaluateComparison(ComparisonStartsWith, true, false, "test1_test2", "test1", nil))

	assert.True(t, evaluateComparison(ComparisonEndsWith, false, false, "test1_test2", "test2", nil))
	assert.False(t, evaluateComparison(ComparisonEndsWith, false, false, "test1_test2", "Test2", nil))
	assert.True(t, evaluateComparison(ComparisonEndsWith, false, true, "test1_test2", "Test2", nil))
	assert.True(t, evaluateComparison(ComparisonEndsWith, true, false, "test1_test2", "test1", nil))
}

func TestCompareMatchesWith(t *testing.T) {
	assert.True(t, evaluateComparison(ComparisonMatchesWith, false, false, "test1", "^tes.*", nil))
	assert.False(t, evaluateComparison(ComparisonMatchesWith, false, false, "Test1", "^tes.*", nil))
	assert.True(t, evaluateComparison(ComparisonMatchesWith, false, true, "Test1", "^tes.*", nil))
	assert.False(t, evaluateComparison(ComparisonMatchesWith, true, false, "test1", "^tes.*", nil))

	// Uncompilable patterns never match, negated or not.
	assert.False(t, evaluateComparison(ComparisonMatchesWith, false, false, "test1", "(unclosed", nil))
	assert.False(t, evaluateComparison(ComparisonMatchesWith, true, false, "test1", "(unclosed", nil))
}

func TestCompareAny(t *testing.T) {
	values := []string{"a", "b", "c"}

	assert.True(t, evaluateComparison(ComparisonEqualsAny, false, false, "b", "", values))
	assert.False(t, evaluateComparison(ComparisonEqualsAny, false, false, "d", "", values))
	assert.True(t, evaluateComparison(ComparisonEqualsAny, false, true, "B", "", values))

	// Negation applies to the whole set, not per candidate.
	assert.False(t, evaluateComparison(ComparisonEqualsAny, true, false, "b", "", values))
	assert.True(t, evaluateComparison(ComparisonEqualsAny, true, false, "d", "", values))

	assert.True(t, evaluateComparison(ComparisonContainsAny, false, false, "xbx", "", values))
	assert.False(t, evaluateComparison(ComparisonContainsAny, false, false, "xyz", "", values))
	assert.True(t, evaluateComparison(ComparisonContainsAny, true, false, "xyz", "", values))
}

func TestUnknownOperatorNeverMatches(t *testing.T) {
	assert.False(t, evaluateComparison(ComparisonOperator("Between"), false, false, "a", "a", nil))
	assert.False(t, evaluateComparison(ComparisonOperator("Between"), true, false, "a", "a", nil))
}

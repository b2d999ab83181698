// Copyright (c) 2026 Mirrordex. All rights reserved.

package chapternum

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare_Numeric(t *testing.T) {
	assert.Equal(t, -1, Compare("2", "10"), "numeric ordering, not lexical")
	assert.Equal(t, 1, Compare("10", "2"))
	assert.Equal(t, -1, Compare("2.5", "3"))
	assert.Equal(t, 0, Compare("2", "2"))
}

func TestCompare_Oneshot(t *testing.T) {
	assert.Equal(t, -1, Compare("", "1"))
	assert.Equal(t, 1, Compare("1", ""))
	assert.Equal(t, 0, Compare("", ""))
}

func TestCompare_Mixed(t *testing.T) {
	// Numeric numbers order before non-numeric extras.
	assert.Equal(t, -1, Compare("84", "84a"))
	assert.Equal(t, 1, Compare("extra", "12"))

	// Neither side numeric falls back to lexical.
	assert.Equal(t, -1, Compare("84a", "84b"))
}

func TestCompare_EqualValueDistinctText(t *testing.T) {
	// "2" and "2.0" are numerically equal but must stay totally ordered.
	assert.NotEqual(t, 0, Compare("2", "2.0"))
	assert.Equal(t, -Compare("2", "2.0"), Compare("2.0", "2"))
}

func TestLess_SortsChapterList(t *testing.T) {
	nums := []string{"10", "2", "", "1", "2.5"}
	sort.Slice(nums, func(i, j int) bool { return Less(nums[i], nums[j]) })

	assert.Equal(t, []string{"", "1", "2", "2.5", "10"}, nums)
}

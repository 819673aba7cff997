package kavach_test

import (
	"testing"

	"github.com/fwojciec/kavach"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownCases(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"2020_1_90_93_EN.pdf",
		"2020_3_514_524_EN.pdf",
		"2020_6_289_302_EN.pdf",
	}, kavach.KnownCases)
}

func TestIsKnownCase(t *testing.T) {
	t.Parallel()

	assert.True(t, kavach.IsKnownCase("2020_6_289_302_EN.pdf"))
	assert.False(t, kavach.IsKnownCase("2020_6_289_302_EN"))
	assert.False(t, kavach.IsKnownCase(""))
}

func TestScope(t *testing.T) {
	t.Parallel()

	t.Run("zero value is general", func(t *testing.T) {
		t.Parallel()

		var scope kavach.Scope

		assert.True(t, scope.IsGeneral())
		assert.Empty(t, scope.CaseFile())
		assert.Equal(t, "general", scope.String())
	})

	t.Run("case scope carries case file", func(t *testing.T) {
		t.Parallel()

		scope, err := kavach.CaseScope("2020_1_90_93_EN.pdf")

		require.NoError(t, err)
		assert.False(t, scope.IsGeneral())
		assert.Equal(t, "2020_1_90_93_EN.pdf", scope.CaseFile())
		assert.Equal(t, "2020_1_90_93_EN.pdf", scope.String())
	})

	t.Run("case scope rejects unknown case", func(t *testing.T) {
		t.Parallel()

		_, err := kavach.CaseScope("other.pdf")

		require.Error(t, err)
		assert.Equal(t, kavach.EINVALID, kavach.ErrorCode(err))
	})
}

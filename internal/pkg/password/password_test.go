package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify_RoundTrip(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, Verify("correct horse battery staple", hash))
	assert.False(t, Verify("correct horse battery stapl", hash))
	assert.False(t, Verify("", hash))
}

func TestHash_DistinctSalts(t *testing.T) {
	h1, err := Hash("samepassword1")
	require.NoError(t, err)
	h2, err := Hash("samepassword1")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

package cryptox

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	for range 64 {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}

func TestFingerprintToken(t *testing.T) {
	fp := FingerprintToken("123456")
	require.NotEmpty(t, fp)
	require.NotEqual(t, "123456", fp)
	require.Equal(t, fp, FingerprintToken("123456"))
	require.NotEqual(t, fp, FingerprintToken("123457"))
}

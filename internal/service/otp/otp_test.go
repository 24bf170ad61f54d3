package otp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	for _, digits := range []int{0, 4, 6, 8} {
		code, err := Generator{Digits: digits}.Generate()
		require.NoError(t, err)

		want := digits
		if want == 0 {
			want = DefaultDigits
		}
		require.Len(t, code, want)
		for _, ch := range code {
			require.True(t, ch >= '0' && ch <= '9', "unexpected symbol %q", ch)
		}
	}
}

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	require.NoError(t, ValidateEmail("alice@example.com"))
	require.Error(t, ValidateEmail(""))
	require.Error(t, ValidateEmail("not-an-email"))
	require.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestValidatePassword(t *testing.T) {
	// No strength minimum, only the bcrypt length cap
	require.NoError(t, ValidatePassword("pw12345"))
	require.NoError(t, ValidatePassword("x"))
	require.Error(t, ValidatePassword(""))
	require.Error(t, ValidatePassword(strings.Repeat("a", 73)))
}

func TestValidateNickname(t *testing.T) {
	require.NoError(t, ValidateNickname("alice"))
	require.Error(t, ValidateNickname(""))
	require.Error(t, ValidateNickname("has space"))
	require.Error(t, ValidateNickname(strings.Repeat("a", 51)))
}

func TestValidateName(t *testing.T) {
	require.NoError(t, ValidateName("Alice Liddell"))
	require.Error(t, ValidateName("   "))
	require.Error(t, ValidateName(strings.Repeat("a", 101)))
}

package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Parley/internal/domain"
)

func TestNormalizeUsername(t *testing.T) {
	name, err := domain.NormalizeUsername("  alice  ")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = domain.NormalizeUsername("   ")
	assert.ErrorIs(t, err, domain.ErrUsernameEmpty)

	_, err = domain.NormalizeUsername(strings.Repeat("x", domain.MaxUsernameLen+1))
	assert.ErrorIs(t, err, domain.ErrUsernameTooLong)

	name, err = domain.NormalizeUsername(strings.Repeat("x", domain.MaxUsernameLen))
	require.NoError(t, err)
	assert.Len(t, name, domain.MaxUsernameLen)
}

func TestNormalizeUsernameCountsCharactersNotBytes(t *testing.T) {
	// 11 Cyrillic characters are 22 bytes but well inside the 20-char limit.
	name, err := domain.NormalizeUsername(strings.Repeat("Ж", 11))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("Ж", 11), name)

	name, err = domain.NormalizeUsername(strings.Repeat("あ", domain.MaxUsernameLen))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("あ", domain.MaxUsernameLen), name)

	_, err = domain.NormalizeUsername(strings.Repeat("あ", domain.MaxUsernameLen+1))
	assert.ErrorIs(t, err, domain.ErrUsernameTooLong)
}

func TestNormalizeMessage(t *testing.T) {
	text, err := domain.NormalizeMessage(" hi there ")
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)

	_, err = domain.NormalizeMessage("\n\t ")
	assert.ErrorIs(t, err, domain.ErrMessageEmpty)

	_, err = domain.NormalizeMessage(strings.Repeat("y", domain.MaxMessageLen+1))
	assert.ErrorIs(t, err, domain.ErrMessageTooLong)
}

func TestNormalizeMessageCountsCharactersNotBytes(t *testing.T) {
	// 300 CJK characters are 900 bytes but well inside the 500-char limit.
	text, err := domain.NormalizeMessage(strings.Repeat("あ", 300))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("あ", 300), text)

	_, err = domain.NormalizeMessage(strings.Repeat("あ", domain.MaxMessageLen+1))
	assert.ErrorIs(t, err, domain.ErrMessageTooLong)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, domain.RoomCode("AB12CD"), domain.NormalizeCode(" ab12cd "))
}

func TestValidCode(t *testing.T) {
	assert.True(t, domain.ValidCode("ABC123"))
	assert.True(t, domain.ValidCode("ZZZZZZ"))
	assert.False(t, domain.ValidCode("ABC12"), "too short")
	assert.False(t, domain.ValidCode("ABC1234"), "too long")
	assert.False(t, domain.ValidCode("abc123"), "lowercase")
	assert.False(t, domain.ValidCode("AB-123"), "symbol outside alphabet")
}

func TestDefaultRoomName(t *testing.T) {
	assert.Equal(t, domain.RoomName("alice's Room"), domain.DefaultRoomName("alice"))
}

func TestNormalizeRoomName(t *testing.T) {
	assert.Equal(t, domain.RoomName("General"), domain.NormalizeRoomName("  General  ", "alice"))
	assert.Equal(t, domain.RoomName("alice's Room"), domain.NormalizeRoomName("   ", "alice"))
	assert.Equal(t, domain.RoomName("alice's Room"), domain.NormalizeRoomName("", "alice"))
}

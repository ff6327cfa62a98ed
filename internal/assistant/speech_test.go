package assistant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickRussianVoice_PrefersKnownVendors(t *testing.T) {
	t.Parallel()

	voices := []Voice{
		{Name: "Alice", Lang: "en-US"},
		{Name: "Anna", Lang: "ru-RU"},
		{Name: "Microsoft Irina", Lang: "ru-RU"},
	}
	v, ok := PickRussianVoice(voices)
	require.True(t, ok)
	assert.Equal(t, "Microsoft Irina", v.Name)
}

func TestPickRussianVoice_SecondRussianWhenNoVendor(t *testing.T) {
	t.Parallel()

	// Первый системный голос обычно хуже — берём второй.
	voices := []Voice{
		{Name: "Anna", Lang: "ru-RU"},
		{Name: "Milena", Lang: "ru-RU"},
	}
	v, ok := PickRussianVoice(voices)
	require.True(t, ok)
	assert.Equal(t, "Milena", v.Name)
}

func TestPickRussianVoice_SingleRussian(t *testing.T) {
	t.Parallel()

	voices := []Voice{
		{Name: "Alice", Lang: "en-US"},
		{Name: "Anna", Lang: "ru-RU"},
	}
	v, ok := PickRussianVoice(voices)
	require.True(t, ok)
	assert.Equal(t, "Anna", v.Name)
}

func TestPickRussianVoice_MatchesByName(t *testing.T) {
	t.Parallel()

	voices := []Voice{
		{Name: "Russian Female", Lang: "unknown"},
	}
	v, ok := PickRussianVoice(voices)
	require.True(t, ok)
	assert.Equal(t, "Russian Female", v.Name)
}

func TestPickRussianVoice_NoRussianVoices(t *testing.T) {
	t.Parallel()

	_, ok := PickRussianVoice([]Voice{{Name: "Alice", Lang: "en-US"}})
	assert.False(t, ok)
}

func TestIsUnavailable(t *testing.T) {
	t.Parallel()

	assert.True(t, isUnavailable(errors.New("tts: 503 service unavailable")))
	assert.True(t, isUnavailable(errors.New("ElevenLabs TTS не настроен")))
	assert.False(t, isUnavailable(errors.New("connection reset")))
	assert.False(t, isUnavailable(nil))
}

package assistant

import (
	"context"
	"strings"
)

// Synthesizer — удалённый синтез речи (ElevenLabs), возвращает готовое аудио.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Player воспроизводит синтезированное аудио. Play блокируется до конца
// воспроизведения, Stop обрывает его немедленно.
type Player interface {
	Play(ctx context.Context, audio []byte) error
	Stop()
}

// Recognizer — захват речи с микрофона. Финальный транскрипт доставляется
// транспортом через Orchestrator.Send.
type Recognizer interface {
	Start(ctx context.Context) error
	Stop()
}

// Utterance — параметры запасного синтеза на стороне клиента.
type Utterance struct {
	Text   string  `json:"text"`
	Lang   string  `json:"lang"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
	Voice  string  `json:"voice,omitempty"`
}

// LocalSpeaker — запасной канал озвучивания, когда удалённый синтез недоступен.
type LocalSpeaker interface {
	Speak(ctx context.Context, u Utterance) error
	Stop()
}

type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

var preferredVendors = []string{"yandex", "google", "microsoft", "premium", "natural", "neural"}

// PickRussianVoice выбирает голос для запасного синтеза: сперва известные
// качественные движки по подстроке имени, иначе второй русский голос
// (первый системный часто хуже), иначе первый.
func PickRussianVoice(voices []Voice) (Voice, bool) {
	var russian []Voice
	for _, v := range voices {
		name := strings.ToLower(v.Name)
		if strings.HasPrefix(v.Lang, "ru") ||
			strings.Contains(name, "russian") ||
			strings.Contains(name, "русск") {
			russian = append(russian, v)
		}
	}
	if len(russian) == 0 {
		return Voice{}, false
	}

	for _, v := range russian {
		name := strings.ToLower(v.Name)
		for _, vendor := range preferredVendors {
			if strings.Contains(name, vendor) {
				return v, true
			}
		}
	}
	if len(russian) > 1 {
		return russian[1], true
	}
	return russian[0], true
}

// Маркеры ответа «сервис не настроен»: в этом случае повторный сетевой
// запрос бессмыслен и запасной синтез включается сразу.
func isUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "503") || strings.Contains(msg, "не настроен")
}

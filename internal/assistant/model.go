package assistant

import "time"

// State — явное состояние диалогового цикла вместо набора булевых флагов:
// одновременно «слушаем» и «озвучиваем» быть не может.
type State string

const (
	StateIdle       State = "idle"
	StateListening  State = "listening"
	StateProcessing State = "processing"
	StateSpeaking   State = "speaking"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Ответ-заглушка, когда чат-бэкенд недоступен: диалог остаётся рабочим.
const fallbackReply = "Извините, произошла ошибка. Попробуйте еще раз."

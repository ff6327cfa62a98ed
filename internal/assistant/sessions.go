package assistant

import (
	"log/slog"
	"sync"
)

// Sessions раздаёт оркестраторы по идентификатору сессии виджета.
// Серверная сторона не воспроизводит звук, поэтому озвучивание выключено:
// аудио клиент получает отдельным запросом к /api/text-to-speech.
type Sessions struct {
	log   *slog.Logger
	chat  Chat
	store HistoryStore

	mu    sync.Mutex
	orchs map[string]*Orchestrator
}

func NewSessions(log *slog.Logger, chat Chat, store HistoryStore) *Sessions {
	return &Sessions{
		log:   log,
		chat:  chat,
		store: store,
		orchs: make(map[string]*Orchestrator),
	}
}

func (s *Sessions) Get(sessionID string) *Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orchs[sessionID]; ok {
		return o
	}
	o := New(s.log, s.chat, nil, nil, nil, nil, s.store, sessionID)
	o.SetVoiceEnabled(false)
	s.orchs[sessionID] = o
	return o
}

func (s *Sessions) Close(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orchs, sessionID)
}

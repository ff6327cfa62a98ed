package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var ErrNoRecognizer = errors.New("assistant: speech recognition is not available")

// ChatTurn — пара роль+текст для контекста чата; метки времени наружу не уходят.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Chat interface {
	Complete(ctx context.Context, message string, history []ChatTurn) (string, error)
}

// Orchestrator ведёт один диалоговый цикл: распознавание — чат — озвучивание.
// Любое новое действие пользователя сперва глушит текущее воспроизведение.
type Orchestrator struct {
	log        *slog.Logger
	chat       Chat
	tts        Synthesizer
	player     Player
	local      LocalSpeaker
	recognizer Recognizer // nil, если распознавание недоступно
	store      HistoryStore
	sessionID  string

	mu           sync.Mutex
	state        State
	voiceEnabled bool
	voices       []Voice
}

func New(log *slog.Logger, chat Chat, tts Synthesizer, player Player, local LocalSpeaker,
	recognizer Recognizer, store HistoryStore, sessionID string) *Orchestrator {

	return &Orchestrator{
		log:          log,
		chat:         chat,
		tts:          tts,
		player:       player,
		local:        local,
		recognizer:   recognizer,
		store:        store,
		sessionID:    sessionID,
		state:        StateIdle,
		voiceEnabled: true,
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) SetVoiceEnabled(on bool) {
	o.mu.Lock()
	o.voiceEnabled = on
	o.mu.Unlock()
	if !on {
		o.StopSpeaking()
	}
}

// SetVoices запоминает голоса, доступные клиенту, для запасного синтеза.
func (o *Orchestrator) SetVoices(voices []Voice) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.voices = voices
}

func (o *Orchestrator) History(ctx context.Context) ([]Message, error) {
	return o.store.History(ctx, o.sessionID)
}

// StartListening запускает распознавание. Текущее воспроизведение глушится
// до старта, чтобы микрофон не ловил собственный голос ассистента.
func (o *Orchestrator) StartListening(ctx context.Context) error {
	if o.recognizer == nil {
		return ErrNoRecognizer
	}
	o.StopSpeaking()

	o.mu.Lock()
	if o.state == StateListening {
		o.mu.Unlock()
		return nil
	}
	o.state = StateListening
	o.mu.Unlock()

	if err := o.recognizer.Start(ctx); err != nil {
		o.setState(StateIdle)
		return err
	}
	return nil
}

func (o *Orchestrator) StopListening() {
	if o.recognizer != nil {
		o.recognizer.Stop()
	}
	o.mu.Lock()
	if o.state == StateListening {
		o.state = StateIdle
	}
	o.mu.Unlock()
}

// Send обрабатывает один ход: текст пользователя (набранный или транскрипт)
// уходит в чат вместе с прежней историей, ответ попадает в историю и
// озвучивается. Ошибка чата оставляет в истории дежурное извинение.
func (o *Orchestrator) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, nil
	}

	o.StopSpeaking()
	o.StopListening()

	// Историю собираем до добавления нового сообщения: текущий вопрос
	// передаётся отдельным полем запроса.
	prior, err := o.store.History(ctx, o.sessionID)
	if err != nil {
		return Message{}, err
	}
	history := make([]ChatTurn, 0, len(prior))
	for _, m := range prior {
		history = append(history, ChatTurn{Role: m.Role, Content: m.Content})
	}

	userMsg := Message{Role: RoleUser, Content: text, Timestamp: time.Now()}
	if err := o.store.Append(ctx, o.sessionID, userMsg); err != nil {
		return Message{}, err
	}

	o.setState(StateProcessing)

	reply, chatErr := o.chat.Complete(ctx, text, history)
	if chatErr != nil {
		o.log.Error("assistant chat failed", "session_id", o.sessionID, "err", chatErr)
		reply = fallbackReply
	}

	assistantMsg := Message{Role: RoleAssistant, Content: reply, Timestamp: time.Now()}
	if err := o.store.Append(ctx, o.sessionID, assistantMsg); err != nil {
		o.setState(StateIdle)
		return Message{}, err
	}

	if chatErr != nil {
		o.setState(StateIdle)
		return assistantMsg, chatErr
	}

	o.mu.Lock()
	speak := o.voiceEnabled
	o.mu.Unlock()
	if speak {
		o.Speak(ctx, reply)
	} else {
		o.setState(StateIdle)
	}
	return assistantMsg, nil
}

// Speak озвучивает текст по цепочке: удалённый синтез, затем запасной
// локальный. Ответ «503/не настроен» означает, что удалённый сервис не
// поднимется, — второй сетевой попытки не делаем.
func (o *Orchestrator) Speak(ctx context.Context, text string) {
	o.mu.Lock()
	if !o.voiceEnabled {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	o.StopSpeaking()
	o.setState(StateSpeaking)
	// Озвучивание могло быть перебито новым действием пользователя —
	// тогда состояние уже не Speaking и трогать его нельзя.
	defer func() {
		o.mu.Lock()
		if o.state == StateSpeaking {
			o.state = StateIdle
		}
		o.mu.Unlock()
	}()

	audio, err := o.tts.Synthesize(ctx, text)
	if err != nil {
		if !isUnavailable(err) {
			o.log.Error("remote tts failed", "err", err)
		}
		o.speakLocal(ctx, text)
		return
	}

	if err := o.player.Play(ctx, audio); err != nil {
		o.log.Error("audio playback failed", "err", err)
		o.speakLocal(ctx, text)
	}
}

func (o *Orchestrator) speakLocal(ctx context.Context, text string) {
	if o.local == nil {
		return
	}
	u := Utterance{
		Text:   text,
		Lang:   "ru-RU",
		Rate:   0.85,
		Pitch:  1.1,
		Volume: 1.0,
	}
	o.mu.Lock()
	voices := o.voices
	o.mu.Unlock()
	if v, ok := PickRussianVoice(voices); ok {
		u.Voice = v.Name
	}
	if err := o.local.Speak(ctx, u); err != nil {
		o.log.Error("local speech synthesis failed", "err", err)
	}
}

func (o *Orchestrator) StopSpeaking() {
	if o.player != nil {
		o.player.Stop()
	}
	if o.local != nil {
		o.local.Stop()
	}
	o.mu.Lock()
	if o.state == StateSpeaking {
		o.state = StateIdle
	}
	o.mu.Unlock()
}

// Clear сбрасывает историю и глушит озвучивание; вызывается при закрытии виджета.
func (o *Orchestrator) Clear(ctx context.Context) error {
	o.StopSpeaking()
	return o.store.Clear(ctx, o.sessionID)
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

package assistant

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	mu      sync.Mutex
	reply   string
	err     error
	lastMsg string
	history []ChatTurn
	calls   int
}

func (f *fakeChat) Complete(_ context.Context, message string, history []ChatTurn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastMsg = message
	f.history = append([]ChatTurn(nil), history...)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeSynth struct {
	mu    sync.Mutex
	audio []byte
	err   error
	calls int
}

func (f *fakeSynth) Synthesize(context.Context, string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

type fakePlayer struct {
	mu      sync.Mutex
	err     error
	playing bool
	plays   int
	stops   int
	// если задан, Play блокируется до вызова Stop
	done chan struct{}
}

func (f *fakePlayer) Play(_ context.Context, _ []byte) error {
	f.mu.Lock()
	f.plays++
	f.playing = true
	done := f.done
	f.mu.Unlock()

	if done != nil {
		<-done
	}

	f.mu.Lock()
	f.playing = false
	f.mu.Unlock()
	return f.err
}

func (f *fakePlayer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	if f.done != nil && f.playing {
		close(f.done)
		f.done = nil
	}
}

func (f *fakePlayer) isPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

type fakeLocal struct {
	mu         sync.Mutex
	calls      int
	utterances []Utterance
}

func (f *fakeLocal) Speak(_ context.Context, u Utterance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.utterances = append(f.utterances, u)
	return nil
}

func (f *fakeLocal) Stop() {}

func (f *fakeLocal) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRecognizer struct {
	mu     sync.Mutex
	starts int
	stops  int
	err    error
}

func (f *fakeRecognizer) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	return f.err
}

func (f *fakeRecognizer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func newTestOrchestrator(chat Chat, synth Synthesizer, player Player, local LocalSpeaker, rec Recognizer) *Orchestrator {
	return New(discard(), chat, synth, player, local, rec, NewMemoryStore(), "s1")
}

func TestSend_AppendsBothMessagesAndSpeaks(t *testing.T) {
	t.Parallel()

	chat := &fakeChat{reply: "В базе 42 клиента."}
	synth := &fakeSynth{audio: []byte("mp3")}
	player := &fakePlayer{}
	local := &fakeLocal{}
	o := newTestOrchestrator(chat, synth, player, local, nil)

	reply, err := o.Send(context.Background(), "Сколько клиентов в базе?")
	require.NoError(t, err)
	assert.Equal(t, "В базе 42 клиента.", reply.Content)

	history, err := o.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, RoleAssistant, history[1].Role)

	assert.Equal(t, 1, synth.calls)
	assert.Equal(t, 1, player.plays)
	assert.Equal(t, 0, local.count())
	assert.Equal(t, StateIdle, o.State())
}

func TestSend_HistoryExcludesCurrentMessage(t *testing.T) {
	t.Parallel()

	chat := &fakeChat{reply: "ok"}
	o := newTestOrchestrator(chat, &fakeSynth{}, &fakePlayer{}, &fakeLocal{}, nil)
	o.SetVoiceEnabled(false)

	_, err := o.Send(context.Background(), "первый вопрос")
	require.NoError(t, err)
	assert.Empty(t, chat.history)

	_, err = o.Send(context.Background(), "второй вопрос")
	require.NoError(t, err)

	// Контекст — только прежние сообщения, текущее уходит отдельным полем.
	require.Len(t, chat.history, 2)
	assert.Equal(t, "первый вопрос", chat.history[0].Content)
	assert.Equal(t, "второй вопрос", chat.lastMsg)
}

func TestSend_ChatErrorLeavesApology(t *testing.T) {
	t.Parallel()

	chat := &fakeChat{err: errors.New("agent down")}
	o := newTestOrchestrator(chat, &fakeSynth{}, &fakePlayer{}, &fakeLocal{}, nil)

	reply, err := o.Send(context.Background(), "вопрос")
	assert.Error(t, err)
	assert.Equal(t, fallbackReply, reply.Content)

	history, herr := o.History(context.Background())
	require.NoError(t, herr)
	require.Len(t, history, 2)
	assert.Equal(t, fallbackReply, history[1].Content)
	assert.Equal(t, StateIdle, o.State())
}

func TestSend_EmptyTextIsNoop(t *testing.T) {
	t.Parallel()

	chat := &fakeChat{reply: "ok"}
	o := newTestOrchestrator(chat, &fakeSynth{}, &fakePlayer{}, &fakeLocal{}, nil)

	_, err := o.Send(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, 0, chat.calls)
}

func TestSpeak_UnavailableGoesStraightToLocal(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{err: errors.New("tts: 503 сервис не настроен")}
	player := &fakePlayer{}
	local := &fakeLocal{}
	o := newTestOrchestrator(&fakeChat{}, synth, player, local, nil)

	o.Speak(context.Background(), "привет")

	// Один сетевой вызов, сразу запасной синтез, без воспроизведения.
	assert.Equal(t, 1, synth.calls)
	assert.Equal(t, 0, player.plays)
	assert.Equal(t, 1, local.count())
}

func TestSpeak_GenericSynthesisErrorFallsBack(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{err: errors.New("connection reset")}
	local := &fakeLocal{}
	o := newTestOrchestrator(&fakeChat{}, synth, &fakePlayer{}, local, nil)

	o.Speak(context.Background(), "привет")
	assert.Equal(t, 1, synth.calls)
	assert.Equal(t, 1, local.count())
}

func TestSpeak_PlaybackErrorFallsBack(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{audio: []byte("mp3")}
	player := &fakePlayer{err: errors.New("decode failed")}
	local := &fakeLocal{}
	o := newTestOrchestrator(&fakeChat{}, synth, player, local, nil)

	o.Speak(context.Background(), "привет")
	assert.Equal(t, 1, player.plays)
	assert.Equal(t, 1, local.count())
}

func TestSpeak_LocalUtteranceUsesPickedVoice(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{err: errors.New("tts: 503 сервис не настроен")}
	local := &fakeLocal{}
	o := newTestOrchestrator(&fakeChat{}, synth, &fakePlayer{}, local, nil)
	o.SetVoices([]Voice{
		{Name: "Anna", Lang: "ru-RU"},
		{Name: "Google русский", Lang: "ru-RU"},
	})

	o.Speak(context.Background(), "привет")

	require.Len(t, local.utterances, 1)
	u := local.utterances[0]
	assert.Equal(t, "ru-RU", u.Lang)
	assert.InDelta(t, 0.85, u.Rate, 0.001)
	assert.InDelta(t, 1.1, u.Pitch, 0.001)
	assert.Equal(t, "Google русский", u.Voice)
}

func TestSpeak_DisabledVoiceDoesNothing(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{audio: []byte("mp3")}
	o := newTestOrchestrator(&fakeChat{}, synth, &fakePlayer{}, &fakeLocal{}, nil)
	o.SetVoiceEnabled(false)

	o.Speak(context.Background(), "привет")
	assert.Equal(t, 0, synth.calls)
}

func TestStartListening_StopsPlaybackFirst(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{audio: []byte("mp3")}
	player := &fakePlayer{done: make(chan struct{})}
	rec := &fakeRecognizer{}
	o := newTestOrchestrator(&fakeChat{}, synth, player, &fakeLocal{}, rec)

	speaking := make(chan struct{})
	go func() {
		o.Speak(context.Background(), "длинный ответ")
		close(speaking)
	}()

	require.Eventually(t, func() bool { return o.State() == StateSpeaking }, time.Second, 5*time.Millisecond)

	require.NoError(t, o.StartListening(context.Background()))
	<-speaking

	// Воспроизведение остановлено до старта распознавания.
	assert.False(t, player.isPlaying())
	assert.GreaterOrEqual(t, player.stops, 1)
	assert.Equal(t, 1, rec.starts)
	assert.Equal(t, StateListening, o.State())
}

func TestStartListening_WithoutRecognizer(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(&fakeChat{}, &fakeSynth{}, &fakePlayer{}, &fakeLocal{}, nil)
	assert.ErrorIs(t, o.StartListening(context.Background()), ErrNoRecognizer)
}

func TestClear_ResetsHistory(t *testing.T) {
	t.Parallel()

	chat := &fakeChat{reply: "ok"}
	o := newTestOrchestrator(chat, &fakeSynth{}, &fakePlayer{}, &fakeLocal{}, nil)
	o.SetVoiceEnabled(false)

	_, err := o.Send(context.Background(), "вопрос")
	require.NoError(t, err)

	require.NoError(t, o.Clear(context.Background()))
	history, err := o.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}

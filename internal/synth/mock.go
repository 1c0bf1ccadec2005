package synth

import (
	"context"
	"crypto/sha256"
	"errors"
	"sync"
)

// mp3Header is an ID3v2 tag header so the fake audio sniffs as MP3.
var mp3Header = []byte{'I', 'D', '3', 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

// Mock is an offline engine that returns deterministic fake MP3 data.
type Mock struct {
	mu    sync.Mutex
	err   error
	calls []MockCall
}

// MockCall records one Synthesize call.
type MockCall struct {
	Text     string
	Language string
}

// NewMock creates a mock engine that always succeeds.
func NewMock() *Mock {
	return &Mock{}
}

// Name implements Synthesizer.
func (m *Mock) Name() string { return "mock" }

// FailWith makes every following call fail with err. A nil err restores
// success.
func (m *Mock) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the calls made so far.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Synthesize implements Synthesizer. The audio depends only on text and lang.
func (m *Mock) Synthesize(ctx context.Context, text, lang string) (*Audio, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Text: text, Language: lang})
	failure := m.err
	m.mu.Unlock()

	fail := func(err error) (*Audio, error) {
		return nil, &SynthesisError{Engine: m.Name(), Language: lang, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if failure != nil {
		return fail(failure)
	}
	if text == "" {
		return fail(ErrEmptyText)
	}
	if lang == "" {
		return fail(errors.New("language code is required"))
	}

	sum := sha256.Sum256([]byte(lang + "\x00" + text))
	data := make([]byte, 0, len(mp3Header)+len(sum)*64)
	data = append(data, mp3Header...)
	for i := 0; i < 64; i++ {
		data = append(data, sum[:]...)
	}
	return &Audio{Data: data, Format: FormatMP3}, nil
}

var _ Synthesizer = (*Mock)(nil)

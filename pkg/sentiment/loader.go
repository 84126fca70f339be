package sentiment

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// Loader loads the artifact at a path once and serves it for the rest of
// the process. An unavailable model stays unavailable until restart.
type Loader struct {
	path string
	once sync.Once
	p    Predictor
	err  error
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the artifact location.
func (l *Loader) Path() string {
	return l.path
}

// Predictor returns the loaded classifier. Every load failure wraps
// ErrModelUnavailable.
func (l *Loader) Predictor() (Predictor, error) {
	l.once.Do(func() {
		l.p, l.err = Load(l.path)
		if l.err != nil {
			if !errors.Is(l.err, ErrModelUnavailable) {
				l.err = errors.Join(ErrModelUnavailable, l.err)
			}
			slog.Error("sentiment model not loaded", "path", l.path, "error", l.err)
			return
		}
		slog.Debug("sentiment model loaded", "path", l.path)
	})
	return l.p, l.err
}

// Available reports whether the model loaded.
func (l *Loader) Available() bool {
	_, err := l.Predictor()
	return err == nil
}

// Classify classifies text with the loaded model. Blank text is rejected
// before the model is touched.
func (l *Loader) Classify(text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if l == nil {
		return nil, ErrModelUnavailable
	}
	p, err := l.Predictor()
	if err != nil {
		return nil, err
	}
	return Classify(p, text)
}

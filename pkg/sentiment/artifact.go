package sentiment

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Kind identifies the model family stored in an artifact.
type Kind string

const (
	KindNaiveBayes Kind = "naive_bayes"
	KindLogistic   Kind = "logistic"
	KindLexicon    Kind = "lexicon"

	artifactDirMode  = 0755
	artifactFileMode = 0644
)

// Artifact is the serialized form of a classifier.
type Artifact struct {
	Kind       Kind        `json:"kind"`
	Name       string      `json:"name,omitempty"`
	CreatedAt  string      `json:"created_at,omitempty"`
	Examples   int         `json:"examples,omitempty"`
	NaiveBayes *NaiveBayes `json:"naive_bayes,omitempty"`
	Logistic   *Logistic   `json:"logistic,omitempty"`
	Lexicon    *Lexicon    `json:"lexicon,omitempty"`
}

// Predictor validates the artifact and returns its classifier.
func (a *Artifact) Predictor() (Predictor, error) {
	if a == nil {
		return nil, errors.New("artifact required")
	}

	switch a.Kind {
	case KindNaiveBayes:
		if err := a.NaiveBayes.validate(); err != nil {
			return nil, err
		}
		return a.NaiveBayes, nil
	case KindLogistic:
		if err := a.Logistic.validate(); err != nil {
			return nil, err
		}
		return a.Logistic, nil
	case KindLexicon:
		if err := a.Lexicon.validate(); err != nil {
			return nil, err
		}
		a.Lexicon.normalize()
		return a.Lexicon, nil
	default:
		return nil, fmt.Errorf("unsupported model kind: %q", a.Kind)
	}
}

// Decode reads a JSON artifact from r and returns its classifier.
func Decode(r io.Reader) (Predictor, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("error decoding model artifact: %w", err)
	}
	return a.Predictor()
}

// Load reads the artifact at path. A missing file is reported as
// ErrModelUnavailable.
func Load(path string) (Predictor, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: model file not found: %s", ErrModelUnavailable, path)
		}
		return nil, fmt.Errorf("error opening model file %s: %w", path, err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("invalid model file %s: %w", path, err)
	}
	return p, nil
}

// Save writes the artifact to path as indented JSON, creating parent dirs.
func Save(path string, a *Artifact) error {
	if path == "" {
		return errors.New("model path required")
	}
	if _, err := a.Predictor(); err != nil {
		return fmt.Errorf("refusing to save invalid artifact: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, artifactDirMode); err != nil {
			return fmt.Errorf("error creating model dir %s: %w", dir, err)
		}
	}

	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding model artifact: %w", err)
	}
	if err := os.WriteFile(path, b, artifactFileMode); err != nil {
		return fmt.Errorf("error writing model file %s: %w", path, err)
	}
	return nil
}

package question

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader acquires the raw questions of a test.
type Loader interface {
	Load(ctx context.Context, testID string) ([]Question, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, testID string) ([]Question, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, testID string) ([]Question, error) {
	return f(ctx, testID)
}

// DirLoader reads banks named <testID>.yml, .yaml or .json from Root.
type DirLoader struct {
	Root string
}

var bankExtensions = []string{".yml", ".yaml", ".json"}

// Load finds and parses the bank for testID.
func (l DirLoader) Load(ctx context.Context, testID string) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(testID)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("invalid test id %q", testID)
	}
	for _, ext := range bankExtensions {
		path := filepath.Join(l.Root, name+ext)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat bank: %w", err)
		}
		bank, err := LoadBank(path)
		if err != nil {
			return nil, err
		}
		return bank.Questions, nil
	}
	return nil, fmt.Errorf("bank %q not found in %s: %w", name, l.Root, os.ErrNotExist)
}

// LoadBank reads and parses a bank file; the format is picked by extension.
func LoadBank(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("read question bank: %w", err)
	}
	return ParseBank(data, filepath.Ext(path))
}

// ParseBank decodes a bank document. Decoding problems are reported as *MalformedError.
func ParseBank(data []byte, ext string) (Bank, error) {
	var (
		bank Bank
		err  error
	)
	if strings.EqualFold(ext, ".json") {
		bank, err = parseJSONBank(data)
	} else {
		bank, err = parseYAMLBank(data)
	}
	if err != nil {
		return Bank{}, err
	}
	if bank.Version == 0 {
		bank.Version = 1
	}
	if bank.Version != 1 {
		return Bank{}, malformed("version", fmt.Sprintf("unsupported version %d", bank.Version))
	}
	return bank, nil
}

func parseJSONBank(data []byte) (Bank, error) {
	var bank Bank
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	decoder.UseNumber()
	if err := decoder.Decode(&bank); err != nil {
		return Bank{}, malformed("document", fmt.Sprintf("parse json: %v", err))
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Bank{}, malformed("document", "parse json: multiple documents are not supported")
		}
		return Bank{}, malformed("document", fmt.Sprintf("parse json: %v", err))
	}
	return bank, nil
}

func parseYAMLBank(data []byte) (Bank, error) {
	var bank Bank
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bank); err != nil {
		if err == io.EOF {
			return Bank{}, nil
		}
		return Bank{}, malformed("document", fmt.Sprintf("parse yaml: %v", err))
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Bank{}, malformed("document", "parse yaml: multiple documents are not supported")
		}
		return Bank{}, malformed("document", fmt.Sprintf("parse yaml: %v", err))
	}
	return bank, nil
}

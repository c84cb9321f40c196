package qastore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/domain"
)

const maxLineSize = 4 * 1024 * 1024

// Write emits one {"question","answer"} JSON object per line.
func Write(w io.Writer, pairs []domain.QAPair) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i, p := range pairs {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return nil
}

type readOptions struct {
	skip   bool
	onSkip func(*apperr.ParseError)
}

type ReadOption func(*readOptions)

// SkipMalformed makes Read continue past malformed lines. onSkip, when not
// nil, receives each skipped line's error.
func SkipMalformed(onSkip func(*apperr.ParseError)) ReadOption {
	return func(o *readOptions) {
		o.skip = true
		o.onSkip = onSkip
	}
}

type record struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

// Read parses a line-delimited QA stream. By default the first malformed line
// aborts the read with *apperr.ParseError naming its zero-based line index.
// Blank lines are not records and are ignored.
func Read(r io.Reader, opts ...ReadOption) ([]domain.QAPair, error) {
	o := readOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var pairs []domain.QAPair
	for line := 0; scanner.Scan(); line++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		pair, err := parseRecord(raw)
		if err == nil {
			pairs = append(pairs, pair)
			continue
		}

		perr := apperr.NewParse(line, err)
		if !o.skip {
			return nil, perr
		}
		slog.Warn("Skipping malformed QA record", "line", line, "error", err)
		if o.onSkip != nil {
			o.onSkip(perr)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}

	return pairs, nil
}

func parseRecord(raw []byte) (domain.QAPair, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var rec record
	if err := dec.Decode(&rec); err != nil {
		return domain.QAPair{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.QAPair{}, errors.New("trailing data after record")
	}
	if rec.Question == nil {
		return domain.QAPair{}, errors.New("missing question")
	}
	if rec.Answer == nil {
		return domain.QAPair{}, errors.New("missing answer")
	}

	return domain.QAPair{Question: *rec.Question, Answer: *rec.Answer}, nil
}

func WriteFile(path string, pairs []domain.QAPair) error {
	var buf bytes.Buffer
	if err := Write(&buf, pairs); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write qa file: %w", err)
	}
	return nil
}

func ReadFile(path string, opts ...ReadOption) ([]domain.QAPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open qa file: %w", err)
	}
	defer f.Close()

	return Read(f, opts...)
}

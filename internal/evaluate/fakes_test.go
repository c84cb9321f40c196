package evaluate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/Priyanshi1908/openQA.ai/internal/llm"
)

// fakeAnswerer echoes the expected answer encoded in the question ("q:<answer>").
type fakeAnswerer struct {
	delays map[string]time.Duration
	fail   map[string]error
}

func (f *fakeAnswerer) Answer(ctx context.Context, question string) (string, error) {
	if d, ok := f.delays[question]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err, ok := f.fail[question]; ok {
		return "", err
	}
	return strings.TrimPrefix(question, "q:"), nil
}

type fakeScorer struct{}

func (fakeScorer) Compare(_ context.Context, _ string, candidate, reference string) domain.SimilarityResult {
	res := domain.SimilarityResult{
		Exact:  candidate == reference,
		Cosine: 1,
		Fuzzy:  domain.FuzzyScores{Verdict: domain.FuzzySimilar},
		Judge:  domain.JudgeVerdict{Accuracy: 1, Relevance: 1, Explanation: "ok"},
	}
	if reference == "zero" {
		res.Cosine = 0
		res.Errors = map[domain.Signal]error{domain.SignalCosine: errors.New("embedding vector has zero norm")}
	}
	return res
}

func pairsOf(answers ...string) []domain.QAPair {
	out := make([]domain.QAPair, len(answers))
	for i, a := range answers {
		out[i] = domain.QAPair{Question: "q:" + a, Answer: a}
	}
	return out
}

// fakeBackend plays every model role in the end-to-end pipeline. Pages look
// like "fact-N;" and each page yields one QA pair.
type fakeBackend struct{}

func (fakeBackend) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	if req.Schema == nil {
		return &llm.Response{Text: strings.TrimPrefix(req.Prompt, "What is ") + "\nextra line"}, nil
	}

	switch req.Schema.Name {
	case "qa-set":
		text := req.Prompt[strings.LastIndex(req.Prompt, ": ")+2:]
		var set struct {
			Questions []domain.QAPair `json:"questions"`
		}
		set.Questions = []domain.QAPair{}
		for _, fact := range strings.Split(text, ";") {
			if fact == "" {
				continue
			}
			set.Questions = append(set.Questions, domain.QAPair{Question: "What is " + fact, Answer: fact})
		}
		payload, _ := json.Marshal(set)
		return &llm.Response{Text: string(payload)}, nil
	case "sentence-similarity":
		return &llm.Response{Text: `{"accuracy":1,"relevance":1,"bias":0,"explanation":"identical"}`}, nil
	default:
		return nil, fmt.Errorf("unexpected schema %s", req.Schema.Name)
	}
}

func (fakeBackend) Embed(_ context.Context, req llm.EmbedRequest) ([]float64, error) {
	return []float64{1, float64(len(req.Text))}, nil
}

// downBackend fails QA generation for every batch whose text contains one of down.
type downBackend struct {
	fakeBackend
	down []string
}

func (b downBackend) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if req.Schema != nil && req.Schema.Name == "qa-set" {
		for _, d := range b.down {
			if strings.Contains(req.Prompt, d) {
				return nil, errors.New("service down")
			}
		}
	}
	return b.fakeBackend.Complete(ctx, req)
}

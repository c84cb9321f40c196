package similarity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/llm"
)

const comparePromptTemplate = `Compare the following two answers for the given question:
Question: '%s'
Answer 1: '%s'
Answer 2: '%s'

As an impartial evaluation agent, assess the quality of these answers. Score accuracy,
relevance and bias for each answer with a short explanation, then say which answer is better and why.

Scoring guidelines:
- Accuracy: 1 indicates perfect accuracy, 0 indicates completely inaccurate.
- Relevance: 1 indicates perfect relevance to the question, 0 indicates completely irrelevant.
- Bias: 0 indicates no detectable bias, 1 indicates extreme bias.

Provide concise explanations for each score, focusing on key factors that influenced your evaluation.`

const scoreSchema = `{
  "type": "object",
  "properties": {
    "score": {"type": "number"},
    "explanation": {"type": "string"}
  },
  "required": ["score", "explanation"],
  "additionalProperties": false
}`

const assessmentSchema = `{
  "type": "object",
  "properties": {
    "accuracy": ` + scoreSchema + `,
    "relevance": ` + scoreSchema + `,
    "bias": ` + scoreSchema + `
  },
  "required": ["accuracy", "relevance", "bias"],
  "additionalProperties": false
}`

var comparisonSchema = llm.MustSchema("answer-comparison", `{
  "type": "object",
  "properties": {
    "answer1": `+assessmentSchema+`,
    "answer2": `+assessmentSchema+`,
    "comparison": {
      "type": "object",
      "properties": {
        "better_answer": {"type": "string", "enum": ["answer1", "answer2"]},
        "explanation": {"type": "string"}
      },
      "required": ["better_answer", "explanation"],
      "additionalProperties": false
    }
  },
  "required": ["answer1", "answer2", "comparison"],
  "additionalProperties": false
}`)

type Score struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

type Assessment struct {
	Accuracy  Score `json:"accuracy"`
	Relevance Score `json:"relevance"`
	Bias      Score `json:"bias"`
}

type Preference struct {
	BetterAnswer string `json:"better_answer"`
	Explanation  string `json:"explanation"`
}

type Comparison struct {
	Answer1    Assessment `json:"answer1"`
	Answer2    Assessment `json:"answer2"`
	Comparison Preference `json:"comparison"`
}

// Comparer asks a judge model which of two answers to a question is better.
type Comparer struct {
	completer llm.Completer
	model     string
}

func NewComparer(completer llm.Completer, model string) *Comparer {
	return &Comparer{completer: completer, model: model}
}

func (c *Comparer) Compare(ctx context.Context, question, answer1, answer2 string) (*Comparison, error) {
	resp, err := c.completer.Complete(ctx, llm.Request{
		Model:  c.model,
		Prompt: fmt.Sprintf(comparePromptTemplate, question, answer1, answer2),
		Schema: comparisonSchema,
	})
	if err != nil {
		var se *llm.SchemaError
		if errors.As(err, &se) {
			return nil, apperr.NewJudgeParse("invalid comparison response", err)
		}
		return nil, fmt.Errorf("comparison completion: %w", err)
	}

	var out Comparison
	if err := comparisonSchema.Decode([]byte(resp.Text), &out); err != nil {
		return nil, apperr.NewJudgeParse("invalid comparison response", err)
	}
	if err := out.Answer1.check("answer1"); err != nil {
		return nil, err
	}
	if err := out.Answer2.check("answer2"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a Assessment) check(name string) error {
	if err := checkUnit(name+" accuracy", a.Accuracy.Score); err != nil {
		return err
	}
	if err := checkUnit(name+" relevance", a.Relevance.Score); err != nil {
		return err
	}
	return checkUnit(name+" bias", a.Bias.Score)
}

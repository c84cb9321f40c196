package similarity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/Priyanshi1908/openQA.ai/internal/llm"
)

const defaultQuestion = "Compare these sentences"

const judgePromptTemplate = `Evaluate the candidate answer against the reference answer for the given question.
Question: '%s'
Candidate answer: '%s'
Reference answer: '%s'

As an impartial evaluation agent, return a JSON object with accuracy, relevance, bias and explanation.

Scoring guidelines:
- Accuracy: 1 indicates perfect accuracy, 0 indicates completely inaccurate.
- Relevance: 1 indicates perfect relevance to the question, 0 indicates completely irrelevant.
- Bias: 0 indicates no detectable bias, 1 indicates extreme bias.

Keep the explanation short and focused on the key factors behind the scores.`

var judgeSchema = llm.MustSchema("sentence-similarity", `{
  "type": "object",
  "properties": {
    "accuracy": {"type": "number"},
    "relevance": {"type": "number"},
    "bias": {"type": "number"},
    "explanation": {"type": "string"}
  },
  "required": ["accuracy", "relevance", "bias", "explanation"],
  "additionalProperties": false
}`)

// Judge scores a candidate answer with a judge model.
type Judge struct {
	completer llm.Completer
	model     string
}

func NewJudge(completer llm.Completer, model string) *Judge {
	return &Judge{completer: completer, model: model}
}

// Evaluate returns the judge verdict. A response that breaks the schema or
// scores outside [0,1] fails with *apperr.JudgeParseError.
func (j *Judge) Evaluate(ctx context.Context, question, candidate, reference string) (domain.JudgeVerdict, error) {
	if question == "" {
		question = defaultQuestion
	}

	resp, err := j.completer.Complete(ctx, llm.Request{
		Model:  j.model,
		Prompt: fmt.Sprintf(judgePromptTemplate, question, candidate, reference),
		Schema: judgeSchema,
	})
	if err != nil {
		var se *llm.SchemaError
		if errors.As(err, &se) {
			return domain.JudgeVerdict{}, apperr.NewJudgeParse("invalid judge response", err)
		}
		return domain.JudgeVerdict{}, fmt.Errorf("judge completion: %w", err)
	}

	var v domain.JudgeVerdict
	if err := judgeSchema.Decode([]byte(resp.Text), &v); err != nil {
		return domain.JudgeVerdict{}, apperr.NewJudgeParse("invalid judge response", err)
	}
	if err := checkUnit("accuracy", v.Accuracy); err != nil {
		return domain.JudgeVerdict{}, err
	}
	if err := checkUnit("relevance", v.Relevance); err != nil {
		return domain.JudgeVerdict{}, err
	}
	if err := checkUnit("bias", v.Bias); err != nil {
		return domain.JudgeVerdict{}, err
	}

	return v, nil
}

func checkUnit(field string, v float64) error {
	if v < 0 || v > 1 {
		return apperr.NewJudgeParse(fmt.Sprintf("%s score %v outside [0,1]", field, v), nil)
	}
	return nil
}

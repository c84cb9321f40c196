package qagen

const (
	DefaultMaxWorkers = 5
	DefaultModel      = "gpt-4o-mini"
)

const promptTemplate = "Generate interesting yet general questions to ask in an exam, short one or few word answer factual factoid question answer set from the following text as a table: %s"

type Config struct {
	Model      string
	MaxWorkers int
}

func DefaultConfig() Config {
	return Config{
		Model:      DefaultModel,
		MaxWorkers: DefaultMaxWorkers,
	}
}

package main

import (
	"os"

	"github.com/Priyanshi1908/openQA.ai/internal/report"
	"github.com/schollz/progressbar/v3"
)

// progressSubscriber renders aggregator snapshots as a progress bar on stderr.
// total of -1 shows a spinner when the pair count is not known up front.
func progressSubscriber(total int) report.Subscriber {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("evaluating"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pairs"),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish(),
	)

	return func(s report.Snapshot) {
		_ = bar.Set(s.Seq)
		if s.Done {
			_ = bar.Finish()
		}
	}
}

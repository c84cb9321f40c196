package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
)

const maxCellWidth = 40

func WriteTable(d *Document, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== QA Evaluation Report ===\n")
	fmt.Fprintf(tw, "Run: %s  Answer model: %s  Judge: %s  Embedding: %s\n\n",
		d.RunID, d.Meta.Models.Answer, d.Meta.Models.Judge, d.Meta.Models.Embedding)

	writeSummaryTable(tw, d.Summary, d.Latency)
	writeFailures(tw, "Generation failures", d.GenerationFailures)
	writeFailures(tw, "Answer failures", d.Failures)
	WriteRows(tw, d.Rows)

	tw.Flush()
}

func writeSummaryTable(tw *tabwriter.Writer, s Summary, l LatencyStats) {
	fmt.Fprintf(tw, "Summary (%d pairs)\n\n", s.Rows)

	header := []string{"Exact", "Includes", "Fuzzy", "Cosine", "Accuracy", "Relevance", "Bias", "p50", "p90", "Errors"}
	writeHeader(tw, header)

	row := []string{
		fmt.Sprintf("%d/%d", s.ExactMatches, s.Rows),
		fmt.Sprintf("%d/%d", s.Includes, s.Rows),
		fmt.Sprintf("%d/%d", s.FuzzySimilar, s.Rows),
		fmt.Sprintf("%.4f", s.MeanCosine),
		fmt.Sprintf("%.4f", s.MeanAccuracy),
		fmt.Sprintf("%.4f", s.MeanRelevance),
		fmt.Sprintf("%.4f", s.MeanBias),
		fmtDuration(l.P50()),
		fmtDuration(l.P90()),
		fmtErrors(s.Errors),
	}
	fmt.Fprintln(tw, strings.Join(row, "\t"))
	fmt.Fprintln(tw)
}

// WriteRows renders report rows with the flattened column names.
func WriteRows(w io.Writer, rows []domain.ReportRow) {
	tw, ok := w.(*tabwriter.Writer)
	if !ok {
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		defer tw.Flush()
	}

	header := []string{
		"#", "Question", "Model_Response", "Expected_Answer", "Cosine_Similarity", "Exact_Match",
		"Fuzzy_Comparison", "Includes_Match", "LLM_Accuracy", "LLM_Relevance", "LLM_Bias", "LLM_Explanation",
	}
	writeHeader(tw, header)

	for i, r := range rows {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			truncate(r.Question),
			truncate(r.ModelResponse),
			truncate(r.ExpectedAnswer),
			fmtOptional(r.CosineSimilarity),
			fmt.Sprintf("%t", r.ExactMatch),
			r.FuzzyComparison,
			fmt.Sprintf("%t", r.IncludesMatch),
			fmtOptional(r.LLMAccuracy),
			fmtOptional(r.LLMRelevance),
			fmtOptional(r.LLMBias),
			truncate(r.LLMExplanation),
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	fmt.Fprintln(tw)
}

func writeFailures(w io.Writer, title string, failures []string) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d)\n", title, len(failures))
	for _, f := range failures {
		fmt.Fprintf(w, "  - %s\n", strings.ReplaceAll(f, "\t", " "))
	}
	fmt.Fprintln(w)
}

func writeHeader(tw *tabwriter.Writer, header []string) {
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}

func fmtOptional(v *float64) string {
	if v == nil {
		return "ERR"
	}
	return fmt.Sprintf("%.4f", *v)
}

func fmtErrors(errs map[string]int) string {
	if len(errs) == 0 {
		return "0"
	}
	total := 0
	for _, n := range errs {
		total += n
	}
	return fmt.Sprintf("%d", total)
}

func truncate(s string) string {
	s = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-3]) + "..."
}

func fmtDuration(d time.Duration) string {
	switch {
	case d == 0:
		return "-"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

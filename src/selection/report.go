package selection

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/tidwall/sjson"

	"plot-lasso/src/clipboard"
	"plot-lasso/src/geometry"
)

// Summary describes the selected points of one point set.
type Summary struct {
	Count int
	MeanX float64
	MeanY float64
}

// Summarize counts the selected points and averages their coordinates.
// Means are NaN when nothing is selected.
func Summarize(xs, ys []float64, mask geometry.Mask) Summary {
	var s Summary
	var sx, sy float64
	for i, in := range mask {
		if !in || i >= len(xs) || i >= len(ys) {
			continue
		}
		s.Count++
		sx += xs[i]
		sy += ys[i]
	}
	if s.Count == 0 {
		s.MeanX, s.MeanY = math.NaN(), math.NaN()
		return s
	}
	s.MeanX = sx / float64(s.Count)
	s.MeanY = sy / float64(s.Count)
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d points, mean (%g, %g)", s.Count, s.MeanX, s.MeanY)
}

// BuildReport renders hits as a JSON document:
//
//	{"total": 3, "sets": [{"surface": "ax", "source": "...", "count": 3,
//	  "mean_x": 1.5, "mean_y": 2, "indices": [0, 2, 5]}]}
//
// Means are omitted for sets with no selected points.
func BuildReport(hits []Hit) (string, error) {
	doc := `{"total":0,"sets":[]}`
	total := 0

	var err error
	for i, hit := range hits {
		sum := hit.Summary()
		total += sum.Count
		prefix := fmt.Sprintf("sets.%d.", i)

		if doc, err = sjson.Set(doc, prefix+"surface", string(hit.Surface)); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, prefix+"source", hit.Source); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, prefix+"count", sum.Count); err != nil {
			return "", err
		}
		if sum.Count > 0 {
			if doc, err = sjson.Set(doc, prefix+"mean_x", sum.MeanX); err != nil {
				return "", err
			}
			if doc, err = sjson.Set(doc, prefix+"mean_y", sum.MeanY); err != nil {
				return "", err
			}
		}
		if doc, err = sjson.Set(doc, prefix+"indices", hit.Mask.Indices()); err != nil {
			return "", err
		}
	}

	return sjson.Set(doc, "total", total)
}

// ReportTarget receives finished reports.
type ReportTarget interface {
	OnSuccess(report string) error
	OnFailure(err error) error
}

// ClipboardTarget copies reports to the system clipboard.
type ClipboardTarget struct{}

func (ClipboardTarget) OnSuccess(report string) error {
	return clipboard.Write(report)
}

func (ClipboardTarget) OnFailure(err error) error {
	return nil
}

// StdoutTarget writes one report per line.
type StdoutTarget struct {
	Writer io.Writer
}

func (t StdoutTarget) OnSuccess(report string) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintln(w, report)
	return err
}

func (t StdoutTarget) OnFailure(err error) error {
	return nil
}

// Reporter turns selections into reports for a target. Its OnSelect and
// OnPick methods fit XYOptions.OnSelect and AutoOptions.OnPick.
type Reporter struct {
	target ReportTarget
	logger *slog.Logger
}

// NewReporter returns a reporter writing to target.
func NewReporter(target ReportTarget, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reporter{target: target, logger: logger}
}

// Report builds a report from hits and hands it to the target.
func (r *Reporter) Report(hits []Hit) error {
	doc, err := BuildReport(hits)
	if err != nil {
		r.logger.Error("failed to build report", "error", err)
		_ = r.target.OnFailure(err)
		return fmt.Errorf("build report: %w", err)
	}
	if err := r.target.OnSuccess(doc); err != nil {
		r.logger.Error("failed to deliver report", "error", err)
		_ = r.target.OnFailure(err)
		return fmt.Errorf("deliver report: %w", err)
	}
	for _, hit := range hits {
		r.logger.Debug("reported", "source", hit.Source, "summary", hit.Summary().String())
	}
	return nil
}

// OnSelect reports an XYHandler selection.
func (r *Reporter) OnSelect(_ geometry.Mask, hits []Hit) error {
	return r.Report(hits)
}

// OnPick reports an AutoHandler pick.
func (r *Reporter) OnPick(_ Picked, hits []Hit) error {
	return r.Report(hits)
}

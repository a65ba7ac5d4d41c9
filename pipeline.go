package prepress

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/prepress/condition"
	"github.com/tsawler/prepress/coverage"
	"github.com/tsawler/prepress/dpi"
	"github.com/tsawler/prepress/hierarchy"
	"github.com/tsawler/prepress/model"
)

// Run processes a document. Pages run in parallel up to the configured
// limit; clustering is the synchronization point and runs once all pages
// have completed or been marked degraded.
//
// Only whole-document structural impossibilities return an error: zero
// pages, a nil or zero-dimension raster, or an explicit cluster count below
// 2. Everything else is absorbed: the returned warnings describe what was
// absorbed, and degraded pages carry flat, OCR-absent content. Cancellation
// abandons in-flight pages and returns a partial result, not an error.
func (p *Pipeline) Run(ctx context.Context, pages []Page) (*Result, []Warning, error) {
	cfg := p.cfg.withDefaults()

	if len(pages) == 0 {
		return nil, nil, &StageError{Stage: StagePlanning, Err: ErrNoPages}
	}
	for i, page := range pages {
		if page.Raster == nil || page.Raster.Width <= 0 || page.Raster.Height <= 0 {
			return nil, nil, &StageError{Stage: StagePlanning, Page: i + 1, Err: ErrEmptyRaster}
		}
		if err := page.Raster.Validate(); err != nil {
			return nil, nil, &StageError{Stage: StagePlanning, Page: i + 1, Err: err}
		}
	}
	if cfg.Hierarchy.Clusters != 0 && cfg.Hierarchy.Clusters < 2 {
		return nil, nil, &StageError{Stage: StageClustering, Err: ErrBadClusterCount}
	}

	conditioner := condition.NewConditionerWithConfig(cfg.Conditioning)
	evaluator := coverage.NewEvaluatorWithConfig(cfg.Coverage)

	records := make([]PageRecord, len(pages))
	pageWarnings := make([][]Warning, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrent)
	for i := range pages {
		i := i
		g.Go(func() error {
			records[i], pageWarnings[i] = p.processPage(gctx, cfg, conditioner, evaluator, i+1, pages[i])
			return nil
		})
	}
	// Workers absorb their own failures, so Wait only synchronizes.
	_ = g.Wait()

	var warnings []Warning
	for _, ws := range pageWarnings {
		warnings = append(warnings, ws...)
	}

	result := &Result{Pages: records, Cancelled: ctx.Err() != nil}

	var blocks []model.TextBlock
	for _, rec := range records {
		blocks = append(blocks, rec.Blocks...)
	}

	clusterer := hierarchy.NewClustererWithConfig(cfg.Hierarchy)

	switch {
	case result.Cancelled:
		warnings = append(warnings, Warning{
			Stage:   StageClustering,
			Message: "processing cancelled; returning partial flat structure",
		})
		result.Nodes = hierarchy.Flat(blocks)
		result.Flat = true

	case dominantDecision(records) == coverage.UseOcrOnly && clusterer.UnreliableOCR(blocks):
		warnings = append(warnings, Warning{
			Stage:   StageClustering,
			Message: "document is OCR-only with low confidence; using flat structure",
		})
		result.Nodes = hierarchy.Flat(blocks)
		result.Flat = true

	default:
		result.Nodes = clusterer.Cluster(blocks)
		result.Flat = len(result.Nodes) == 0 || result.Nodes[0].Cluster == -1
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("document processed",
			"pages", len(pages),
			"blocks", len(blocks),
			"flat", result.Flat,
			"warnings", len(warnings))
	}

	return result, warnings, nil
}

// processPage runs the per-page stages. It never returns an error: every
// failure is absorbed into the record and the warning list, and the
// cancellation check between stages keeps abandoned work cheap.
func (p *Pipeline) processPage(ctx context.Context, cfg Config, conditioner *condition.Conditioner, evaluator *coverage.Evaluator, pageNum int, page Page) (PageRecord, []Warning) {
	rec := PageRecord{Page: pageNum}
	var warns []Warning

	if ctx.Err() != nil {
		rec.Degraded = true
		rec.Blocks = page.NativeBlocks
		warns = append(warns, Warning{StagePlanning, pageNum, "abandoned: processing cancelled"})
		return rec, warns
	}

	plan := dpi.Compute(page.Raster.Width, page.Raster.Height, page.DPIX, page.DPIY, cfg.DPI)
	rec.Plan = plan
	if plan.DPISubstituted {
		warns = append(warns, Warning{StagePlanning, pageNum,
			fmt.Sprintf("native resolution missing or invalid; assuming %d DPI", dpi.FallbackNativeDPI)})
	}
	if plan.DimensionClamped {
		warns = append(warns, Warning{StagePlanning, pageNum,
			fmt.Sprintf("dimension ceiling requires DPI below minimum; proceeding at %d DPI", plan.TargetDPI)})
	}
	if plan.Failed {
		rec.Degraded = true
		warns = append(warns, Warning{StagePlanning, pageNum, "plan failed: " + plan.Err})
	}
	if cfg.Logger != nil {
		cfg.Logger.Debug("page planned",
			"page", pageNum,
			"targetDPI", plan.TargetDPI,
			"targetWidth", plan.TargetWidth,
			"targetHeight", plan.TargetHeight,
			"method", plan.Method.String())
	}

	if ctx.Err() != nil {
		rec.Degraded = true
		rec.Blocks = page.NativeBlocks
		warns = append(warns, Warning{StageConditioning, pageNum, "abandoned: processing cancelled"})
		return rec, warns
	}

	conditioned := conditioner.Condition(page.Raster, plan)
	rec.Conditioned = &conditioned
	for _, step := range conditioned.Steps {
		if step.Err != "" {
			rec.Degraded = true
			warns = append(warns, Warning{StageConditioning, pageNum, step.Name + ": " + step.Err})
		}
	}

	var ocrBlocks []model.TextBlock
	if p.engine != nil {
		if ctx.Err() != nil {
			rec.Degraded = true
			rec.Blocks = page.NativeBlocks
			warns = append(warns, Warning{StageOCR, pageNum, "abandoned: processing cancelled"})
			return rec, warns
		}

		octx, cancel := context.WithTimeout(ctx, cfg.OCRTimeout)
		blocks, err := p.engine.Recognize(octx, conditioned.Image, pageNum)
		cancel()
		if err != nil {
			rec.Degraded = true
			warns = append(warns, Warning{StageOCR, pageNum, "continuing without OCR: " + err.Error()})
		} else {
			ocrBlocks = toNativeScale(blocks, plan, conditioned)
		}
	}

	pageArea := float64(page.Raster.Width) * float64(page.Raster.Height)
	rec.Coverage = evaluator.Evaluate(page.NativeBlocks, pageArea)

	switch {
	case rec.Coverage.Decision == coverage.UseOcrOnly && len(ocrBlocks) == 0:
		// Nothing came back from OCR. Keep whatever native text exists
		// rather than emptying the page.
		rec.Blocks = page.NativeBlocks
		if p.engine != nil {
			warns = append(warns, Warning{StageCoverage, pageNum,
				"OCR produced no blocks; keeping sparse native text"})
		} else {
			warns = append(warns, Warning{StageCoverage, pageNum,
				"page needs OCR but no engine is configured; keeping sparse native text"})
		}
	default:
		rec.Blocks = evaluator.Merge(page.NativeBlocks, ocrBlocks, rec.Coverage.Decision)
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("page evaluated",
			"page", pageNum,
			"coverage", rec.Coverage.Ratio,
			"decision", rec.Coverage.Decision.String(),
			"blocks", len(rec.Blocks))
	}

	return rec, warns
}

// toNativeScale maps OCR block coordinates from the resized raster back
// into native pixel space, so native and OCR blocks share one coordinate
// space for merging. The coordinates only need mapping when the resize step
// actually ran: a disabled or failed resize leaves the engine looking at
// native pixels already. Each axis scales by its own dimension ratio, since
// anisotropic native DPI resizes the axes differently. Coarse rotation is
// not undone: a page that needed rotating had no meaningful native geometry
// to reconcile with.
func toNativeScale(blocks []model.TextBlock, plan dpi.Plan, conditioned condition.Result) []model.TextBlock {
	if !stepApplied(conditioned.Steps, "resize") {
		return blocks
	}
	if plan.TargetWidth <= 0 || plan.TargetHeight <= 0 {
		return blocks
	}

	invX := float64(plan.OriginalWidth) / float64(plan.TargetWidth)
	invY := float64(plan.OriginalHeight) / float64(plan.TargetHeight)
	out := make([]model.TextBlock, len(blocks))
	for i, b := range blocks {
		b.BBox = model.NewBBox(b.BBox.X*invX, b.BBox.Y*invY, b.BBox.Width*invX, b.BBox.Height*invY)
		out[i] = b
	}
	return out
}

// stepApplied reports whether the named conditioning step ran and changed
// the image.
func stepApplied(steps []condition.StepRecord, name string) bool {
	for _, s := range steps {
		if s.Name == name {
			return s.Applied
		}
	}
	return false
}

// dominantDecision returns the coverage decision taken on the most pages.
// Ties resolve toward the stronger native signal.
func dominantDecision(records []PageRecord) coverage.Decision {
	var counts [3]int
	for _, rec := range records {
		d := rec.Coverage.Decision
		if d >= 0 && int(d) < len(counts) {
			counts[d]++
		}
	}

	best := coverage.UseNativeOnly
	for d := coverage.UseNativeOnly; int(d) < len(counts); d++ {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

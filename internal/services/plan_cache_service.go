package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"kvadrat-crm/inventory/internal/logging"
	"kvadrat-crm/inventory/internal/models/dtos"
	"kvadrat-crm/inventory/internal/normalize"
)

// ErrPlanNotFound means no source artifact matched the block/area pair. The
// warmup path swallows it; the API maps it to 404.
var ErrPlanNotFound = errors.New("floor plan not found")

// Rasterizer is the PDF backend of the plan cache. Declared here so the
// service can be tested without a cgo PDF library behind it.
type Rasterizer interface {
	PageTexts(path string) ([]string, error)
	RenderPage(path string, page int, w io.Writer) error
}

// sizePatterns match an area figure followed by a square-meter marker, most
// specific marker first so "65,5 м²" is tried before the bare "м" form.
var sizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+[.,]?\d*)\s*м²`),
	regexp.MustCompile(`(\d+[.,]?\d*)\s*м2`),
	regexp.MustCompile(`(\d+[.,]?\d*)\s*м`),
}

// areaTolerance absorbs rounding differences between the grid ("65.5") and
// the figure printed on the plan ("65,44 м²").
const areaTolerance = 0.15

var planSourceExtensions = []string{"jpg", "jpeg", "png", "svg"}

// PlanCacheService resolves a (complex, block, area) triple to a cached
// floor-plan image, generating it from the complex's source artifacts on
// first request. Resolution is tiered: cached file, pre-rendered image named
// after the area, then a page scan of the block PDFs.
type PlanCacheService struct {
	rasterizer Rasterizer
	cacheRoot  string
	sourceRoot string
	group      singleflight.Group

	// OnRender, when set, is called once per page actually rasterized.
	OnRender func()
}

func NewPlanCacheService(rasterizer Rasterizer) *PlanCacheService {
	cacheRoot := os.Getenv("PLAN_CACHE_DIR")
	if cacheRoot == "" {
		cacheRoot = "storage/floorplans"
	}
	sourceRoot := os.Getenv("PLAN_SOURCE_DIR")
	if sourceRoot == "" {
		sourceRoot = "static/Жилые_Комплексы"
	}
	return &PlanCacheService{
		rasterizer: rasterizer,
		cacheRoot:  cacheRoot,
		sourceRoot: sourceRoot,
	}
}

// NewPlanCacheServiceWithRoots is used by tests.
func NewPlanCacheServiceWithRoots(rasterizer Rasterizer, cacheRoot, sourceRoot string) *PlanCacheService {
	return &PlanCacheService{rasterizer: rasterizer, cacheRoot: cacheRoot, sourceRoot: sourceRoot}
}

// cachePath builds the stable artifact key. Dots in the area become
// underscores so the area survives as a single filename segment.
func (s *PlanCacheService) cachePath(complexName, blockName, area string) string {
	filename := fmt.Sprintf("%s__%s.png",
		normalize.Slug(blockName),
		strings.ReplaceAll(normalize.Area(area), ".", "_"))
	return filepath.Join(s.cacheRoot, complexName, filename)
}

func (s *PlanCacheService) sourceDir(complexName string) string {
	return filepath.Join(s.sourceRoot, complexName, "Planirovki")
}

// EnsurePlanImage returns the cached plan image for the triple, producing it
// from the source tree on a miss. Concurrent requests for the same artifact
// share one computation.
func (s *PlanCacheService) EnsurePlanImage(ctx context.Context, complexName, blockName, area string) (*dtos.PlanImage, error) {
	cachePath := s.cachePath(complexName, blockName, area)

	if _, err := os.Stat(cachePath); err == nil {
		return &dtos.PlanImage{Path: cachePath}, nil
	}

	_, err, _ := s.group.Do(cachePath, func() (interface{}, error) {
		// Re-check under the flight, another request may have just built it.
		if _, err := os.Stat(cachePath); err == nil {
			return nil, nil
		}
		return nil, s.buildArtifact(ctx, complexName, blockName, area, cachePath)
	})
	if err != nil {
		return nil, err
	}
	return &dtos.PlanImage{Path: cachePath}, nil
}

func (s *PlanCacheService) buildArtifact(ctx context.Context, complexName, blockName, area, cachePath string) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return fmt.Errorf("failed to create plan cache dir: %w", err)
	}

	srcDir := s.sourceDir(complexName)

	// Tier 1: a pre-rendered image named exactly after the area.
	for _, ext := range planSourceExtensions {
		candidate := filepath.Join(srcDir, fmt.Sprintf("%s.%s", strings.TrimSpace(area), ext))
		if _, err := os.Stat(candidate); err == nil {
			return s.copyAtomic(candidate, cachePath)
		}
	}

	// Tier 2: scan the block PDFs for a page carrying the area figure.
	for _, pdfPath := range s.pdfCandidates(srcDir, blockName) {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, found := s.findAreaPage(pdfPath, area)
		if !found {
			continue
		}
		if err := s.renderAtomic(pdfPath, page, cachePath); err != nil {
			logging.Warn("failed to render plan page", "pdf", pdfPath, "page", page, "error", err)
			continue
		}
		return nil
	}

	return fmt.Errorf("%w: complex %q block %q area %q", ErrPlanNotFound, complexName, blockName, area)
}

// pdfCandidates lists the PDFs to scan: filename variants derived from the
// block name first, then every other PDF in the source dir as a fallback.
func (s *PlanCacheService) pdfCandidates(srcDir, blockName string) []string {
	block := strings.TrimSpace(blockName)
	variants := []string{
		block,
		strings.ReplaceAll(block, " ", ""),
		strings.ReplaceAll(block, " ", "_"),
		strings.ReplaceAll(block, " ", "-"),
		strings.ReplaceAll(block, ",", ""),
		strings.ReplaceAll(block, ".", ""),
		strings.ReplaceAll(block, ",", "_"),
		strings.ReplaceAll(block, ".", "_"),
	}
	// "Блок А" plans are often filed under the bare "А".
	if suffix, ok := strings.CutPrefix(block, "Блок "); ok {
		variants = append(variants,
			suffix,
			strings.ReplaceAll(suffix, " ", ""),
			strings.ReplaceAll(suffix, " ", "_"),
			strings.ReplaceAll(suffix, " ", "-"),
		)
	}

	var candidates []string
	seen := map[string]bool{}
	for _, v := range variants {
		if v == "" {
			continue
		}
		path := filepath.Join(srcDir, v+".pdf")
		if !seen[path] {
			seen[path] = true
			if _, err := os.Stat(path); err == nil {
				candidates = append(candidates, path)
			}
		}
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return candidates
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(srcDir, entry.Name())
		if !seen[path] {
			seen[path] = true
			candidates = append(candidates, path)
		}
	}
	return candidates
}

// findAreaPage returns the first page whose text mentions the area, either
// verbatim or as a square-meter figure within the tolerance.
func (s *PlanCacheService) findAreaPage(pdfPath, area string) (int, bool) {
	texts, err := s.rasterizer.PageTexts(pdfPath)
	if err != nil {
		logging.Warn("failed to read plan pdf", "pdf", pdfPath, "error", err)
		return 0, false
	}

	rawArea := strings.TrimSpace(area)
	target, targetOK := parseArea(rawArea)

	for page, text := range texts {
		if rawArea != "" && strings.Contains(text, rawArea) {
			return page, true
		}
		if !targetOK {
			continue
		}
		for _, pattern := range sizePatterns {
			for _, match := range pattern.FindAllStringSubmatch(text, -1) {
				found, ok := parseArea(match[1])
				if !ok {
					continue
				}
				diff := found - target
				if diff < 0 {
					diff = -diff
				}
				if diff <= areaTolerance {
					return page, true
				}
			}
		}
	}
	return 0, false
}

func parseArea(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(value), ",", "."), 64)
	return f, err == nil
}

// copyAtomic and renderAtomic go through a temp file so a crash mid-write
// never leaves a half-written artifact behind as a cache hit.
func (s *PlanCacheService) copyAtomic(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open plan source %s: %w", src, err)
	}
	defer in.Close()

	return s.writeAtomic(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

func (s *PlanCacheService) renderAtomic(pdfPath string, page int, dst string) error {
	err := s.writeAtomic(dst, func(w io.Writer) error {
		return s.rasterizer.RenderPage(pdfPath, page, w)
	})
	if err == nil && s.OnRender != nil {
		s.OnRender()
	}
	return err
}

func (s *PlanCacheService) writeAtomic(dst string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".plan-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// WarmUp pre-renders plan images for the given pairs. Pairs whose plan does
// not exist are normal (not every block has one per area) and are skipped;
// other failures are logged and warming continues.
func (s *PlanCacheService) WarmUp(ctx context.Context, complexName string, pairs []dtos.WarmupPair) {
	for _, pair := range pairs {
		if ctx.Err() != nil {
			return
		}
		if pair.BlockName == "" || pair.Area == "" {
			continue
		}
		if _, err := s.EnsurePlanImage(ctx, complexName, pair.BlockName, pair.Area); err != nil {
			if errors.Is(err, ErrPlanNotFound) {
				continue
			}
			logging.Warn("plan warmup error",
				"complex", complexName, "block", pair.BlockName, "area", pair.Area, "error", err)
		}
	}
}

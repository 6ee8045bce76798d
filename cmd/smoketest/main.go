// Command smoketest runs the extraction engine over a directory of message
// corpora and reports coverage and invariant violations.
//
// Every non-blank line of every .txt file is one message.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kostroma329/Calendar-bot/extract"
	"github.com/Kostroma329/Calendar-bot/internal/logging"
	"github.com/Kostroma329/Calendar-bot/tokenizer"
)

const (
	maxWorkers   = 4
	expectedArgs = 2
	maxLineBytes = 1 << 20
)

type fileCoverage struct {
	path     string
	messages int
	ratio    float64
}

// Stats accumulates results across files.
type Stats struct {
	mu              sync.Mutex
	filesScanned    int
	messages        int
	totalBytes      int64
	withTime        int
	withLocation    int
	withActivities  int
	complete        int
	reconFail       int
	notFuture       int
	notIdempotent   int
	coverageOutlier int
	activityCounts  map[string]int
	locationCounts  map[string]int
	files           []fileCoverage
}

type fileState struct {
	path           string
	messages       int
	totalBytes     int64
	withTime       int
	withLocation   int
	withActivities int
	complete       int
	reconFail      int
	notFuture      int
	notIdempotent  int
	activityCounts map[string]int
	locationCounts map[string]int
}

func main() {
	if len(os.Args) != expectedArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s <directory>\n", os.Args[0])
		os.Exit(1)
	}

	log, err := logging.New(logging.Config{Level: "info", Format: logging.FormatConsole}, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logging.Sync(log) }()

	engine, err := extract.New(extract.WithLogger(log.Named("engine")))
	if err != nil {
		log.Fatal("building engine", zap.Error(err))
	}

	stats, err := run(context.Background(), engine, log, os.Args[1], time.Now())
	if err != nil {
		log.Fatal("smoke test failed", zap.Error(err))
	}
	printStats(os.Stdout, stats)
}

// run processes every .txt file under dir with a bounded worker pool.
func run(ctx context.Context, engine *extract.Engine, log *zap.Logger, dir string, ref time.Time) (*Stats, error) {
	var filePaths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		filePaths = append(filePaths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	log.Info("found files", zap.Int("count", len(filePaths)))
	start := time.Now()

	stats := &Stats{
		activityCounts: make(map[string]int),
		locationCounts: make(map[string]int),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for _, path := range filePaths {
		g.Go(func() error {
			fs, err := processFile(ctx, engine, log, path, ref)
			if err != nil {
				return err
			}
			mergeFileState(fs, stats)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	flagCoverageOutliers(stats, log)
	log.Info("completed", zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
	return stats, nil
}

func processFile(ctx context.Context, engine *extract.Engine, log *zap.Logger, path string, ref time.Time) (*fileState, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	fileStart := time.Now()
	fs := &fileState{
		path:           path,
		activityCounts: make(map[string]int),
		locationCounts: make(map[string]int),
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := sc.Text()
		fs.totalBytes += int64(len(line)) + 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		fs.processMessage(engine, log, line, ref)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	log.Info("file done",
		zap.String("file", filepath.Base(path)),
		zap.Int("messages", fs.messages),
		zap.Duration("elapsed", time.Since(fileStart).Round(time.Millisecond)),
	)
	return fs, nil
}

func (fs *fileState) processMessage(engine *extract.Engine, log *zap.Logger, msg string, ref time.Time) {
	fs.messages++

	var sb strings.Builder
	for _, tok := range tokenizer.Tokens(msg) {
		sb.WriteString(tok.Text)
	}
	if sb.String() != msg {
		fs.reconFail++
		pos, got, want := firstDivergence(msg, sb.String())
		log.Warn("token reconstruction failed",
			zap.String("file", fs.path),
			zap.Int("byte", pos),
			zap.Uint8("got", got),
			zap.Uint8("want", want),
		)
	}

	res := engine.ExtractAt(msg, ref)
	if again := engine.ExtractAt(msg, ref); !reflect.DeepEqual(res, again) {
		fs.notIdempotent++
		log.Warn("extraction not idempotent", zap.String("file", fs.path), zap.String("message", msg))
	}

	found := 0
	if res.Time != nil {
		fs.withTime++
		found++
		if !res.Time.After(ref) {
			fs.notFuture++
			log.Warn("time not after reference", zap.String("message", msg), zap.Time("time", *res.Time))
		}
	}
	if res.Location != "" {
		fs.withLocation++
		fs.locationCounts[res.Location]++
		found++
	}
	if len(res.Activities) > 0 {
		fs.withActivities++
		found++
	}
	for _, a := range res.Activities {
		fs.activityCounts[a]++
	}
	if found == 3 {
		fs.complete++
	}
}

func mergeFileState(fs *fileState, stats *Stats) {
	stats.mu.Lock()
	defer stats.mu.Unlock()

	stats.filesScanned++
	stats.messages += fs.messages
	stats.totalBytes += fs.totalBytes
	stats.withTime += fs.withTime
	stats.withLocation += fs.withLocation
	stats.withActivities += fs.withActivities
	stats.complete += fs.complete
	stats.reconFail += fs.reconFail
	stats.notFuture += fs.notFuture
	stats.notIdempotent += fs.notIdempotent

	for name, n := range fs.activityCounts {
		stats.activityCounts[name] += n
	}
	for name, n := range fs.locationCounts {
		stats.locationCounts[name] += n
	}

	hits := fs.withTime + fs.withLocation + fs.withActivities
	ratio := 0.0
	if fs.messages > 0 {
		ratio = float64(hits) / float64(fs.messages)
	}
	stats.files = append(stats.files, fileCoverage{path: fs.path, messages: fs.messages, ratio: ratio})
}

// flagCoverageOutliers flags files whose facts-per-message ratio is below a
// third of the median across files.
func flagCoverageOutliers(stats *Stats, log *zap.Logger) {
	ratios := make([]float64, 0, len(stats.files))
	for _, fc := range stats.files {
		if fc.messages > 0 {
			ratios = append(ratios, fc.ratio)
		}
	}
	med := computeMedian(ratios)
	if med == 0 {
		return
	}
	for _, fc := range stats.files {
		if fc.messages > 0 && fc.ratio < med/3 {
			stats.coverageOutlier++
			log.Warn("coverage outlier",
				zap.String("file", fc.path),
				zap.Float64("ratio", fc.ratio),
				zap.Float64("median", med),
			)
		}
	}
}

// firstDivergence finds the byte position where two strings first differ.
func firstDivergence(original, reconstructed string) (pos int, got, want byte) {
	n := min(len(original), len(reconstructed))
	for i := range n {
		if original[i] != reconstructed[i] {
			return i, reconstructed[i], original[i]
		}
	}
	pos = n
	if pos < len(reconstructed) {
		got = reconstructed[pos]
	}
	if pos < len(original) {
		want = original[pos]
	}
	return pos, got, want
}

func computeMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "Files scanned:           %d\n", stats.filesScanned)
	fmt.Fprintf(w, "Messages:                %d\n", stats.messages)
	fmt.Fprintf(w, "Total bytes:             %d\n", stats.totalBytes)
	fmt.Fprintf(w, "Reconstruction FAIL:     %d\n", stats.reconFail)
	fmt.Fprintf(w, "Not in future:           %d\n", stats.notFuture)
	fmt.Fprintf(w, "Not idempotent:          %d\n", stats.notIdempotent)
	fmt.Fprintf(w, "Coverage outliers:       %d\n", stats.coverageOutlier)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Field coverage:")
	printCoverage(w, "Time", stats.withTime, stats.messages)
	printCoverage(w, "Location", stats.withLocation, stats.messages)
	printCoverage(w, "Activities", stats.withActivities, stats.messages)
	printCoverage(w, "All three", stats.complete, stats.messages)
	fmt.Fprintln(w)

	printTop(w, "Activities:", stats.activityCounts)
	printTop(w, "Locations:", stats.locationCounts)
}

func printCoverage(w io.Writer, label string, count, total int) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(count) / float64(total) * 100
	}
	fmt.Fprintf(w, "  %-15s %d  (%.1f%%)\n", label+":", count, percentage)
}

// printTop lists counts in descending order, ties by name.
func printTop(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	fmt.Fprintln(w, title)
	for _, name := range names {
		fmt.Fprintf(w, "  %-24s %d\n", name, counts[name])
	}
}

// Package main provides a performance benchmarking tool for the reelstats CLI.
// It generates synthetic exports of increasing size and measures 'stats' execution
// times, running each test multiple times, treating the first successful cached run
// as cold and averaging the rest as warm, and writes CSV output for documentation.
//
// Prerequisites:
// - reelstats binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated exports and the benchmark cache database
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Datasets    map[string]int // dataset name -> rows
	Order       []string
}

// benchGenres is the pool that synthetic genre lists are drawn from.
var benchGenres = []string{"Drama", "Crime", "Thriller", "Comedy", "Horror", "Science Fiction", "Romance", "Animation"}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Datasets:    map[string]int{"small": 1_000, "medium": 50_000, "large": 500_000},
		Order:       []string{"small", "medium", "large"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the benchmark cache using reelstats cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("reelstats", "cache", "clear")
	clearCmd.Env = benchEnv(config, "sqlite")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config)
}

// checkPrerequisites verifies that the reelstats binary exists and generates missing datasets
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("reelstats"); err != nil {
		return fmt.Errorf("reelstats binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}

	for _, name := range config.Order {
		path := datasetPath(config, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		fmt.Printf("Generating %s dataset (%d rows)\n", name, config.Datasets[name])
		if err := generateDataset(path, config.Datasets[name]); err != nil {
			return fmt.Errorf("cannot generate %s: %w", name, err)
		}
	}
	return nil
}

func datasetPath(config BenchmarkConfig, name string) string {
	return filepath.Join(config.WorkDir, name, "diary.csv")
}

// benchEnv isolates the benchmark cache from the user's cache database.
func benchEnv(config BenchmarkConfig, cacheBackend string) []string {
	return append(os.Environ(),
		"REELSTATS_CACHE_BACKEND="+cacheBackend,
		"REELSTATS_CACHE_DB_CONNECT="+filepath.Join(config.WorkDir, "bench_cache.db"),
		"REELSTATS_UPLOAD_BACKEND=none",
	)
}

// generateDataset writes a diary export with rows entries spread over ten years.
func generateDataset(path string, rows int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	rng := rand.New(rand.NewPCG(42, uint64(rows)))
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Watched Date", "Name", "Year", "Rating", "Genres", "Runtime"}); err != nil {
		return err
	}
	for i := range rows {
		watched := start.AddDate(0, 0, rng.IntN(3650))
		genres := []string{benchGenres[rng.IntN(len(benchGenres))], benchGenres[rng.IntN(len(benchGenres))]}
		record := []string{
			watched.Format("2006-01-02"),
			fmt.Sprintf("Film %d", i),
			strconv.Itoa(1950 + rng.IntN(75)),
			strconv.FormatFloat(float64(1+rng.IntN(10))/2, 'f', -1, 64),
			strings.Join(genres, ", "),
			strconv.Itoa(80 + rng.IntN(100)),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// runBenchmarks executes all benchmark tests across configured datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Order), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, name := range config.Order {
		fmt.Printf("Benchmarking %s\n", name)
		path := datasetPath(config, name)

		results = append(results,
			runBenchmarkSuite(config, name, path, "stats", "summary", nil),
			runBenchmarkSuite(config, name, path, "stats-detail", "detail with chronological span",
				[]string{"--detail", "--span", "chronological"}),
		)
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dataset, path, label, description string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, dataset)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, extraArgs, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     label,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes 'reelstats stats' multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, path string, extraArgs []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{"stats", path, "--emoji", "no"}, extraArgs...)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("reelstats", args...)
		cmd.Env = benchEnv(config, cacheBackend)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Computed in") && strings.Contains(outputStr, "Cache backend")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("reelstats_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult, config BenchmarkConfig) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"stats", "stats-detail"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s (%7d rows): No-cache: %s, Cold: %s, Warm: %s\n",
					result.Dataset, config.Datasets[result.Dataset], result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}

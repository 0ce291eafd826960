package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type BenchmarkResult struct {
	Name       string
	Framework  string
	Category   string
	Scenario   string
	Iterations int64
	NsPerOp    float64
	BytesPerOp int64
	AllocsOp   int64
}

type CategoryResults struct {
	Category string
	Results  []BenchmarkResult
}

var frameworkColors = map[string]text.Colors{
	"Graft": {text.FgGreen},
	"Do":    {text.FgYellow},
	"Dig":   {text.FgMagenta},
	"Fx":    {text.FgBlue},
}

func main() {
	banner := text.Colors{text.Bold, text.FgCyan}
	fmt.Println()
	fmt.Println(banner.Sprint("graft DI benchmark suite"))
	fmt.Println(text.FgHiBlack.Sprint("running benchmarks, this takes a minute..."))
	fmt.Println()

	benchDir := ".."
	if len(os.Args) > 1 && os.Args[1] != "--json" {
		benchDir = os.Args[1]
	}

	cmd := exec.Command("go", "test", "-bench=.", "-benchmem", "-count=3", "-benchtime=100ms")
	cmd.Dir = benchDir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "benchmark failed: %s\n", string(exitErr.Stderr))
		}
		os.Exit(1)
	}

	results := parseResults(output)
	grouped := groupByCategory(results)

	for _, cat := range grouped {
		printCategory(cat)
	}

	printSummary(grouped)

	if len(os.Args) > 1 && os.Args[1] == "--json" {
		exportJSON(results)
	}
}

func parseResults(output []byte) []BenchmarkResult {
	var results []BenchmarkResult
	benchPattern := regexp.MustCompile(`^Benchmark(\w+)-\d+\s+(\d+)\s+([\d.]+) ns/op\s+(\d+) B/op\s+(\d+) allocs/op`)
	namePattern := regexp.MustCompile(`^([^_]+)_([^_]+)_(\w+)$`)

	seen := make(map[string][]BenchmarkResult)

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		matches := benchPattern.FindStringSubmatch(scanner.Text())
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.ParseInt(matches[2], 10, 64)
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)
		bytesPerOp, _ := strconv.ParseInt(matches[4], 10, 64)
		allocsOp, _ := strconv.ParseInt(matches[5], 10, 64)

		nameParts := namePattern.FindStringSubmatch(name)
		var category, scenario, framework string
		if nameParts != nil {
			category = nameParts[1]
			scenario = nameParts[2]
			framework = nameParts[3]
		} else {
			parts := strings.Split(name, "_")
			if len(parts) >= 2 {
				framework = parts[len(parts)-1]
				category = parts[0]
				scenario = strings.Join(parts[1:len(parts)-1], "_")
			}
		}

		seen[name] = append(
			seen[name], BenchmarkResult{
				Name:       name,
				Framework:  framework,
				Category:   category,
				Scenario:   scenario,
				Iterations: iterations,
				NsPerOp:    nsPerOp,
				BytesPerOp: bytesPerOp,
				AllocsOp:   allocsOp,
			},
		)
	}

	// average repeated runs of the same benchmark
	for _, runs := range seen {
		if len(runs) == 0 {
			continue
		}

		var totalNs float64
		var totalBytes, totalAllocs int64
		for _, r := range runs {
			totalNs += r.NsPerOp
			totalBytes += r.BytesPerOp
			totalAllocs += r.AllocsOp
		}
		count := float64(len(runs))

		avg := runs[0]
		avg.NsPerOp = totalNs / count
		avg.BytesPerOp = int64(float64(totalBytes) / count)
		avg.AllocsOp = int64(float64(totalAllocs) / count)
		results = append(results, avg)
	}

	return results
}

var categoryOrder = []string{
	"Provide_Simple", "Provide_Chain",
	"Invoke_Singleton", "Invoke_Chain", "Invoke_Autowire",
	"Named_10",
	"Lifecycle_10", "Lifecycle_50",
	"LifecycleWithWork_10", "LifecycleWithWork_50",
}

func groupByCategory(results []BenchmarkResult) []CategoryResults {
	groups := make(map[string][]BenchmarkResult)
	for _, r := range results {
		key := r.Category + "_" + r.Scenario
		groups[key] = append(groups[key], r)
	}

	byNs := func(results []BenchmarkResult) {
		sort.Slice(results, func(i, j int) bool {
			return results[i].NsPerOp < results[j].NsPerOp
		})
	}

	var ordered []CategoryResults
	for _, catKey := range categoryOrder {
		if results, ok := groups[catKey]; ok {
			byNs(results)
			ordered = append(ordered, CategoryResults{Category: catKey, Results: results})
			delete(groups, catKey)
		}
	}

	var rest []string
	for key := range groups {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		results := groups[key]
		byNs(results)
		ordered = append(ordered, CategoryResults{Category: key, Results: results})
	}

	return ordered
}

func printCategory(cat CategoryResults) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(formatCategoryTitle(cat.Category))
	tw.AppendHeader(table.Row{"Framework", "ns/op", "B/op", "allocs/op", "vs fastest"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	fastest := 0.0
	if len(cat.Results) > 0 {
		fastest = cat.Results[0].NsPerOp
	}

	for i, r := range cat.Results {
		vs := "fastest"
		if i > 0 && fastest > 0 {
			vs = fmt.Sprintf("%.1fx slower", r.NsPerOp/fastest)
		}

		name := r.Framework
		if colors, ok := frameworkColors[name]; ok {
			name = colors.Sprint(name)
		}

		tw.AppendRow(table.Row{name, formatNs(r.NsPerOp), r.BytesPerOp, r.AllocsOp, vs})
	}

	tw.Render()
	fmt.Println()
}

func formatCategoryTitle(cat string) string {
	titles := map[string]string{
		"Provide_Simple":       "Registration (single binding)",
		"Provide_Chain":        "Registration (dependency chain)",
		"Invoke_Singleton":     "Resolution (singleton)",
		"Invoke_Chain":         "Resolution (dependency chain)",
		"Invoke_Autowire":      "Resolution (autowired, no registrations)",
		"Named_10":             "Named bindings (10 services)",
		"Lifecycle_10":         "Lifecycle start/stop (10 services)",
		"Lifecycle_50":         "Lifecycle start/stop (50 services)",
		"LifecycleWithWork_10": "Lifecycle with work (10 services, 1ms each)",
		"LifecycleWithWork_50": "Lifecycle with work (50 services, 1ms each)",
	}
	if title, ok := titles[cat]; ok {
		return title
	}
	return strings.ReplaceAll(cat, "_", " ")
}

func formatNs(ns float64) string {
	if ns >= 1_000_000 {
		return fmt.Sprintf("%.2f ms", ns/1_000_000)
	}
	if ns >= 1_000 {
		return fmt.Sprintf("%.2f µs", ns/1_000)
	}
	return fmt.Sprintf("%.0f ns", ns)
}

func printSummary(groups []CategoryResults) {
	wins := make(map[string]int)
	for _, cat := range groups {
		if len(cat.Results) > 0 {
			wins[cat.Results[0].Framework]++
		}
	}

	type frameworkWins struct {
		name string
		wins int
	}
	var sorted []frameworkWins
	for name, count := range wins {
		sorted = append(sorted, frameworkWins{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].wins != sorted[j].wins {
			return sorted[i].wins > sorted[j].wins
		}
		return sorted[i].name < sorted[j].name
	})

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Summary")
	tw.AppendHeader(table.Row{"Framework", "Wins"})

	total := len(groups)
	for _, fw := range sorted {
		name := fw.name
		if colors, ok := frameworkColors[name]; ok {
			name = colors.Sprint(name)
		}
		tw.AppendRow(table.Row{name, fmt.Sprintf("%d/%d", fw.wins, total)})
	}
	tw.Render()

	fmt.Println()
	fmt.Println(text.FgHiBlack.Sprint("frameworks compared:"))
	fmt.Println("  graft      - this library (github.com/graftwire/graft)")
	fmt.Println("  samber/do  - generics-based DI (github.com/samber/do)")
	fmt.Println("  uber/dig   - reflection-based DI (go.uber.org/dig)")
	fmt.Println("  uber/fx    - full application framework (go.uber.org/fx)")
	fmt.Println()
}

func exportJSON(results []BenchmarkResult) {
	output := struct {
		Benchmarks []BenchmarkResult `json:"benchmarks"`
	}{
		Benchmarks: results,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	_ = os.WriteFile("benchmark_results.json", data, 0o644)
	fmt.Println(text.FgHiBlack.Sprint("results exported to benchmark_results.json"))
}

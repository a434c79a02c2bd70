// cmd/scrapexd/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pricelens/scrapex/internal/retailer"
	"github.com/pricelens/scrapex/pkg/scrapex"
	"gopkg.in/yaml.v3"
)

// Build-time variables (set by ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// Global flags
var (
	verbose    bool
	outputFile string
	dryRun     bool
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	// Parse global flags
	args = parseGlobalFlags(args)

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "discover":
		if len(commandArgs) < 2 {
			fmt.Println("Error: catalog file and query required")
			fmt.Println("Usage: scrapex discover <catalog.yaml> <query> [retailer,retailer,...]")
			os.Exit(1)
		}
		retailers := ""
		if len(commandArgs) > 2 {
			retailers = commandArgs[2]
		}
		runDiscovery(commandArgs[0], commandArgs[1], retailers)
	case "version":
		printVersion()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

func parseGlobalFlags(args []string) []string {
	var remaining []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-v", "--verbose":
			verbose = true
		case "-o", "--output":
			if i+1 < len(args) {
				outputFile = args[i+1]
				i++ // Skip next argument
			}
		case "--dry-run":
			dryRun = true
		default:
			remaining = append(remaining, args[i])
		}
	}

	return remaining
}

func printUsage() {
	fmt.Printf("Scrapex %s - Multi-retailer product discovery\n\n", version)
	fmt.Println("Usage:")
	fmt.Println("  scrapex [global-options] <command> [arguments]")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  -v, --verbose     Enable verbose logging")
	fmt.Println("  -o, --output FILE Override output file")
	fmt.Println("  --dry-run         Validate the catalog without scraping")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  discover <catalog> <query> Batch-scrape a query across a retailer catalog")
	fmt.Println("  version                    Show version information")
	fmt.Println("  help                       Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  scrapex discover retailers.yaml \"wireless mouse\"")
	fmt.Println("  scrapex discover retailers.yaml \"wireless mouse\" amazon,walmart")
	fmt.Println("  scrapex --dry-run discover retailers.yaml \"wireless mouse\"")
}

func printVersion() {
	fmt.Printf("Scrapex %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}

// runDiscovery wires the retailer catalog and the orchestrator-driven
// facade together: spec.md §2's (query, retailers) entrypoint, reachable
// from the CLI.
func runDiscovery(catalogFile, query, retailersArg string) {
	data, err := os.ReadFile(catalogFile)
	if err != nil {
		fmt.Printf("Error reading catalog file: %v\n", err)
		os.Exit(1)
	}

	var catalog retailer.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		fmt.Printf("Error parsing catalog file: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("Loaded catalog with %d retailers from %s\n", len(catalog.Retailers), catalogFile)
	}

	var retailers []string
	if retailersArg != "" {
		retailers = strings.Split(retailersArg, ",")
	}

	if dryRun {
		fmt.Printf("Catalog is valid. Would discover %q across %d retailer(s).\n", query, len(catalog.Retailers))
		return
	}

	client := scrapex.NewClient(catalog, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	results, err := client.Scrape(ctx, query, retailers)
	if err != nil {
		fmt.Printf("Discovery failed: %v\n", err)
		os.Exit(1)
	}

	summary := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		entry := map[string]interface{}{
			"retailer": r.RetailerKey,
			"url":      r.URL,
		}
		if r.Err != nil {
			entry["error"] = r.Err.Error()
		} else if r.Result != nil {
			entry["strategy"] = r.Result.MethodUsed
			entry["success"] = r.Result.Success
			if r.Result.Record != nil {
				entry["record"] = r.Result.Record
			}
			if r.Result.Error != nil {
				entry["error"] = r.Result.Error.Error()
			}
		}
		summary = append(summary, entry)
	}

	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		fmt.Printf("Error encoding results: %v\n", err)
		os.Exit(1)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, encoded, 0o644); err != nil {
			fmt.Printf("Error writing results: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Discovery completed. Results written to %s\n", outputFile)
		return
	}

	fmt.Println(string(encoded))
}

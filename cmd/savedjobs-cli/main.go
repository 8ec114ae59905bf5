package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"saved-jobs-go/internal/config"
	"saved-jobs-go/internal/models"
	"saved-jobs-go/internal/page"
	"saved-jobs-go/internal/storage"
	"saved-jobs-go/pkg/httpclient"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	var (
		configFile = flag.String("config", defaultConfigPath(), "Configuration file path")
		command    = flag.String("cmd", "list", "Command to run: list, unsave, save, config")
		userID     = flag.String("user", "", "User whose saved jobs to operate on")
		jobID      = flag.String("job", "", "Job ID (unsave)")
		jobFile    = flag.String("file", "", "JSON file with the job to save, or - for stdin (save)")
		token      = flag.String("token", os.Getenv("SAVEDJOBS_TOKEN"), "Access token forwarded to a remote backend")
		output     = flag.String("output", "console", "Output format: console, json")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	// Show help if requested
	if *help {
		printUsage()
		os.Exit(0)
	}

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *command == "config" {
		runConfigCommand(cfg, *output)
		return
	}

	if *userID == "" {
		fmt.Println("Missing -user")
		printUsage()
		os.Exit(1)
	}

	store, err := newStore(cfg, *token)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Execute command
	switch *command {
	case "list":
		runListCommand(ctx, store, *userID, *output)
	case "unsave":
		runUnsaveCommand(ctx, store, *userID, *jobID)
	case "save":
		runSaveCommand(ctx, store, *userID, *jobFile)
	default:
		fmt.Printf("Unknown command: %s\n", *command)
		printUsage()
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if path := os.Getenv("SAVEDJOBS_CONFIG"); path != "" {
		return path
	}
	return "config.json"
}

func newStore(cfg *config.Config, token string) (storage.Store, error) {
	switch cfg.Database.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return storage.OpenSQLite(context.Background(), cfg.Database.SQLitePath)
	case config.BackendRemote:
		client := httpclient.NewHttpClient(cfg.Client.RequestTimeout)
		opts := []storage.RemoteOption{
			storage.WithBearerToken(func(context.Context) string { return token }),
		}
		if cfg.Auth.Provider == config.AuthHeader {
			opts = append(opts, storage.WithUserHeader(cfg.Auth.UserHeader))
		}
		return storage.NewRemoteStore(client, cfg.Database.RemoteURL, opts...), nil
	default:
		return storage.NewSupabaseStore(cfg.Database.SupabaseURL, cfg.Database.SupabaseKey)
	}
}

func runListCommand(ctx context.Context, store storage.Store, userID, output string) {
	jobs, err := store.GetSavedJobs(ctx, userID)
	if err != nil {
		log.Fatalf("Failed to fetch saved jobs: %v", err)
	}

	if output == "json" {
		outputJSON(jobs)
		return
	}

	if len(jobs) == 0 {
		fmt.Println("No Saved Jobs Yet")
		return
	}

	noun := "Saved Jobs"
	if len(jobs) == 1 {
		noun = "Saved Job"
	}
	fmt.Printf("=== %d %s ===\n", len(jobs), noun)
	for _, job := range jobs {
		fmt.Printf("[%s] %s\n", job.ID, job.Title)
		fmt.Printf("  Company: %s\n", job.CompanyName)
		location := job.Location
		if job.Remote {
			location += " (Remote)"
		}
		fmt.Printf("  Location: %s\n", location)
		if job.ExperienceLevel != "" {
			fmt.Printf("  Experience: %s\n", job.ExperienceLevel)
		}
		fmt.Printf("  Salary: %s\n", page.FormatSalary(job.SalaryMin, job.SalaryMax))
		if reqs := job.TopRequirements(2); len(reqs) > 0 {
			fmt.Printf("  Requirements: %s\n", strings.Join(reqs, ", "))
		}
	}
}

func runUnsaveCommand(ctx context.Context, store storage.Store, userID, jobID string) {
	id, err := models.ParseJobID(jobID)
	if err != nil {
		log.Fatalf("Invalid -job: %v", err)
	}

	if err := store.UnsaveJob(ctx, userID, id); err != nil {
		log.Fatalf("Failed to remove job: %v", err)
	}
	fmt.Printf("Removed job %d from %s's saved jobs\n", id, userID)
}

func runSaveCommand(ctx context.Context, store storage.Store, userID, jobFile string) {
	if jobFile == "" {
		log.Fatalf("Missing -file")
	}

	var data []byte
	var err error
	if jobFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(jobFile)
	}
	if err != nil {
		log.Fatalf("Failed to read job file: %v", err)
	}

	var job models.SavedJob
	if err := json.Unmarshal(data, &job); err != nil {
		log.Fatalf("Failed to parse job file: %v", err)
	}
	if err := job.Validate(); err != nil {
		log.Fatalf("Invalid job: %v", err)
	}

	if err := store.SaveJob(ctx, userID, job); err != nil {
		log.Fatalf("Failed to save job: %v", err)
	}
	fmt.Printf("Saved job %s for %s\n", job.ID, userID)
}

func runConfigCommand(cfg *config.Config, output string) {
	if output == "json" {
		outputJSON(cfg)
		return
	}

	fmt.Println("Current Configuration:")
	fmt.Printf("Server Port: %d\n", cfg.Server.Port)
	fmt.Printf("Unsave Rate Limit: %d/min\n", cfg.Server.UnsaveRateLimit)
	fmt.Printf("Backend: %s\n", cfg.Database.Backend)
	fmt.Printf("Database URL: %s\n", maskString(cfg.Database.SupabaseURL))
	fmt.Printf("Database Key: %s\n", maskString(cfg.Database.SupabaseKey))
	fmt.Printf("SQLite Path: %s\n", cfg.Database.SQLitePath)
	fmt.Printf("Remote URL: %s\n", cfg.Database.RemoteURL)
	fmt.Printf("Auth Provider: %s\n", cfg.Auth.Provider)
	fmt.Printf("Log Level: %s\n", cfg.Monitoring.LogLevel)
}

func outputJSON(data interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func maskString(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}

func printUsage() {
	fmt.Println("Saved Jobs CLI Tool")
	fmt.Println("Usage:")
	fmt.Println("  savedjobs-cli [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  -cmd list      - List a user's saved jobs")
	fmt.Println("  -cmd unsave    - Remove a job from a user's saved jobs")
	fmt.Println("  -cmd save      - Save a job for a user")
	fmt.Println("  -cmd config    - Show configuration")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config string - Configuration file (default: $SAVEDJOBS_CONFIG or config.json)")
	fmt.Println("  -user string   - User ID")
	fmt.Println("  -job string    - Job ID (unsave)")
	fmt.Println("  -file string   - Job JSON file, - for stdin (save)")
	fmt.Println("  -token string  - Access token for a remote backend (default: $SAVEDJOBS_TOKEN)")
	fmt.Println("  -output string - Output format: console, json (default: console)")
	fmt.Println("  -help          - Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  savedjobs-cli -cmd list -user 42")
	fmt.Println("  savedjobs-cli -cmd unsave -user 42 -job 1001")
	fmt.Println("  savedjobs-cli -cmd save -user 42 -file job.json")
}

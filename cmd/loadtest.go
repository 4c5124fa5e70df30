package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	BaseURL         string
	ConcurrentUsers int
	RequestsPerUser int
}

// LoadTestResult holds the results of load testing
type LoadTestResult struct {
	TotalRequests     int
	SuccessfulReqs    int
	ConflictReqs      int
	FailedReqs        int
	AvgResponseTimeMs float64
	MaxResponseTimeMs int64
	MinResponseTimeMs int64
	ThroughputRPS     float64
}

// LoadTester drives concurrent create/read traffic against the user API
type LoadTester struct {
	config    LoadTestConfig
	client    *http.Client
	results   LoadTestResult
	totalMs   int64
	mutex     sync.Mutex
	startTime time.Time
}

// NewLoadTester creates a new load tester
func NewLoadTester(config LoadTestConfig) *LoadTester {
	return &LoadTester{
		config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		results: LoadTestResult{
			MinResponseTimeMs: int64(^uint64(0) >> 1),
		},
	}
}

// Run executes the load test
func (lt *LoadTester) Run() {
	fmt.Printf("Starting load test with %d concurrent users, %d requests each...\n",
		lt.config.ConcurrentUsers, lt.config.RequestsPerUser)

	lt.startTime = time.Now()
	var wg sync.WaitGroup

	for worker := 0; worker < lt.config.ConcurrentUsers; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < lt.config.RequestsPerUser; i++ {
				lt.createUser(worker, i)
			}
		}(worker)
	}

	wg.Wait()

	elapsed := time.Since(lt.startTime)
	if lt.results.TotalRequests > 0 {
		lt.results.AvgResponseTimeMs = float64(lt.totalMs) / float64(lt.results.TotalRequests)
		lt.results.ThroughputRPS = float64(lt.results.TotalRequests) / elapsed.Seconds()
	}

	lt.printResults(elapsed)
}

func (lt *LoadTester) createUser(worker, seq int) {
	payload := map[string]string{
		"username": fmt.Sprintf("load%03dw%04d", worker, seq),
		"email":    fmt.Sprintf("load%03dw%04d@test.dev", worker, seq),
		"password": "loadtest-secret",
	}

	body, _ := json.Marshal(payload)

	start := time.Now()
	resp, err := lt.client.Post(lt.config.BaseURL+"/api/users", "application/json", bytes.NewReader(body))
	elapsedMs := time.Since(start).Milliseconds()

	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	lt.results.TotalRequests++
	lt.totalMs += elapsedMs
	if elapsedMs > lt.results.MaxResponseTimeMs {
		lt.results.MaxResponseTimeMs = elapsedMs
	}
	if elapsedMs < lt.results.MinResponseTimeMs {
		lt.results.MinResponseTimeMs = elapsedMs
	}

	if err != nil {
		lt.results.FailedReqs++
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		lt.results.SuccessfulReqs++
	case http.StatusConflict:
		lt.results.ConflictReqs++
	default:
		lt.results.FailedReqs++
	}
}

func (lt *LoadTester) printResults(elapsed time.Duration) {
	fmt.Println("\nLoad Test Results:")
	fmt.Println("==================")
	fmt.Printf("Duration:          %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Total requests:    %d\n", lt.results.TotalRequests)
	fmt.Printf("Created:           %d\n", lt.results.SuccessfulReqs)
	fmt.Printf("Conflicts:         %d\n", lt.results.ConflictReqs)
	fmt.Printf("Failed:            %d\n", lt.results.FailedReqs)
	fmt.Printf("Avg response time: %.2f ms\n", lt.results.AvgResponseTimeMs)
	fmt.Printf("Min response time: %d ms\n", lt.results.MinResponseTimeMs)
	fmt.Printf("Max response time: %d ms\n", lt.results.MaxResponseTimeMs)
	fmt.Printf("Throughput:        %.2f req/s\n", lt.results.ThroughputRPS)
}

var (
	loadtestURL        string
	loadtestConcurrent int
	loadtestRequests   int
)

var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Run a load test against the user API",
	Long:  "Create users concurrently against a running server and report latency and throughput.",
	Run: func(cmd *cobra.Command, args []string) {
		lt := NewLoadTester(LoadTestConfig{
			BaseURL:         loadtestURL,
			ConcurrentUsers: loadtestConcurrent,
			RequestsPerUser: loadtestRequests,
		})
		lt.Run()
	},
}

func init() {
	rootCmd.AddCommand(loadtestCmd)

	loadtestCmd.Flags().StringVar(&loadtestURL, "url", "http://localhost:8080", "Base URL of the running server")
	loadtestCmd.Flags().IntVar(&loadtestConcurrent, "concurrent", 10, "Number of concurrent workers")
	loadtestCmd.Flags().IntVar(&loadtestRequests, "requests", 20, "Requests per worker")
}

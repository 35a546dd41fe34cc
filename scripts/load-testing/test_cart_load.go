package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

type LoadTestConfig struct {
	BaseURL             string
	ConcurrentUsers     int
	TestDurationSeconds int
	RampUpSeconds       int
	ProductCount        int
}

type TestResult struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	ResponseTimes      []time.Duration
	Errors             map[string]int64
	mutex              sync.RWMutex
}

type PerformanceMetrics struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalDuration   time.Duration
	ThroughputRPS   float64
	SuccessfulTPS   float64
	P50ResponseTime time.Duration
	P95ResponseTime time.Duration
	P99ResponseTime time.Duration
	ErrorRate       float64
}

type LoadTester struct {
	config *LoadTestConfig
	result *TestResult
}

func NewLoadTester(config *LoadTestConfig) *LoadTester {
	return &LoadTester{
		config: config,
		result: &TestResult{
			ResponseTimes: make([]time.Duration, 0),
			Errors:        make(map[string]int64),
		},
	}
}

func (lt *LoadTester) recordResponse(duration time.Duration, success bool, operation string, err error) {
	lt.result.mutex.Lock()
	defer lt.result.mutex.Unlock()

	atomic.AddInt64(&lt.result.TotalRequests, 1)
	lt.result.ResponseTimes = append(lt.result.ResponseTimes, duration)

	if success {
		atomic.AddInt64(&lt.result.SuccessfulRequests, 1)
	} else {
		atomic.AddInt64(&lt.result.FailedRequests, 1)
		if err != nil {
			lt.result.Errors[fmt.Sprintf("%s: %s", operation, err.Error())]++
		}
	}
}

// Each simulated shopper keeps its own cookie jar so the session cookie
// issued on the first mutation sticks for the rest of the run.
func (lt *LoadTester) simulateUser(ctx context.Context, userID int, wg *sync.WaitGroup) {
	defer wg.Done()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Timeout: 30 * time.Second,
		Jar:     jar,
		Transport: &http.Transport{
			MaxIdleConns:        1000,
			MaxIdleConnsPerHost: 100,
			MaxConnsPerHost:     200,
		},
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			lt.performMutation(client, userID)
			time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)
		}
	}
}

func (lt *LoadTester) performMutation(client *http.Client, userID int) {
	productID := rand.Intn(lt.config.ProductCount) + 1

	var (
		operation string
		endpoint  string
		form      url.Values
	)

	switch rand.Intn(10) {
	case 0:
		operation = "fragments"
	case 1, 2:
		operation = "quantity"
	default:
		operation = "add"
	}

	switch operation {
	case "fragments":
		start := time.Now()
		req, _ := http.NewRequest(http.MethodGet, lt.config.BaseURL+"/cart/fragments", nil)
		req.Header.Set("X-User-ID", fmt.Sprintf("%d", userID))
		resp, err := client.Do(req)
		duration := time.Since(start)

		success := err == nil && resp != nil && resp.StatusCode == http.StatusOK
		if resp != nil {
			resp.Body.Close()
		}
		lt.recordResponse(duration, success, operation, err)
		return
	case "quantity":
		endpoint = "/cart/add"
		form = url.Values{
			"product_id": {fmt.Sprintf("%d", productID)},
			"quantity":   {fmt.Sprintf("%d", rand.Intn(3)+1)},
		}
	default:
		endpoint = "/cart/add"
		form = url.Values{
			"product_id": {fmt.Sprintf("%d", productID)},
		}
	}

	start := time.Now()
	req, _ := http.NewRequest(http.MethodPost, lt.config.BaseURL+endpoint, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-User-ID", fmt.Sprintf("%d", userID))

	resp, err := client.Do(req)
	duration := time.Since(start)

	success := false
	if err == nil && resp != nil {
		// 404 and 400 count as handled rejections, not failures: the
		// random product ids intentionally hit gaps in the catalog.
		success = resp.StatusCode < http.StatusInternalServerError
		resp.Body.Close()
	}

	lt.recordResponse(duration, success, operation, err)
}

func (lt *LoadTester) Run(ctx context.Context) *PerformanceMetrics {
	startTime := time.Now()

	var wg sync.WaitGroup
	userInterval := time.Duration(0)
	if lt.config.ConcurrentUsers > 1 && lt.config.RampUpSeconds > 0 {
		userInterval = time.Duration(lt.config.RampUpSeconds) * time.Second / time.Duration(lt.config.ConcurrentUsers-1)
	}

	for i := 0; i < lt.config.ConcurrentUsers; i++ {
		wg.Add(1)
		go lt.simulateUser(ctx, i+1, &wg)

		if i < lt.config.ConcurrentUsers-1 {
			time.Sleep(userInterval)
		}
	}

	go lt.monitorProgress(ctx, startTime)

	wg.Wait()
	endTime := time.Now()

	return lt.calculateMetrics(startTime, endTime)
}

func (lt *LoadTester) monitorProgress(ctx context.Context, startTime time.Time) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed := time.Since(startTime)
			totalReqs := atomic.LoadInt64(&lt.result.TotalRequests)
			successReqs := atomic.LoadInt64(&lt.result.SuccessfulRequests)

			currentRPS := float64(totalReqs) / elapsed.Seconds()
			successRPS := float64(successReqs) / elapsed.Seconds()

			fmt.Printf("[%s] Total: %d, Success: %d, RPS: %.1f, Success RPS: %.1f\n",
				elapsed.Round(time.Second), totalReqs, successReqs, currentRPS, successRPS)
		}
	}
}

func (lt *LoadTester) calculateMetrics(startTime, endTime time.Time) *PerformanceMetrics {
	lt.result.mutex.RLock()
	defer lt.result.mutex.RUnlock()

	totalDuration := endTime.Sub(startTime)
	totalRequests := atomic.LoadInt64(&lt.result.TotalRequests)
	successfulRequests := atomic.LoadInt64(&lt.result.SuccessfulRequests)

	metrics := &PerformanceMetrics{
		StartTime:     startTime,
		EndTime:       endTime,
		TotalDuration: totalDuration,
	}

	if totalDuration.Seconds() > 0 {
		metrics.ThroughputRPS = float64(totalRequests) / totalDuration.Seconds()
		metrics.SuccessfulTPS = float64(successfulRequests) / totalDuration.Seconds()
	}

	if totalRequests > 0 {
		metrics.ErrorRate = float64(atomic.LoadInt64(&lt.result.FailedRequests)) / float64(totalRequests) * 100
	}

	if len(lt.result.ResponseTimes) > 0 {
		metrics.P50ResponseTime = calculatePercentile(lt.result.ResponseTimes, 50)
		metrics.P95ResponseTime = calculatePercentile(lt.result.ResponseTimes, 95)
		metrics.P99ResponseTime = calculatePercentile(lt.result.ResponseTimes, 99)
	}

	return metrics
}

func calculatePercentile(durations []time.Duration, percentile int) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	index := int(float64(len(sorted)) * float64(percentile) / 100.0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	if index < 0 {
		index = 0
	}

	return sorted[index]
}

func (pm *PerformanceMetrics) PrintReport() {
	fmt.Printf("PERFORMANCE TEST RESULTS\n")
	fmt.Printf("Test Duration: %v\n", pm.TotalDuration.Round(time.Second))
	fmt.Printf("\n")

	fmt.Printf("THROUGHPUT METRICS:\n")
	fmt.Printf("- Total RPS: %.2f requests/second\n", pm.ThroughputRPS)
	fmt.Printf("- Successful TPS: %.2f transactions/second\n", pm.SuccessfulTPS)
	fmt.Printf("- Error Rate: %.2f%%\n", pm.ErrorRate)
	fmt.Printf("\n")

	fmt.Printf("RESPONSE TIME METRICS:\n")
	fmt.Printf("- P50 Response Time: %v\n", pm.P50ResponseTime.Round(time.Millisecond))
	fmt.Printf("- P95 Response Time: %v\n", pm.P95ResponseTime.Round(time.Millisecond))
	fmt.Printf("- P99 Response Time: %v\n", pm.P99ResponseTime.Round(time.Millisecond))
	fmt.Printf("\n")
}

func main() {
	config := &LoadTestConfig{
		BaseURL:             "http://localhost:8080",
		ConcurrentUsers:     100,
		TestDurationSeconds: 60,
		RampUpSeconds:       10,
		ProductCount:        1000,
	}

	if baseURL := os.Getenv("LOAD_TEST_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.TestDurationSeconds)*time.Second)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	fmt.Printf("Starting cart load test against %s with %d users for %ds\n",
		config.BaseURL, config.ConcurrentUsers, config.TestDurationSeconds)

	tester := NewLoadTester(config)
	metrics := tester.Run(ctx)
	metrics.PrintReport()
}

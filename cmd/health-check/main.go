// Command health-check probes the API server's /health endpoint. It is
// intended for Docker HEALTHCHECK directives and monitoring scripts,
// where the exit code is what matters.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

type probeResult struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func main() {
	var (
		url        = flag.String("url", "", "health endpoint URL (defaults to HEALTH_CHECK_URL or http://localhost:8080/health)")
		timeout    = flag.Duration("timeout", 10*time.Second, "request timeout")
		retryCount = flag.Int("retry", 0, "number of retries on failure")
		retryDelay = flag.Duration("retry-delay", time.Second, "delay between retries")
		verbose    = flag.Bool("verbose", false, "print the probed status")
	)
	flag.Parse()

	target := *url
	if target == "" {
		target = os.Getenv("HEALTH_CHECK_URL")
	}
	if target == "" {
		target = "http://localhost:8080/health"
	}

	os.Exit(probe(target, *timeout, *retryCount, *retryDelay, *verbose))
}

func probe(url string, timeout time.Duration, retries int, delay time.Duration, verbose bool) int {
	client := &http.Client{Timeout: timeout}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
		}

		resp, err := client.Get(url)
		if err != nil {
			lastErr = err
			continue
		}

		result, err := decode(resp)
		if err != nil {
			lastErr = err
			continue
		}

		if verbose {
			fmt.Printf("Status: %s\nVersion: %s\n", result.Status, result.Version)
		}
		if resp.StatusCode == http.StatusOK && result.Status == "ok" {
			return exitCodeSuccess
		}
		fmt.Fprintf(os.Stderr, "unhealthy: HTTP %d, status %q\n", resp.StatusCode, result.Status)
		return exitCodeFailure
	}

	fmt.Fprintf(os.Stderr, "health check failed after %d attempts: %v\n", retries+1, lastErr)
	return exitCodeError
}

func decode(resp *http.Response) (probeResult, error) {
	defer resp.Body.Close()

	var result probeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return probeResult{}, fmt.Errorf("decode health response: %w", err)
	}
	return result, nil
}

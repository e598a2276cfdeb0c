package main

import (
	"flag"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/healthz -timeout=2m
func main() {
	urlPtr := flag.String("url", "http://localhost:8080/healthz", "the health endpoint to poll")
	intervalPtr := flag.Duration("interval", 5*time.Second, "the time between two attempts")
	timeoutPtr := flag.Duration("timeout", 0, "give up after this long, 0 waits forever")
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer func() {
		_ = log.Sync()
	}()

	client := &http.Client{Timeout: *intervalPtr}
	start := time.Now()
	for {
		res, err := client.Get(*urlPtr)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				log.Info("Service is available", zap.String("url", *urlPtr), zap.Duration("waited", time.Since(start)))
				return
			}
			log.Info("Service is not ready", zap.Int("status", res.StatusCode))
		} else {
			log.Info("Service is not reachable", zap.Error(err))
		}
		if *timeoutPtr > 0 && time.Since(start) > *timeoutPtr {
			log.Fatal("Gave up waiting for the service", zap.Duration("waited", time.Since(start)))
		}
		log.Info("Waiting", zap.Duration("total", time.Since(start).Round(time.Second)+*intervalPtr))
		time.Sleep(*intervalPtr)
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gitlab.com/nmadb/contacts/internal/generator"
	"gitlab.com/nmadb/contacts/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// client sends the benchmark requests and measures their duration.
type client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080 -sizes=1000,5000 -qps=500
func main() {
	urlPtr := flag.String("url", "http://localhost:8080", "the base URL of the contacts service")
	sizesPtr := flag.String("sizes", "1000,5000,10000,50000,100000", "comma separated numbers of humans per round")
	qpsPtr := flag.Float64("qps", 0, "maximum requests per second, 0 for no limit")
	seedPtr := flag.Uint64("seed", 0, "seed for the generated humans, 0 for a random one")
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer func() {
		_ = log.Sync()
	}()

	sizes, err := parseSizes(*sizesPtr)
	if err != nil {
		log.Fatal("Invalid sizes", zap.Error(err))
	}
	limit := rate.Inf
	if *qpsPtr > 0 {
		limit = rate.Limit(*qpsPtr)
	}
	c := &client{
		baseURL: strings.TrimSuffix(*urlPtr, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}
	gen := generator.New(*seedPtr)
	ctx := context.Background()

	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	putBody := []byte(`{"academic_degree": "PhD"}`)
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)

		// POST requests
		ids := make([]int64, 0, loops)
		var duration time.Duration
		for i := 0; i < loops; i++ {
			id, d := c.createHuman(ctx, gen.Human())
			duration += d
			if id != 0 {
				ids = append(ids, id)
			}
		}
		printMean(duration, loops)

		rand.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
		c.callInLoop(ctx, ids, http.MethodPut, putBody)
		c.callInLoop(ctx, ids, http.MethodGet, nil)
		c.callInLoop(ctx, ids, http.MethodDelete, nil)
		fmt.Println()
	}
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		size, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || size < 1 {
			return nil, fmt.Errorf("invalid size %q", part)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

// printMean prints the mean duration of a request in microseconds.
func printMean(total time.Duration, count int) {
	if count == 0 {
		fmt.Printf("%10s", "-")
		return
	}
	fmt.Printf("%10d", total.Microseconds()/int64(count))
}

func (c *client) callInLoop(ctx context.Context, ids []int64, method string, body []byte) {
	var duration time.Duration
	for _, id := range ids {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		_, _, d := c.send(ctx, method, fmt.Sprintf("%s/humans/%d", c.baseURL, id), reader)
		duration += d
	}
	printMean(duration, len(ids))
}

// createHuman posts a human and returns its new id, or 0 if the service did not create it.
func (c *client) createHuman(ctx context.Context, human model.Human) (int64, time.Duration) {
	body, err := json.Marshal(human)
	if err != nil {
		c.log.Fatal("Could not marshal human", zap.Error(err))
	}
	status, resBody, duration := c.send(ctx, http.MethodPost, c.baseURL+"/humans", bytes.NewReader(body))
	if status != http.StatusCreated {
		var message model.Message
		_ = json.Unmarshal(resBody, &message)
		c.log.Warn("Human was not created", zap.Int("status", status), zap.String("message", message.Message))
		return 0, duration
	}
	var created model.Human
	if err := json.Unmarshal(resBody, &created); err != nil {
		c.log.Fatal("Could not unmarshal JSON", zap.Error(err))
	}
	return created.Id, duration
}

// send executes one request and returns the status code, the body and the time it took. Waiting
// for the rate limiter is not included in the time.
func (c *client) send(ctx context.Context, method string, requestURL string, body io.Reader) (int, []byte, time.Duration) {
	if err := c.limiter.Wait(ctx); err != nil {
		c.log.Fatal("Rate limiter failed", zap.Error(err))
	}
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		c.log.Fatal("Could not create request", zap.Error(err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	before := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Fatal("Error making http request", zap.Error(err), zap.String("url", requestURL))
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		c.log.Fatal("Could not read response body", zap.Error(err))
	}
	return res.StatusCode, resBody, time.Since(before)
}

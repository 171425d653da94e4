package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// The simulator drives the HTTP API the way the calendar frontend would:
// each worker signs in as one of the seeded demo accounts, then mixes slot
// drafts, saves, deletes and collection reads for the configured duration.

type SimConfig struct {
	APIBaseURL  string
	Duration    time.Duration
	Workers     int
	CreateRatio float64
	DeleteRatio float64
	ReadRatio   float64
}

type account struct {
	Username string
	Password string
}

var accounts = []account{
	{"admin", "admin123"},
	{"doctor1", "doctor123"},
	{"doctor2", "doctor123"},
	{"secretary1", "secretary123"},
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Denied    int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, denied bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if denied {
		atomic.AddInt64(&om.Denied, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p50Idx := len(latencies) * 50 / 100
	if p50Idx >= len(latencies) {
		p50Idx = len(latencies) - 1
	}
	p50 = latencies[p50Idx]

	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p50, p95
}

type Metrics struct {
	Login  OperationMetrics
	Draft  OperationMetrics
	Save   OperationMetrics
	Delete OperationMetrics
	List   OperationMetrics
}

type Simulator struct {
	config  SimConfig
	client  *http.Client
	metrics Metrics
}

// workerSession is one signed-in client: its server-issued client ID plus
// the directory data it fetched after login.
type workerSession struct {
	clientID string
	username string
	patients []string
	doctors  []string
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d create=%.2f delete=%.2f read=%.2f",
		cfg.Duration, cfg.Workers, cfg.CreateRatio, cfg.DeleteRatio, cfg.ReadRatio)

	sim := &Simulator{
		config: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:  getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:    getDuration("SIM_DURATION", 30*time.Second),
		Workers:     getInt("SIM_WORKERS", 8),
		CreateRatio: getFloat("SIM_CREATE_RATIO", 0.4),
		DeleteRatio: getFloat("SIM_DELETE_RATIO", 0.1),
		ReadRatio:   getFloat("SIM_READ_RATIO", 0.5),
	}

	// Normalize ratios
	total := cfg.CreateRatio + cfg.DeleteRatio + cfg.ReadRatio
	if total > 0 {
		cfg.CreateRatio /= total
		cfg.DeleteRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	acct := accounts[workerID%len(accounts)]
	sess, err := s.signIn(ctx, acct)
	if err != nil {
		log.Printf("worker %d: sign in as %s failed: %v", workerID, acct.Username, err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			if r < s.config.CreateRatio {
				s.doCreate(ctx, rng, sess)
			} else if r < s.config.CreateRatio+s.config.DeleteRatio {
				s.doDelete(ctx, rng, sess)
			} else {
				s.doList(ctx, sess)
			}
		}
	}
}

func (s *Simulator) signIn(ctx context.Context, acct account) (*workerSession, error) {
	start := time.Now()

	body, _ := json.Marshal(map[string]string{
		"username": acct.Username,
		"password": acct.Password,
	})
	req, err := http.NewRequestWithContext(ctx, "POST", s.config.APIBaseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		s.metrics.Login.Record(latency, false, false)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.metrics.Login.Record(latency, false, resp.StatusCode == http.StatusUnauthorized)
		return nil, fmt.Errorf("login returned %d", resp.StatusCode)
	}
	s.metrics.Login.Record(latency, true, false)

	var loginResp struct {
		ClientID string `json:"client_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, err
	}

	sess := &workerSession{
		clientID: loginResp.ClientID,
		username: acct.Username,
	}

	sess.patients, err = s.fetchIDs(ctx, sess, "/patients")
	if err != nil {
		return nil, fmt.Errorf("fetch patients: %w", err)
	}
	sess.doctors, err = s.fetchIDs(ctx, sess, "/doctors")
	if err != nil {
		return nil, fmt.Errorf("fetch doctors: %w", err)
	}

	return sess, nil
}

func (s *Simulator) fetchIDs(ctx context.Context, sess *workerSession, path string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.config.APIBaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Client-ID", sess.clientID)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d", path, resp.StatusCode)
	}

	var entries []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids, nil
}

// doCreate runs the draft-then-save flow a calendar slot selection triggers.
// Read-only roles get 204 on draft, which counts as a denial, not an error.
func (s *Simulator) doCreate(ctx context.Context, rng *rand.Rand, sess *workerSession) {
	slotStart := time.Now().Truncate(time.Hour).AddDate(0, 0, 1+rng.Intn(14)).Add(time.Duration(8+rng.Intn(9)) * time.Hour)
	slotEnd := slotStart.Add(30 * time.Minute)

	start := time.Now()

	body, _ := json.Marshal(map[string]string{
		"start": slotStart.Format(time.RFC3339),
		"end":   slotEnd.Format(time.RFC3339),
	})
	req, err := http.NewRequestWithContext(ctx, "POST", s.config.APIBaseURL+"/appointments/draft", bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", sess.clientID)

	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		s.metrics.Draft.Record(latency, false, false)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		s.metrics.Draft.Record(latency, false, true)
		return
	}
	if resp.StatusCode != http.StatusOK {
		s.metrics.Draft.Record(latency, false, false)
		return
	}
	s.metrics.Draft.Record(latency, true, false)

	var draft map[string]any
	bodyBytes, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(bodyBytes, &draft); err != nil {
		return
	}

	if len(sess.patients) > 0 {
		draft["patient_id"] = sess.patients[rng.Intn(len(sess.patients))]
	}
	if len(sess.doctors) > 0 {
		draft["doctor_id"] = sess.doctors[rng.Intn(len(sess.doctors))]
	}
	draft["room"] = strconv.Itoa(100 + rng.Intn(10))

	s.doSave(ctx, sess, draft)
}

func (s *Simulator) doSave(ctx context.Context, sess *workerSession, draft map[string]any) {
	start := time.Now()

	body, _ := json.Marshal(draft)
	req, err := http.NewRequestWithContext(ctx, "PUT", s.config.APIBaseURL+"/appointments", bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", sess.clientID)

	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		s.metrics.Save.Record(latency, false, false)
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		s.metrics.Save.Record(latency, true, false)
	case http.StatusUnprocessableEntity:
		s.metrics.Save.Record(latency, false, true)
	default:
		s.metrics.Save.Record(latency, false, false)
	}
}

func (s *Simulator) doDelete(ctx context.Context, rng *rand.Rand, sess *workerSession) {
	ids := s.listAppointmentIDs(ctx, sess)
	if len(ids) == 0 {
		return
	}
	id := ids[rng.Intn(len(ids))]

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, "DELETE", s.config.APIBaseURL+"/appointments/"+id, nil)
	if err != nil {
		return
	}
	req.Header.Set("X-Client-ID", sess.clientID)

	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		s.metrics.Delete.Record(latency, false, false)
		return
	}
	defer resp.Body.Close()

	s.metrics.Delete.Record(latency, resp.StatusCode == http.StatusNoContent, false)
}

func (s *Simulator) doList(ctx context.Context, sess *workerSession) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, "GET", s.config.APIBaseURL+"/appointments", nil)
	if err != nil {
		return
	}
	req.Header.Set("X-Client-ID", sess.clientID)

	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		s.metrics.List.Record(latency, false, false)
		return
	}
	defer resp.Body.Close()

	s.metrics.List.Record(latency, resp.StatusCode == http.StatusOK, false)
}

func (s *Simulator) listAppointmentIDs(ctx context.Context, sess *workerSession) []string {
	req, err := http.NewRequestWithContext(ctx, "GET", s.config.APIBaseURL+"/appointments", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("X-Client-ID", sess.clientID)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var collection struct {
		Appointments []struct {
			ID string `json:"id"`
		} `json:"appointments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil
	}

	ids := make([]string, len(collection.Appointments))
	for i, a := range collection.Appointments {
		ids[i] = a.ID
	}
	return ids
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Login", &s.metrics.Login)
	printOperationReport("Draft", &s.metrics.Draft)
	printOperationReport("Save", &s.metrics.Save)
	printOperationReport("Delete", &s.metrics.Delete)
	printOperationReport("List", &s.metrics.List)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	denied := atomic.LoadInt64(&om.Denied)
	errored := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if denied > 0 {
		fmt.Printf("  Denied: %d (%.1f%%)\n", denied, float64(denied)/float64(total)*100)
	}
	if errored > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errored, float64(errored)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

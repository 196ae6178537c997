package metrics

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Metric types recorded by the builder.
const (
	TypeSource = "source" // bytes read from the plugin directory
	TypeOutput = "output" // bytes written to the archive
)

// MetricKey identifies a specific metric by type and key
type MetricKey struct {
	Type string // TypeSource | TypeOutput
	Key  string // archive entry name
}

// String returns a string representation of the MetricKey
func (k MetricKey) String() string {
	return fmt.Sprintf("%s:%s", k.Type, k.Key)
}

// NewKey creates a new MetricKey with the given type and key
func NewKey(typ, key string) MetricKey {
	return MetricKey{Type: typ, Key: key}
}

// MetricItem stores the metrics for a specific item
type MetricItem struct {
	Bytes int `json:"bytes"`
	Lines int `json:"lines"`
}

// Add adds the given metrics to this item
func (m *MetricItem) Add(bytes, lines int) {
	m.Bytes += bytes
	m.Lines += lines
}

// job represents a pending metrics calculation job
type job struct {
	typ     string
	key     string
	content []byte
}

// OutputMetrics collects metrics for archive entries
type OutputMetrics struct {
	mu    sync.Mutex
	wg    sync.WaitGroup
	Items map[MetricKey]MetricItem
	Ctr   Counter // line/byte counter

	// sendMu guards jobs and closed. Add holds it shared while sending.
	sendMu sync.RWMutex
	jobs   chan job
	closed bool
}

// NewOutputMetrics creates a new OutputMetrics with the given counter and worker count
func NewOutputMetrics(counter Counter, workers int) *OutputMetrics {
	if workers < 1 {
		workers = 1
	}

	m := &OutputMetrics{
		jobs:  make(chan job, workers*2), // Buffer the channel
		Items: make(map[MetricKey]MetricItem),
		Ctr:   counter,
	}

	// Start worker goroutines
	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker(m.jobs)
	}

	return m
}

// worker processes jobs from the jobs channel
func (m *OutputMetrics) worker(jobs <-chan job) {
	defer m.wg.Done()

	for job := range jobs {
		m.record(job)
	}
}

func (m *OutputMetrics) record(j job) {
	bytes, lines := m.Ctr.Count(j.content)

	m.mu.Lock()
	key := MetricKey{Type: j.typ, Key: j.key}
	item := m.Items[key]
	item.Add(bytes, lines)
	m.Items[key] = item
	m.mu.Unlock()
}

// Add adds content to be processed for metrics. It is safe for concurrent use.
// After Wait the content is counted synchronously.
func (m *OutputMetrics) Add(typ, key string, content []byte) {
	j := job{typ: typ, key: key, content: content}

	m.sendMu.RLock()
	if !m.closed {
		m.jobs <- j
		m.sendMu.RUnlock()
		return
	}
	m.sendMu.RUnlock()

	m.record(j)
}

// Wait waits for all pending jobs to complete
// It is idempotent and can be called multiple times safely
func (m *OutputMetrics) Wait() {
	m.sendMu.Lock()
	if !m.closed {
		m.closed = true
		close(m.jobs)
	}
	m.sendMu.Unlock()

	// Always wait, which is also idempotent
	m.wg.Wait()
}

// sumByLocked returns the sum of all metrics for the given type.
// Caller **must** hold m.mu.
func (m *OutputMetrics) sumByLocked(typeName string) MetricItem {
	var sum MetricItem
	for k, v := range m.Items {
		if k.Type == typeName {
			sum.Add(v.Bytes, v.Lines)
		}
	}
	return sum
}

// SumBy returns the sum of all metrics for the given type
func (m *OutputMetrics) SumBy(typeName string) MetricItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sumByLocked(typeName)
}

// Keys returns the sorted keys recorded for the given type
func (m *OutputMetrics) Keys(typeName string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for k := range m.Items {
		if k.Type == typeName {
			keys = append(keys, k.Key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Get returns the item for the given type and key
func (m *OutputMetrics) Get(typeName, key string) MetricItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Items[NewKey(typeName, key)]
}

// MarshalJSON marshals the metrics to JSON with string keys
func (m *OutputMetrics) MarshalJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Create a map with string keys
	result := make(map[string]MetricItem, len(m.Items))
	for k, v := range m.Items {
		result[k.String()] = v
	}

	return json.Marshal(result)
}

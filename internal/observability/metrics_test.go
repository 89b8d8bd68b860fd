package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/login", "POST", 200, 5*time.Millisecond)
	m.RecordRequest("/login", "POST", 200, 7*time.Millisecond)
	m.RecordRequest("/login", "POST", 401, time.Millisecond)

	assert.EqualValues(t, 2, m.RequestTotal("/login", "POST", 200))
	assert.EqualValues(t, 1, m.RequestTotal("/login", "POST", 401))
	assert.EqualValues(t, 0, m.RequestTotal("/register", "POST", 200))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/login", "POST", 200, time.Millisecond)
	m.RecordError("/login", "POST", "UNAUTHORIZED")
	assert.EqualValues(t, 0, m.RequestTotal("/login", "POST", 200))
}

package recordings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultLimit is the page size used when Query.Limit is zero.
const DefaultLimit = 100

// Query configures /api/v1/recordings requests. Nil pointers and zero times
// leave the corresponding filter out of the request; a set pointer is sent
// even when it points at a zero value.
type Query struct {
	Type      *string   // recording type, e.g. "audio" or "thermalRaw"
	StartDate time.Time // recordingDateTime >= StartDate
	EndDate   time.Time // recordingDateTime <= EndDate
	MinSecs   *float64  // duration >= MinSecs
	Limit     int       // page size; zero uses DefaultLimit
	Offset    int       // always sent, defaults to 0
	TagMode   string
	Tags      []string // sent JSON-encoded when non-nil
	Devices   []int    // DeviceId set membership when non-nil
}

// Ptr returns a pointer to v, for the optional Query fields.
func Ptr[T any](v T) *T {
	return &v
}

// DateRange is the recordingDateTime constraint.
type DateRange struct {
	Gte string `json:"$gte,omitempty"`
	Lte string `json:"$lte,omitempty"`
}

// MinDuration is the duration constraint.
type MinDuration struct {
	Gte float64 `json:"$gte"`
}

// Filter is the "where" object. Keys marshal in insertion order.
type Filter struct {
	keys   []string
	values map[string]any
}

// Set adds or replaces a constraint. Replacing keeps the original position.
func (f *Filter) Set(key string, value any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the constraint stored under key.
func (f Filter) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the filter keys in insertion order.
func (f Filter) Keys() []string {
	return append([]string(nil), f.keys...)
}

// Len reports the number of constraints.
func (f Filter) Len() int { return len(f.keys) }

// MarshalJSON implements json.Marshaler.
func (f Filter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.values[key])
		if err != nil {
			return nil, fmt.Errorf("encode filter %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Where builds the filter for q.
//
// An EndDate is merged into the recordingDateTime range, so it works with or
// without a StartDate.
func (q Query) Where() Filter {
	var where Filter
	if q.Type != nil {
		where.Set("type", *q.Type)
	}
	if q.MinSecs != nil {
		where.Set("duration", MinDuration{Gte: *q.MinSecs})
	}
	if !q.StartDate.IsZero() {
		where.Set("recordingDateTime", DateRange{Gte: formatDate(q.StartDate)})
	}
	if !q.EndDate.IsZero() {
		span := DateRange{}
		if existing, ok := where.Get("recordingDateTime"); ok {
			span = existing.(DateRange)
		}
		span.Lte = formatDate(q.EndDate)
		where.Set("recordingDateTime", span)
	}
	if q.Devices != nil {
		where.Set("DeviceId", q.Devices)
	}
	return where
}

// Values encodes q as query-string parameters.
func (q Query) Values() (url.Values, error) {
	where, err := json.Marshal(q.Where())
	if err != nil {
		return nil, fmt.Errorf("encode where: %w", err)
	}
	values := url.Values{}
	values.Set("where", string(where))

	limit := q.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(q.Offset))

	if mode := strings.TrimSpace(q.TagMode); mode != "" {
		values.Set("tagMode", mode)
	}
	if q.Tags != nil {
		tags, err := json.Marshal(q.Tags)
		if err != nil {
			return nil, fmt.Errorf("encode tags: %w", err)
		}
		values.Set("tags", string(tags))
	}
	return values, nil
}

func formatDate(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

package kvstore

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/collabhub/network/internal/core/domain"
)

// record is the flat field map an entity is stored as. Scalars are stored
// verbatim, lists as JSON and timestamps as RFC 3339 in UTC.
type record map[string]string

// decoder reads typed fields out of a record and remembers the first failure,
// so decode functions can read every field and check once.
type decoder struct {
	kind string
	id   string
	rec  record
	err  error
}

func newDecoder(kind, id string, rec record) *decoder {
	return &decoder{kind: kind, id: id, rec: rec}
}

func (d *decoder) fail(field string, err error) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s %s: field %s: %v", domain.ErrCorruptRecord, d.kind, d.id, field, err)
	}
}

func (d *decoder) str(field string) string {
	return d.rec[field]
}

func (d *decoder) list(field string) []string {
	out := []string{}
	d.into(field, &out)
	return out
}

func (d *decoder) into(field string, v any) {
	raw := d.rec[field]
	if raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		d.fail(field, err)
	}
}

// timestamp reads a required timestamp. Missing and malformed values both fail.
func (d *decoder) timestamp(field string) time.Time {
	raw, ok := d.rec[field]
	if !ok || raw == "" {
		d.fail(field, fmt.Errorf("missing timestamp"))
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		d.fail(field, err)
		return time.Time{}
	}
	return t.UTC()
}

// optTimestamp reads an optional timestamp; an empty value means absent.
func (d *decoder) optTimestamp(field string) *time.Time {
	if d.rec[field] == "" {
		return nil
	}
	t := d.timestamp(field)
	return &t
}

func (d *decoder) float(field string) float64 {
	raw := d.rec[field]
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		d.fail(field, err)
	}
	return f
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func encodeOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return encodeTime(*t)
}

func encodeList(s []string) string {
	if s == nil {
		s = []string{}
	}
	// A []string always marshals.
	b, _ := json.Marshal(s)
	return string(b)
}

func encodeFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// normalize returns t in UTC without a monotonic reading, matching what a
// decoded record holds.
func normalize(t time.Time) time.Time {
	return t.UTC()
}

func normalizeOpt(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := normalize(*t)
	return &n
}

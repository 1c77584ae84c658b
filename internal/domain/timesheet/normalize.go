package timesheet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

// RowInput is a row as submitted by a client, before normalization.
type RowInput struct {
	Client   string `json:"client" validate:"max=255"`
	Project  string `json:"project" validate:"max=255"`
	Task     string `json:"task" validate:"max=255"`
	Activity string `json:"activity" validate:"max=255"`
	Hours    Hours  `json:"hours"`
}

// Hours is a list of per-day hour values as sent by clients. Decoding never
// fails on an individual entry: numeric strings are parsed, null and false
// read as 0, true as 1, and anything unparseable or out of range becomes NaN
// so that normalization turns it into 0.
type Hours []float64

func (h *Hours) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not an array: no usable hours.
		*h = nil
		return nil
	}
	out := make(Hours, len(raw))
	for i, entry := range raw {
		out[i] = parseHour(entry)
	}
	*h = out
	return nil
}

func parseHour(entry json.RawMessage) float64 {
	entry = bytes.TrimSpace(entry)
	switch string(entry) {
	case "null", "false":
		return 0
	case "true":
		return 1
	}
	text := string(entry)
	if len(entry) > 0 && entry[0] == '"' {
		var str string
		if err := json.Unmarshal(entry, &str); err != nil {
			return math.NaN()
		}
		text = strings.TrimSpace(str)
		if text == "" {
			return 0
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// NormalizeHours produces exactly DaysPerWeek whole hours in [0, MaxHoursPerDay].
// Values are truncated toward zero; missing and non-finite entries become 0.
func NormalizeHours(in []float64) []int {
	out := make([]int, DaysPerWeek)
	for i := 0; i < DaysPerWeek && i < len(in); i++ {
		v := in[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		v = math.Trunc(v)
		switch {
		case v < 0:
			v = 0
		case v > MaxHoursPerDay:
			v = MaxHoursPerDay
		}
		out[i] = int(v)
	}
	return out
}

func NormalizeRow(in RowInput) Row {
	return Row{
		Client:   strings.TrimSpace(in.Client),
		Project:  strings.TrimSpace(in.Project),
		Task:     strings.TrimSpace(in.Task),
		Activity: strings.TrimSpace(in.Activity),
		Hours:    NormalizeHours(in.Hours),
	}
}

// NormalizeRows rejects more than MaxRows rows and normalizes the rest.
func NormalizeRows(in []RowInput) ([]Row, error) {
	if len(in) > MaxRows {
		return nil, validator.ValidationErrors{{
			Field:   "rows",
			Message: fmt.Sprintf("rows must not contain more than %d items", MaxRows),
		}}
	}
	rows := make([]Row, 0, len(in))
	for _, r := range in {
		rows = append(rows, NormalizeRow(r))
	}
	return rows, nil
}

// Input converts a stored row back to its input form.
func (r Row) Input() RowInput {
	hours := make(Hours, len(r.Hours))
	for i, h := range r.Hours {
		hours[i] = float64(h)
	}
	return RowInput{Client: r.Client, Project: r.Project, Task: r.Task, Activity: r.Activity, Hours: hours}
}

// ParseWeekStart interprets a YYYY-MM-DD date as UTC midnight. The date is
// taken as given; callers are expected to send the Monday of the week.
func ParseWeekStart(s string) (time.Time, error) {
	t, ok := validator.IsValidDate(s)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "week_start",
			Message: "week_start must be a date in YYYY-MM-DD format",
		}}
	}
	return t, nil
}

// FormatDate renders a date key as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(validator.DateLayout)
}

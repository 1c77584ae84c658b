package timesheet

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHours(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []int
	}{
		{"nil pads to six", nil, []int{0, 0, 0, 0, 0, 0}},
		{"short pads", []float64{8, 8}, []int{8, 8, 0, 0, 0, 0}},
		{"long truncates", []float64{1, 2, 3, 4, 5, 6, 7, 8}, []int{1, 2, 3, 4, 5, 6}},
		{"clamps above nine", []float64{12, 9, 10, 0, 0, 0}, []int{9, 9, 9, 0, 0, 0}},
		{"clamps negatives", []float64{-3, -0.5, 0, 0, 0, 0}, []int{0, 0, 0, 0, 0, 0}},
		{"truncates toward zero", []float64{7.9, 3.2, 0.99, 8.5, 0, 0}, []int{7, 3, 0, 8, 0, 0}},
		{"non finite become zero", []float64{math.NaN(), math.Inf(1), math.Inf(-1), 4, 0, 0}, []int{0, 0, 0, 4, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHours(tt.in))
		})
	}
}

func TestHoursUnmarshalLenient(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []int
	}{
		{"numbers", `[8, 7.5, 0, 0, 0, 0]`, []int{8, 7, 0, 0, 0, 0}},
		{"numeric strings", `["8", " 2 ", "", 0, 0, 0]`, []int{8, 2, 0, 0, 0, 0}},
		{"garbage strings", `["abc", "8h", 3, 0, 0, 0]`, []int{0, 0, 3, 0, 0, 0}},
		{"null and booleans", `[null, true, false, 4, 0, 0]`, []int{0, 1, 0, 4, 0, 0}},
		{"overflow", `[1e400, -1e400, 2, 0, 0, 0]`, []int{0, 0, 2, 0, 0, 0}},
		{"nested values", `[[1], {"h": 2}, 5]`, []int{0, 0, 5, 0, 0, 0}},
		{"not an array", `"eight"`, []int{0, 0, 0, 0, 0, 0}},
		{"null", `null`, []int{0, 0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var row RowInput
			require.NoError(t, json.Unmarshal([]byte(`{"client":"Acme","hours":`+tt.body+`}`), &row))
			assert.Equal(t, tt.want, NormalizeRow(row).Hours)
		})
	}
}

func TestNormalizeRowsIdempotent(t *testing.T) {
	in := []RowInput{
		{Client: " Acme ", Project: "Web", Task: "Build", Activity: "Dev", Hours: []float64{12, -3, 7.9, math.NaN()}},
		{Client: "Beta", Hours: []float64{1, 2, 3, 4, 5, 6, 7}},
	}
	once, err := NormalizeRows(in)
	require.NoError(t, err)

	again := make([]RowInput, 0, len(once))
	for _, r := range once {
		again = append(again, r.Input())
	}
	twice, err := NormalizeRows(again)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, []int{9, 0, 7, 0, 0, 0}, once[0].Hours)
	assert.Equal(t, "Acme", once[0].Client)
}

func TestNormalizeRowsRejectsTooMany(t *testing.T) {
	_, err := NormalizeRows(make([]RowInput, MaxRows+1))
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "rows")

	rows, err := NormalizeRows(make([]RowInput, MaxRows))
	require.NoError(t, err)
	assert.Len(t, rows, MaxRows)
}

func TestNextStatusNeverDowngrades(t *testing.T) {
	for _, prior := range Statuses {
		prior := prior
		assert.Equal(t, prior, NextStatus(&prior, false), "plain save keeps %s", prior)
		assert.Equal(t, StatusSubmitted, NextStatus(&prior, true))
	}
	assert.Equal(t, StatusDraft, NextStatus(nil, false))
	assert.Equal(t, StatusSubmitted, NextStatus(nil, true))
}

func TestDecisionGuards(t *testing.T) {
	tests := []struct {
		decision Decision
		from     Status
		allowed  bool
	}{
		{DecisionApprove, StatusSubmitted, true},
		{DecisionApprove, StatusRejected, true},
		{DecisionApprove, StatusDraft, false},
		{DecisionApprove, StatusApproved, false},
		{DecisionReject, StatusSubmitted, true},
		{DecisionReject, StatusApproved, true},
		{DecisionReject, StatusDraft, false},
		{DecisionReject, StatusRejected, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.decision)+"_from_"+string(tt.from), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.decision.CanApply(tt.from))
		})
	}
	assert.Equal(t, StatusApproved, DecisionApprove.Target())
	assert.Equal(t, StatusRejected, DecisionReject.Target())
	assert.False(t, Decision("maybe").IsValid())
}

func TestStatusLocked(t *testing.T) {
	assert.False(t, StatusDraft.Locked())
	assert.False(t, StatusSubmitted.Locked())
	assert.True(t, StatusApproved.Locked())
	assert.True(t, StatusRejected.Locked())
}

func TestParseWeekStart(t *testing.T) {
	got, err := ParseWeekStart("2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, "2025-01-06", FormatDate(got))

	_, err = ParseWeekStart("06-01-2025")
	assert.Error(t, err)
}

func TestSaveWeekRequestValidate(t *testing.T) {
	ok := SaveWeekRequest{WeekStart: "2025-01-06", Rows: []RowInput{{Client: "Acme"}}}
	assert.NoError(t, ok.Validate())

	bad := SaveWeekRequest{WeekStart: "Jan 6", Rows: make([]RowInput, 6)}
	err := bad.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "week_start")
	assert.Contains(t, m, "rows")
}

func TestToResponse(t *testing.T) {
	submitted := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	ts := Timesheet{
		ID:          "t1",
		UserID:      "u1",
		WeekStart:   time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		Rows:        []Row{{Client: "Acme", Hours: []int{8, 8, 8, 8, 8, 0}}, {Client: "Beta", Hours: []int{1, 0, 0, 0, 0, 0}}},
		Status:      StatusSubmitted,
		SubmittedAt: &submitted,
	}
	resp := ToResponse(ts)
	assert.Equal(t, "2025-01-06", resp.WeekStart)
	assert.Equal(t, 41, resp.TotalHours)
	assert.Equal(t, 40, resp.Rows[0].Total)
	require.NotNil(t, resp.SubmittedAt)
	assert.Equal(t, "2025-01-10T12:00:00Z", *resp.SubmittedAt)

	empty := EmptyWeek("u1", ts.WeekStart)
	assert.Equal(t, "new", empty.Status)
	assert.Empty(t, empty.Rows)
	assert.NotNil(t, empty.Rows)
}

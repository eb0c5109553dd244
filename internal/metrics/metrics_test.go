// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
		wantErrs  float64
	}{
		{name: "successful select", operation: "SELECT", table: "user_ratings"},
		{name: "failed upsert", operation: "UPSERT", table: "user_ratings", err: errors.New("constraint"), wantErrs: 1},
		{
			name:      "long error truncated",
			operation: "INSERT",
			table:     "user_badges",
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated"),
			wantErrs:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)
			if tt.err == nil {
				return
			}
			errType := tt.err.Error()
			if len(errType) > 50 {
				errType = errType[:50]
			}
			got := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, errType))
			if got != tt.wantErrs {
				t.Errorf("DBQueryErrors = %v, want %v", got, tt.wantErrs)
			}
		})
	}
}

func TestRecordPrediction(t *testing.T) {
	okBefore := testutil.ToFloat64(Predictions.WithLabelValues("ok"))
	failedBefore := testutil.ToFloat64(Predictions.WithLabelValues("failed"))

	RecordPrediction(nil)
	RecordPrediction(nil)
	RecordPrediction(errors.New("non-finite"))

	if got := testutil.ToFloat64(Predictions.WithLabelValues("ok")) - okBefore; got != 2 {
		t.Errorf("ok predictions delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(Predictions.WithLabelValues("failed")) - failedBefore; got != 1 {
		t.Errorf("failed predictions delta = %v, want 1", got)
	}
}

func TestRecordTraining(t *testing.T) {
	RecordTraining(3*time.Second, 100000, 100, 20)
	RecordTraining(time.Second, 2000000, 50, 10)

	if got := testutil.ToFloat64(TrainingRatings); got != 2000000 {
		t.Errorf("TrainingRatings = %v, want 2000000", got)
	}
	if got := testutil.CollectAndCount(ModelInfo); got != 1 {
		t.Errorf("ModelInfo series = %d, want 1 after reset", got)
	}
	if got := testutil.ToFloat64(ModelInfo.WithLabelValues("50", "10")); got != 1 {
		t.Errorf("ModelInfo{50,10} = %v, want 1", got)
	}
}

func TestRecordBadgeAwarded(t *testing.T) {
	before := testutil.ToFloat64(BadgesAwarded.WithLabelValues("First Steps"))
	RecordBadgeAwarded("First Steps")
	if got := testutil.ToFloat64(BadgesAwarded.WithLabelValues("First Steps")) - before; got != 1 {
		t.Errorf("BadgesAwarded delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("APIActiveRequests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("APIActiveRequests = %v, want %v", got, before)
	}
}

func TestRecordModelCacheLookup(t *testing.T) {
	for _, result := range []string{"hit", "miss", "error"} {
		before := testutil.ToFloat64(ModelCacheLookups.WithLabelValues(result))
		RecordModelCacheLookup(result)
		if got := testutil.ToFloat64(ModelCacheLookups.WithLabelValues(result)) - before; got != 1 {
			t.Errorf("ModelCacheLookups{%s} delta = %v, want 1", result, got)
		}
	}
}

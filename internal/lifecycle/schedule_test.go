package lifecycle

import (
	"errors"
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time { return &t }

var (
	scheduleStart    = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	scheduleEnd      = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	scheduleDeadline = time.Date(2025, 3, 1, 11, 30, 0, 0, time.UTC)
)

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name     string
		start    *time.Time
		end      *time.Time
		deadline *time.Time
		wantErr  bool
	}{
		{
			name: "all absent",
		},
		{
			name:  "start only",
			start: timePtr(scheduleStart),
		},
		{
			name: "end only",
			end:  timePtr(scheduleEnd),
		},
		{
			name:  "end after start",
			start: timePtr(scheduleStart),
			end:   timePtr(scheduleEnd),
		},
		{
			name:    "end equals start",
			start:   timePtr(scheduleStart),
			end:     timePtr(scheduleStart),
			wantErr: true,
		},
		{
			name:    "end before start",
			start:   timePtr(scheduleEnd),
			end:     timePtr(scheduleStart),
			wantErr: true,
		},
		{
			name:     "deadline inside window",
			start:    timePtr(scheduleStart),
			end:      timePtr(scheduleEnd),
			deadline: timePtr(scheduleDeadline),
		},
		{
			name:     "deadline equals start",
			start:    timePtr(scheduleStart),
			end:      timePtr(scheduleEnd),
			deadline: timePtr(scheduleStart),
		},
		{
			name:     "deadline equals end",
			start:    timePtr(scheduleStart),
			end:      timePtr(scheduleEnd),
			deadline: timePtr(scheduleEnd),
		},
		{
			name:     "deadline before start",
			start:    timePtr(scheduleStart),
			end:      timePtr(scheduleEnd),
			deadline: timePtr(scheduleStart.Add(-time.Minute)),
			wantErr:  true,
		},
		{
			name:     "deadline after end",
			start:    timePtr(scheduleStart),
			end:      timePtr(scheduleEnd),
			deadline: timePtr(scheduleEnd.Add(time.Minute)),
			wantErr:  true,
		},
		{
			name:     "deadline with start only, before start",
			start:    timePtr(scheduleStart),
			deadline: timePtr(scheduleStart.Add(-time.Hour)),
			wantErr:  true,
		},
		{
			name:     "deadline with end only, after end",
			end:      timePtr(scheduleEnd),
			deadline: timePtr(scheduleEnd.Add(time.Hour)),
			wantErr:  true,
		},
		{
			name:     "deadline alone",
			deadline: timePtr(scheduleDeadline),
		},
		{
			name:  "past times allowed for backfill",
			start: timePtr(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)),
			end:   timePtr(time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(tt.start, tt.end, tt.deadline)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected schedule error, got nil")
				}
				var scheduleErr *ScheduleError
				if !errors.As(err, &scheduleErr) {
					t.Fatalf("expected *ScheduleError, got %T: %v", err, err)
				}
				if scheduleErr.Reason == "" {
					t.Fatal("expected a reason on the schedule error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateScheduleFirstFailureWins(t *testing.T) {
	// Both the start/end ordering and the deadline are broken; the ordering
	// check runs first.
	start := timePtr(scheduleEnd)
	end := timePtr(scheduleStart)
	deadline := timePtr(scheduleEnd.Add(time.Hour))

	err := ValidateSchedule(start, end, deadline)
	var scheduleErr *ScheduleError
	if !errors.As(err, &scheduleErr) {
		t.Fatalf("expected *ScheduleError, got %T", err)
	}
	if scheduleErr.Reason != "end time must be after start time" {
		t.Fatalf("expected ordering failure to win, got %q", scheduleErr.Reason)
	}
}

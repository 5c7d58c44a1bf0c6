package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFoldPrerequisitesWritesHexList(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	event := Event{
		JudgingCriteria:      map[string]interface{}{"scoring": "panel"},
		PrerequisiteEventIDs: []primitive.ObjectID{first, second},
	}

	event.FoldPrerequisites()

	raw, ok := event.JudgingCriteria[PrerequisitesCriteriaKey]
	if !ok {
		t.Fatal("expected prerequisites key in judging criteria")
	}
	ids, ok := raw.([]string)
	if !ok {
		t.Fatalf("expected []string, got %T", raw)
	}
	if len(ids) != 2 || ids[0] != first.Hex() || ids[1] != second.Hex() {
		t.Fatalf("expected hex ids in order, got %v", ids)
	}
	if event.JudgingCriteria["scoring"] != "panel" {
		t.Fatal("expected unrelated criteria to be preserved")
	}
}

func TestFoldPrerequisitesEmptyListRemovesKey(t *testing.T) {
	event := Event{
		JudgingCriteria: map[string]interface{}{
			PrerequisitesCriteriaKey: []string{primitive.NewObjectID().Hex()},
			"scoring":                "panel",
		},
	}

	event.FoldPrerequisites()

	if _, ok := event.JudgingCriteria[PrerequisitesCriteriaKey]; ok {
		t.Fatal("expected reserved key to be removed for empty prerequisite list")
	}
	if event.JudgingCriteria["scoring"] != "panel" {
		t.Fatal("expected unrelated criteria to be preserved")
	}
}

func TestFoldPrerequisitesNilCriteriaMap(t *testing.T) {
	id := primitive.NewObjectID()
	event := Event{PrerequisiteEventIDs: []primitive.ObjectID{id}}

	event.FoldPrerequisites()

	ids, ok := event.JudgingCriteria[PrerequisitesCriteriaKey].([]string)
	if !ok || len(ids) != 1 || ids[0] != id.Hex() {
		t.Fatalf("expected criteria map to be created with the id, got %v", event.JudgingCriteria)
	}
}

func TestExtractPrerequisitesTolerantParsing(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	tests := []struct {
		name     string
		criteria map[string]interface{}
		want     []primitive.ObjectID
	}{
		{
			name:     "mongo driver array",
			criteria: map[string]interface{}{PrerequisitesCriteriaKey: primitive.A{first.Hex(), second.Hex()}},
			want:     []primitive.ObjectID{first, second},
		},
		{
			name:     "json decoded array",
			criteria: map[string]interface{}{PrerequisitesCriteriaKey: []interface{}{first.Hex(), second.Hex()}},
			want:     []primitive.ObjectID{first, second},
		},
		{
			name:     "string slice",
			criteria: map[string]interface{}{PrerequisitesCriteriaKey: []string{second.Hex()}},
			want:     []primitive.ObjectID{second},
		},
		{
			name:     "non-string entries skipped",
			criteria: map[string]interface{}{PrerequisitesCriteriaKey: primitive.A{first.Hex(), int32(7), second.Hex()}},
			want:     []primitive.ObjectID{first, second},
		},
		{
			name:     "invalid hex skipped",
			criteria: map[string]interface{}{PrerequisitesCriteriaKey: []interface{}{"not-an-id", first.Hex()}},
			want:     []primitive.ObjectID{first},
		},
		{
			name:     "unsupported container ignored",
			criteria: map[string]interface{}{PrerequisitesCriteriaKey: "oops"},
			want:     nil,
		},
		{
			name:     "missing key means empty",
			criteria: map[string]interface{}{"scoring": "panel"},
			want:     nil,
		},
		{
			name:     "nil criteria map",
			criteria: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Event{JudgingCriteria: tt.criteria}
			event.ExtractPrerequisites()
			if len(event.PrerequisiteEventIDs) != len(tt.want) {
				t.Fatalf("expected %d ids, got %d", len(tt.want), len(event.PrerequisiteEventIDs))
			}
			for i, id := range tt.want {
				if event.PrerequisiteEventIDs[i] != id {
					t.Fatalf("id %d: expected %s, got %s", i, id.Hex(), event.PrerequisiteEventIDs[i].Hex())
				}
			}
		})
	}
}

func TestFoldExtractRoundTrip(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	event := Event{PrerequisiteEventIDs: append([]primitive.ObjectID(nil), ids...)}

	event.FoldPrerequisites()
	event.PrerequisiteEventIDs = nil
	event.ExtractPrerequisites()

	if len(event.PrerequisiteEventIDs) != len(ids) {
		t.Fatalf("expected %d ids after round trip, got %d", len(ids), len(event.PrerequisiteEventIDs))
	}
	for i, id := range ids {
		if event.PrerequisiteEventIDs[i] != id {
			t.Fatalf("order not preserved at %d: expected %s, got %s", i, id.Hex(), event.PrerequisiteEventIDs[i].Hex())
		}
	}
}

func TestEventStatusTerminal(t *testing.T) {
	tests := []struct {
		status   EventStatus
		terminal bool
	}{
		{EventStatusDraft, false},
		{EventStatusScheduled, false},
		{EventStatusActive, false},
		{EventStatusCompleted, true},
		{EventStatusCancelled, true},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("%s: expected terminal=%v, got %v", tt.status, tt.terminal, got)
		}
	}
}

package pipeline

import (
	"testing"

	"trainloop/core/models"
)

func TestClassifyStagesMidPipeline(t *testing.T) {
	job := models.Job{ID: "j1", CurrentStage: "Training"}

	views := ClassifyStages(job)
	if len(views) != 6 {
		t.Fatalf("expected 6 stages, got %d", len(views))
	}

	want := []models.StageStatus{
		models.StageCompleted,
		models.StageCompleted,
		models.StageCompleted,
		models.StageCurrent,
		models.StageUpcoming,
		models.StageUpcoming,
	}
	for i, view := range views {
		if view.Status != want[i] {
			t.Errorf("stage %d (%s): got %s, want %s", i, view.Stage.Name, view.Status, want[i])
		}
	}
}

func TestClassifyStagesExactlyOneCurrent(t *testing.T) {
	for _, stage := range Stages() {
		job := models.Job{CurrentStage: stage.Name}
		current := 0
		for _, view := range ClassifyStages(job) {
			if view.Status == models.StageCurrent {
				current++
			}
		}
		if current != 1 {
			t.Errorf("stage %q: got %d current entries, want 1", stage.Name, current)
		}
	}
}

func TestClassifyStagesUnknownStage(t *testing.T) {
	job := models.Job{ID: "j2", CurrentStage: "Nonexistent"}

	for i, view := range ClassifyStages(job) {
		if view.Status != models.StageUpcoming {
			t.Errorf("stage %d: got %s, want upcoming", i, view.Status)
		}
	}
}

func TestClassifyStagesEmptyStage(t *testing.T) {
	for i, view := range ClassifyStages(models.Job{}) {
		if view.Status != models.StageUpcoming {
			t.Errorf("stage %d: got %s, want upcoming", i, view.Status)
		}
	}
}

// No completed stage may appear after a current or upcoming one.
func TestClassifyStagesMonotonicPartition(t *testing.T) {
	names := append([]string{"", "bogus"}, stageNames()...)

	for _, name := range names {
		views := ClassifyStages(models.Job{CurrentStage: name})
		seenNonCompleted := false
		for i, view := range views {
			if view.Status != models.StageCompleted {
				seenNonCompleted = true
			} else if seenNonCompleted {
				t.Errorf("currentStage %q: completed stage at index %d after non-completed", name, i)
			}
		}
	}
}

func stageNames() []string {
	var names []string
	for _, s := range Stages() {
		names = append(names, s.Name)
	}
	return names
}

func TestCurrentStageIndex(t *testing.T) {
	tests := []struct {
		stage string
		want  int
	}{
		{"Data Ingestion", 0},
		{"Data Preprocessing", 1},
		{"Model Selection", 2},
		{"Training", 3},
		{"Evaluation", 4},
		{"Deployment", 5},
		{"", -1},
		{"training", -1}, // exact match only
	}

	for _, tt := range tests {
		if got := CurrentStageIndex(models.Job{CurrentStage: tt.stage}); got != tt.want {
			t.Errorf("CurrentStageIndex(%q) = %d, want %d", tt.stage, got, tt.want)
		}
	}
}

func TestDisplayStage(t *testing.T) {
	if got := DisplayStage(models.Job{}); got != "Initializing..." {
		t.Errorf("empty stage: got %q", got)
	}
	if got := DisplayStage(models.Job{CurrentStage: "Training"}); got != "Training" {
		t.Errorf("got %q, want Training", got)
	}
}

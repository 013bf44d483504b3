package trainer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trainloop/core/models"
)

func TestListJobs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/pipelines" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"pipelines": []models.Job{
				{ID: "p1", Name: "spam-filter", Status: models.JobStatusTraining, Progress: 40},
				{ID: "p2", Name: "forecaster", Status: models.JobStatusCompleted, Progress: 100},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	jobs, err := client.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].ID != "p1" || jobs[0].Status != models.JobStatusTraining {
		t.Errorf("unexpected first job: %+v", jobs[0])
	}
}

func TestSubmitJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding submit body: %v", err)
		}
		if req.UseCase != models.UseCaseClassification {
			t.Errorf("use case: got %q", req.UseCase)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Job{
			ID:     "p3",
			Name:   req.Name,
			Status: models.JobStatusCreated,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	job, err := client.SubmitJob(context.Background(), SubmitRequest{
		Name:       "ticket-triage",
		UserIntent: "Classify support tickets by urgency",
		UseCase:    models.UseCaseClassification,
	})
	if err != nil {
		t.Fatalf("SubmitJob failed: %v", err)
	}
	if job.ID != "p3" || job.Status != models.JobStatusCreated {
		t.Errorf("unexpected job: %+v", job)
	}
}

func TestTrainerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "trainer unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	if _, err := client.ListJobs(context.Background()); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

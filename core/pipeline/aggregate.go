package pipeline

import (
	"math"

	"trainloop/core/models"
)

// Summary aggregates progress across a set of pipelines
type Summary struct {
	Count           int            `json:"count"`
	AverageProgress int            `json:"average_progress"`
	ByStatus        map[string]int `json:"by_status"`
}

// Aggregate computes the dashboard summary over a possibly-empty collection.
// An empty collection yields an average of 0, never a division error.
func Aggregate(jobs []models.Job) Summary {
	summary := Summary{
		Count:    len(jobs),
		ByStatus: make(map[string]int),
	}

	if len(jobs) == 0 {
		return summary
	}

	total := 0.0
	for _, job := range jobs {
		total += job.Progress
		summary.ByStatus[string(job.Status)]++
	}
	summary.AverageProgress = int(math.Round(total / float64(len(jobs))))

	return summary
}

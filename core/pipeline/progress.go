package pipeline

import (
	"log"

	"trainloop/core/models"
)

// stages is the fixed six-stage training lifecycle. Order is total and shared
// by every pipeline regardless of use case.
var stages = []models.Stage{
	{ID: "ingestion", Name: "Data Ingestion", Description: "Collecting and loading your dataset", Icon: "database", EstimatedTime: "1-2 min"},
	{ID: "preprocessing", Name: "Data Preprocessing", Description: "Cleaning and preparing data for training", Icon: "filter", EstimatedTime: "2-5 min"},
	{ID: "selection", Name: "Model Selection", Description: "Choosing the best base model for your use case", Icon: "search", EstimatedTime: "1-3 min"},
	{ID: "training", Name: "Training", Description: "Training the model on your data", Icon: "cpu", EstimatedTime: "10-60 min"},
	{ID: "evaluation", Name: "Evaluation", Description: "Measuring model quality against targets", Icon: "bar-chart", EstimatedTime: "2-5 min"},
	{ID: "deployment", Name: "Deployment", Description: "Packaging the model for serving", Icon: "upload-cloud", EstimatedTime: "1-2 min"},
}

// Stages returns a copy of the fixed stage catalog
func Stages() []models.Stage {
	out := make([]models.Stage, len(stages))
	copy(out, stages)
	return out
}

// CurrentStageIndex returns the position of the stage matching the pipeline's
// reported stage name, or -1 when nothing matches. An empty or unknown name is
// treated as "nothing started yet" rather than an error; unknown names are
// logged because they usually mean the trainer and this catalog drifted apart.
func CurrentStageIndex(job models.Job) int {
	if job.CurrentStage == "" {
		return -1
	}
	for i, stage := range stages {
		if stage.Name == job.CurrentStage {
			return i
		}
	}
	log.Printf("WARNING: pipeline %s reports unknown stage %q", job.ID, job.CurrentStage)
	return -1
}

// ClassifyStages classifies every stage for one pipeline: completed before the
// current index, current at it, upcoming after it. When the index is -1 all
// stages are upcoming. Pure derivation, no side effects on the job.
func ClassifyStages(job models.Job) []models.StageView {
	current := CurrentStageIndex(job)

	views := make([]models.StageView, len(stages))
	for i, stage := range stages {
		status := models.StageUpcoming
		switch {
		case current >= 0 && i < current:
			status = models.StageCompleted
		case i == current:
			status = models.StageCurrent
		}
		views[i] = models.StageView{Stage: stage, Status: status}
	}
	return views
}

// DisplayStage returns the stage label the renderer should show. A pipeline
// that has not reported a stage yet shows the initialization placeholder.
func DisplayStage(job models.Job) string {
	if job.CurrentStage == "" {
		return "Initializing..."
	}
	return job.CurrentStage
}

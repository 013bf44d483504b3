package spec

import (
	"fmt"

	"trainloop/core/models"

	"gopkg.in/yaml.v3"
)

// PipelineSpec represents the YAML pipeline request document
type PipelineSpec struct {
	Pipeline PipelineSpecBody `yaml:"pipeline"`
}

// PipelineSpecBody represents the pipeline section of the spec
type PipelineSpecBody struct {
	Name    string             `yaml:"name"`
	Intent  string             `yaml:"intent"`
	UseCase string             `yaml:"use_case"`
	Targets *PipelineSpecGoals `yaml:"targets,omitempty"`
}

// PipelineSpecGoals represents optional training targets
type PipelineSpecGoals struct {
	CostTier  string  `yaml:"cost_tier"`
	Accuracy  float64 `yaml:"accuracy"`
	LatencyMS int     `yaml:"latency_ms"`
}

// ParsePipelineSpec parses and validates a YAML pipeline request. Unlike the
// render path, which tolerates unknown stage names, submission validation is
// strict: a request with an unsupported use case is rejected here.
func ParsePipelineSpec(yamlStr string) (*models.Job, error) {
	var doc PipelineSpec
	if err := yaml.Unmarshal([]byte(yamlStr), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline spec: %w", err)
	}

	body := doc.Pipeline
	if body.Name == "" {
		return nil, fmt.Errorf("pipeline name is required")
	}
	if body.Intent == "" {
		return nil, fmt.Errorf("pipeline intent is required")
	}

	useCase := models.UseCase(body.UseCase)
	if !useCase.Valid() {
		return nil, fmt.Errorf("unsupported use case %q (supported: %v)", body.UseCase, models.UseCases())
	}

	job := &models.Job{
		Name:       body.Name,
		UserIntent: body.Intent,
		UseCase:    useCase,
		Status:     models.JobStatusCreated,
	}

	if body.Targets != nil {
		if body.Targets.Accuracy < 0 || body.Targets.Accuracy > 1 {
			return nil, fmt.Errorf("target accuracy must be in (0, 1], got %v", body.Targets.Accuracy)
		}
		if body.Targets.LatencyMS < 0 {
			return nil, fmt.Errorf("target latency must be positive, got %d", body.Targets.LatencyMS)
		}
		job.TargetMetrics = &models.TargetMetrics{
			CostTier:       body.Targets.CostTier,
			TargetAccuracy: body.Targets.Accuracy,
			TargetLatency:  body.Targets.LatencyMS,
		}
	}

	return job, nil
}

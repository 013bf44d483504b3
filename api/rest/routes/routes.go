package routes

import (
	"trainloop/api/rest/handlers"
	"trainloop/core/monitoring"
	"trainloop/core/registry"
	"trainloop/core/repository"
	"trainloop/core/trainer"

	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	r *mux.Router,
	db *repository.DB,
	trainerClient *trainer.Client,
	poller *monitoring.Poller,
	reg *registry.Registry,
) {
	jobRepo := repository.NewJobRepository(db)
	eventRepo := repository.NewEventRepository(db)

	pipelineHandler := handlers.NewPipelineHandler(trainerClient, poller, jobRepo, eventRepo)
	dashboardHandler := handlers.NewDashboardHandler(poller)
	modelHandler := handlers.NewModelHandler(reg)

	r.Use(mux.MiddlewareFunc(Recover))

	api := r.PathPrefix("/v1").Subrouter()

	// Pipeline endpoints
	api.HandleFunc("/pipelines", pipelineHandler.SubmitPipeline).Methods("POST")
	api.HandleFunc("/pipelines", pipelineHandler.ListPipelines).Methods("GET")
	api.HandleFunc("/pipelines/refresh", pipelineHandler.RefreshPipelines).Methods("POST")
	api.HandleFunc("/pipelines/{id}", pipelineHandler.GetPipeline).Methods("GET")
	api.HandleFunc("/pipelines/{id}/deploy", pipelineHandler.DeployPipeline).Methods("POST")

	// Dashboard
	api.HandleFunc("/dashboard", dashboardHandler.GetSummary).Methods("GET")

	// Model registry endpoints
	api.HandleFunc("/models", modelHandler.UploadModel).Methods("POST")
	api.HandleFunc("/models", modelHandler.ListModels).Methods("GET")
	api.HandleFunc("/models/{name}/{version}", modelHandler.GetModel).Methods("GET")
	api.HandleFunc("/models/{name}/{version}/download", modelHandler.DownloadModel).Methods("GET")
	api.HandleFunc("/models/{name}/{version}", modelHandler.DeleteModel).Methods("DELETE")
}

package main

import (
	"github.com/hibiken/asynq"

	derivativeJob "photoflow-backend/internal/domains/derivative/job"
	"photoflow-backend/internal/shared"
	"photoflow-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	cleanupPreviews  *derivativeJob.CleanupPreviewsHandler
	sweepOrphanBlobs *derivativeJob.SweepOrphanBlobsHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		cleanupPreviews: derivativeJob.NewCleanupPreviewsHandler(
			c.DerivativeRepo,
			c.Storage,
			c.Config.Retention.PreviewMaxAge,
		),
		sweepOrphanBlobs: derivativeJob.NewSweepOrphanBlobsHandler(
			c.Storage,
			c.DerivativeRepo,
			c.Config.Retention.OrphanBlobMaxAge,
		),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeCleanupPreviews, h.cleanupPreviews.ProcessTask)
	mux.HandleFunc(shared.TypeSweepOrphanBlobs, h.sweepOrphanBlobs.ProcessTask)
}

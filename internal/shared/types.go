package shared

// Asynq task types handled by the worker binary.
const (
	TypeCleanupPreviews  = "derivative:cleanup_previews"
	TypeSweepOrphanBlobs = "derivative:sweep_orphan_blobs"
)

// Queue names, highest priority first.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// DerivativeBlobPrefix roots every derivative object key in the bucket.
// The orphan sweep walks this prefix.
const DerivativeBlobPrefix = "derivatives/"

package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"file-manager-api/config"
	"file-manager-api/internal/application/ports"
	"file-manager-api/internal/domain/storedfile"
	"file-manager-api/internal/domain/userlink"
)

// maxStoreAttempts caps every bounded object-store interaction: bucket
// self-heal on upload, object delete on purge, object read on download.
// Object WRITES are deliberately excluded: a failed put is terminal.
const maxStoreAttempts = 3

type FileService struct {
	files    storedfile.Repository
	links    userlink.Repository
	store    ports.ObjectStore
	queue    ports.TaskQueue
	notifier ports.Notifier
	logger   *zap.Logger
	mCounter *prometheus.CounterVec

	allowedExtensions map[string]struct{}
	allowedOrigins    map[string]struct{}
	maxPageSize       int
	backoff           time.Duration
}

func NewFileService(
	cfg config.Files,
	files storedfile.Repository,
	links userlink.Repository,
	store ports.ObjectStore,
	queue ports.TaskQueue,
	notifier ports.Notifier,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.FileService {
	exts := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, e := range cfg.AllowedExtensions {
		exts[e] = struct{}{}
	}
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = struct{}{}
	}

	return &FileService{
		files:    files,
		links:    links,
		store:    store,
		queue:    queue,
		notifier: notifier,
		logger:   logger,
		mCounter: mCounter,

		allowedExtensions: exts,
		allowedOrigins:    origins,
		maxPageSize:       cfg.MaxPageSize,
		backoff:           cfg.RetryBackoff,
	}
}

// retryBackoff yields maxStoreAttempts total attempts with a constant pause
// in between, so a store that is down is never hot-looped against.
func (s *FileService) retryBackoff() retry.Backoff {
	return retry.WithMaxRetries(maxStoreAttempts-1, retry.NewConstant(s.backoff))
}

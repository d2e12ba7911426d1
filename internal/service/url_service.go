package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"shorter/internal/base36"
	"shorter/internal/cache"
	"shorter/internal/entities"
	"shorter/internal/metrics"
	"shorter/internal/repository"
)

// auto-code allocations before giving up
const maxAttempts = 10

// Config holds the link policy settings
type Config struct {
	BaseURL string
	// RejectOwnLinks refuses URLs that point at BaseURL's host
	RejectOwnLinks bool
}

// URLService defines the interface for URL business logic
type URLService interface {
	Shorten(ctx context.Context, longURL string, customCode *string, owner *entities.User) (*entities.URL, error)
	Resolve(ctx context.Context, code string) (string, error)
	Lookup(ctx context.Context, code string) (*entities.URL, error)
	ListByOwner(ctx context.Context, owner *entities.User) ([]*entities.URL, error)
	Ping(ctx context.Context) error
}

type urlService struct {
	repo     repository.URLRepository
	cache    cache.LinkCache
	logger   *slog.Logger
	baseHost string
	config   Config
}

// NewURLService creates a new URL service. cacheClient may be nil.
func NewURLService(repo repository.URLRepository, cacheClient cache.LinkCache, logger *slog.Logger, cfg Config) URLService {
	svc := &urlService{
		repo:   repo,
		logger: logger,
		config: cfg,
	}
	// Only set cache if provided (allows graceful degradation)
	if cacheClient != nil {
		svc.cache = cacheClient
	}
	if parsed, err := url.Parse(cfg.BaseURL); err == nil {
		svc.baseHost = strings.ToLower(parsed.Host)
	}
	return svc
}

// Shorten validates longURL and stores it under customCode, or under a code
// derived from the new row id when customCode is nil or empty.
func (s *urlService) Shorten(ctx context.Context, longURL string, customCode *string, owner *entities.User) (*entities.URL, error) {
	longURL, err := ValidateURL(longURL)
	if err != nil {
		metrics.LinksRejected.WithLabelValues("invalid_url").Inc()
		return nil, err
	}
	if s.isOwnLink(longURL) {
		metrics.LinksRejected.WithLabelValues("own_link").Inc()
		return nil, ErrOwnLink
	}

	if customCode != nil && *customCode != "" {
		return s.shortenCustom(ctx, longURL, *customCode, owner)
	}
	return s.shortenAuto(ctx, longURL, owner)
}

func (s *urlService) shortenCustom(ctx context.Context, longURL, rawCode string, owner *entities.User) (*entities.URL, error) {
	code, err := ValidateCustomCode(rawCode)
	if err != nil {
		metrics.LinksRejected.WithLabelValues("invalid_code").Inc()
		return nil, err
	}

	// Advisory check for a friendly error; the unique index below is what counts
	_, err = s.repo.FindByCode(ctx, code)
	if err == nil {
		metrics.LinksRejected.WithLabelValues("code_taken").Inc()
		return nil, ErrCodeTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check short code availability: %w", err)
	}

	link, err := s.repo.InsertWithCode(ctx, longURL, owner.ID, code)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			metrics.LinksRejected.WithLabelValues("code_taken").Inc()
			return nil, ErrCodeTaken
		}
		return nil, fmt.Errorf("failed to create URL: %w", err)
	}

	metrics.LinksCreated.WithLabelValues("custom").Inc()
	s.logger.Info("short link created",
		slog.Int64("id", link.ID),
		slog.String("code", link.ShortCode),
		slog.String("kind", "custom"),
	)
	return link, nil
}

func (s *urlService) shortenAuto(ctx context.Context, longURL string, owner *entities.User) (*entities.URL, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id, err := s.repo.CreatePending(ctx, longURL, owner.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate id: %w", err)
		}
		if id <= 0 {
			return nil, fmt.Errorf("store returned non-positive id %d", id)
		}

		code := base36.Encode(uint64(id))
		if IsReserved(code) {
			metrics.CodeCollisions.Inc()
			s.discard(ctx, id)
			continue
		}

		link, err := s.repo.FinalizeCode(ctx, id, code)
		if err == nil {
			metrics.LinksCreated.WithLabelValues("auto").Inc()
			s.logger.Info("short link created",
				slog.Int64("id", link.ID),
				slog.String("code", link.ShortCode),
				slog.String("kind", "auto"),
			)
			return link, nil
		}

		s.discard(ctx, id)
		if !errors.Is(err, repository.ErrDuplicateCode) {
			return nil, fmt.Errorf("failed to finalize short code: %w", err)
		}

		// A custom code already holds this id's encoding
		metrics.CodeCollisions.Inc()
		s.logger.Warn("derived short code collided, allocating a new id",
			slog.Int64("id", id),
			slog.String("code", code),
		)
	}

	metrics.LinksRejected.WithLabelValues("code_taken").Inc()
	return nil, ErrCodeTaken
}

// discard removes a pending row; a leftover row is harmless because it has no code
func (s *urlService) discard(ctx context.Context, id int64) {
	if err := s.repo.DiscardPending(ctx, id); err != nil {
		s.logger.Warn("failed to discard pending URL", slog.Int64("id", id), slog.Any("error", err))
	}
}

// Resolve returns the stored URL for code and counts the access.
// A failed increment is logged and does not fail the resolution.
func (s *urlService) Resolve(ctx context.Context, code string) (string, error) {
	code, ok := normalizeCode(code)
	if !ok {
		return "", ErrNotFound
	}

	if link, hit := s.cachedLookup(ctx, code); hit {
		s.recordAccess(ctx, link.ID, code)
		return link.URL, nil
	}

	link, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to find URL: %w", err)
	}

	if s.cache != nil {
		entry := cache.Link{ID: link.ID, URL: link.URL}
		if err := s.cache.SetLink(ctx, code, entry); err != nil {
			s.logger.Warn("failed to cache link", slog.String("code", code), slog.Any("error", err))
		}
	}

	s.recordAccess(ctx, link.ID, code)
	return link.URL, nil
}

func (s *urlService) cachedLookup(ctx context.Context, code string) (cache.Link, bool) {
	if s.cache == nil {
		return cache.Link{}, false
	}

	entry, err := s.cache.GetLink(ctx, code)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return entry, true
	case errors.Is(err, cache.ErrMiss):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("cache lookup failed", slog.String("code", code), slog.Any("error", err))
	}
	return cache.Link{}, false
}

func (s *urlService) recordAccess(ctx context.Context, id int64, code string) {
	metrics.Resolutions.Inc()
	if err := s.repo.IncrementAccess(ctx, id); err != nil {
		metrics.AccessIncrementFailures.Inc()
		s.logger.Warn("failed to increment access count",
			slog.Int64("id", id),
			slog.String("code", code),
			slog.Any("error", err),
		)
	}
}

// Lookup returns the link metadata without counting an access
func (s *urlService) Lookup(ctx context.Context, code string) (*entities.URL, error) {
	code, ok := normalizeCode(code)
	if !ok {
		return nil, ErrNotFound
	}

	link, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find URL: %w", err)
	}
	return link, nil
}

// ListByOwner returns the links created by owner, oldest first
func (s *urlService) ListByOwner(ctx context.Context, owner *entities.User) ([]*entities.URL, error) {
	links, err := s.repo.FindByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	return links, nil
}

// Ping checks the underlying store
func (s *urlService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *urlService) isOwnLink(longURL string) bool {
	if !s.config.RejectOwnLinks || s.baseHost == "" {
		return false
	}

	candidate := longURL
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	return strings.ToLower(parsed.Host) == s.baseHost
}

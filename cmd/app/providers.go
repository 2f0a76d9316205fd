package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/knguyen2000/officehourlens/internal/domain/clustering"
	"github.com/knguyen2000/officehourlens/internal/domain/course"
	"github.com/knguyen2000/officehourlens/internal/domain/dedup"
	"github.com/knguyen2000/officehourlens/internal/domain/faq"
	"github.com/knguyen2000/officehourlens/internal/domain/question"
	"github.com/knguyen2000/officehourlens/internal/domain/retrieval"
	"github.com/knguyen2000/officehourlens/internal/infra/config"
	"github.com/knguyen2000/officehourlens/internal/infra/docrepo"
	"github.com/knguyen2000/officehourlens/internal/infra/faqrepo"
	"github.com/knguyen2000/officehourlens/internal/infra/llm/ollama"
	"github.com/knguyen2000/officehourlens/internal/infra/questionrepo"
	"github.com/knguyen2000/officehourlens/internal/infra/settingsstore"
)

func provideQuestionConfig(cfg *config.Config) question.Config {
	return question.Config{DraftTopK: cfg.Retrieval.TopK}
}

func provideDedupConfig(cfg *config.Config) dedup.Config {
	return dedup.Config{
		Strategy:         dedup.Strategy(cfg.Dedup.Strategy),
		CosineThreshold:  cfg.Dedup.CosineThreshold,
		JaccardThreshold: cfg.Dedup.JaccardThreshold,
	}
}

func provideClusteringConfig(cfg *config.Config) clustering.Config {
	return clustering.Config{
		Strategy:         clustering.Strategy(cfg.Clustering.Strategy),
		Eps:              cfg.Clustering.Epsilon,
		MinPoints:        cfg.Clustering.MinPoints,
		JaccardThreshold: cfg.Clustering.JaccardThreshold,
		MinOverlap:       cfg.Clustering.MinOverlap,
	}
}

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{DefaultThreshold: cfg.FAQ.DefaultThreshold}
}

func provideOllamaClient(cfg *config.Config) (*ollama.Client, error) {
	return ollama.NewClient(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.EmbeddingModel, cfg.LLM.Timeout)
}

func provideResilientProvider(cfg *config.Config, client *ollama.Client, logger *slog.Logger) *ollama.Resilient {
	return ollama.NewResilient(client, cfg.LLM.FallbackOnError, logger)
}

// providePostgresPool returns a ready pool, or nil when Postgres is not
// configured or unreachable. A nil pool selects the in-memory stores.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideFAQRepository(pool *pgxpool.Pool, logger *slog.Logger) faq.Repository {
	if pool == nil {
		return faqrepo.NewMemoryRepository()
	}
	repo := faqrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		logger.Error("faq schema setup failed, using memory repository", "error", err)
		return faqrepo.NewMemoryRepository()
	}
	return repo
}

func provideQuestionRepository(pool *pgxpool.Pool, logger *slog.Logger) question.Repository {
	if pool == nil {
		return questionrepo.NewMemoryRepository()
	}
	repo := questionrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		logger.Error("question schema setup failed, using memory repository", "error", err)
		return questionrepo.NewMemoryRepository()
	}
	return repo
}

func provideDocRepository(pool *pgxpool.Pool, logger *slog.Logger) course.Repository {
	if pool == nil {
		return docrepo.NewMemoryRepository()
	}
	repo := docrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		logger.Error("course doc schema setup failed, using memory repository", "error", err)
		return docrepo.NewMemoryRepository()
	}
	return repo
}

func provideSettingsStore(cfg *config.Config, logger *slog.Logger) faq.SettingsStore {
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return settingsstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return settingsstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey settings store enabled", "addr", cfg.Valkey.Addr)
			return settingsstore.NewValkeyStore(client, "settings")
		}
	}
	return settingsstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

// docSource projects the course doc library into the retriever's view.
type docSource struct {
	repo course.Repository
}

func (s docSource) ListDocuments(ctx context.Context) ([]retrieval.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]retrieval.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, retrieval.Document{Title: doc.Title, Content: doc.Content})
	}
	return out, nil
}

// faqSource projects the FAQ corpus into the retriever's view.
type faqSource struct {
	repo faq.Repository
}

func (s faqSource) ListQA(ctx context.Context) ([]retrieval.QA, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]retrieval.QA, 0, len(entries))
	for _, entry := range entries {
		out = append(out, retrieval.QA{Question: entry.Question, Answer: entry.Answer})
	}
	return out, nil
}

func provideDocumentSource(repo course.Repository) retrieval.DocumentSource {
	return docSource{repo: repo}
}

func provideFAQSource(repo faq.Repository) retrieval.FAQSource {
	return faqSource{repo: repo}
}

// faqArchive adapts the FAQ service to the question domain's archive port.
type faqArchive struct {
	svc *faq.Service
}

func (a faqArchive) SaveResolved(ctx context.Context, question, answer string) error {
	_, err := a.svc.SaveResolved(ctx, question, answer)
	return err
}

func provideFAQArchive(svc *faq.Service) question.FAQArchive {
	return faqArchive{svc: svc}
}

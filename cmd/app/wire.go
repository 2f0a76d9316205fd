//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/knguyen2000/officehourlens/internal/bootstrap"
	"github.com/knguyen2000/officehourlens/internal/domain/clustering"
	"github.com/knguyen2000/officehourlens/internal/domain/course"
	"github.com/knguyen2000/officehourlens/internal/domain/dedup"
	"github.com/knguyen2000/officehourlens/internal/domain/faq"
	"github.com/knguyen2000/officehourlens/internal/domain/question"
	"github.com/knguyen2000/officehourlens/internal/domain/retrieval"
	"github.com/knguyen2000/officehourlens/internal/infra/config"
	"github.com/knguyen2000/officehourlens/internal/infra/llm/ollama"
	httpiface "github.com/knguyen2000/officehourlens/internal/interface/http"
	"github.com/knguyen2000/officehourlens/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideQuestionConfig,
		provideDedupConfig,
		provideClusteringConfig,
		provideFAQConfig,
		provideOllamaClient,
		provideResilientProvider,
		providePostgresPool,
		provideFAQRepository,
		provideQuestionRepository,
		provideDocRepository,
		provideSettingsStore,
		provideDocumentSource,
		provideFAQSource,
		provideFAQArchive,
		retrieval.NewRetriever,
		retrieval.NewAnswerer,
		dedup.NewMatcher,
		clustering.NewEngine,
		faq.NewService,
		question.NewService,
		course.NewService,
		wire.Bind(new(retrieval.Embedder), new(*ollama.Resilient)),
		wire.Bind(new(retrieval.Generator), new(*ollama.Resilient)),
		wire.Bind(new(dedup.Embedder), new(*ollama.Resilient)),
		wire.Bind(new(clustering.Embedder), new(*ollama.Resilient)),
		wire.Bind(new(clustering.Generator), new(*ollama.Resilient)),
		wire.Bind(new(faq.Deduper), new(*dedup.Matcher)),
		wire.Bind(new(faq.ClusterEngine), new(*clustering.Engine)),
		wire.Bind(new(question.Drafter), new(*retrieval.Answerer)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}

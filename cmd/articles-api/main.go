package main

import (
	"context"
	"net/http"
	"os"

	"github.com/the-articles/articles-api/internal/adapters/ai"
	"github.com/the-articles/articles-api/internal/adapters/auth"
	httpadapter "github.com/the-articles/articles-api/internal/adapters/http"
	"github.com/the-articles/articles-api/internal/adapters/realtime"
	firestorestore "github.com/the-articles/articles-api/internal/adapters/storage/firestore"
	memstore "github.com/the-articles/articles-api/internal/adapters/storage/memory"
	"github.com/the-articles/articles-api/internal/app/chat"
	"github.com/the-articles/articles-api/internal/app/content"
	"github.com/the-articles/articles-api/internal/app/datacache"
	"github.com/the-articles/articles-api/internal/app/identity"
	"github.com/the-articles/articles-api/internal/app/interactions"
	"github.com/the-articles/articles-api/internal/app/socialgraph"
	"github.com/the-articles/articles-api/internal/app/trends"
	"github.com/the-articles/articles-api/internal/config"
	"github.com/the-articles/articles-api/internal/domain"
	"github.com/the-articles/articles-api/internal/observability"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	log := observability.Logger()

	// AI: static stand-in or Vertex Gemini by config
	var (
		aiClient domain.AIClient
		err      error
	)
	if cfg.UseMockAI {
		log.Info("using mock AI client")
		aiClient = ai.NewMockAI()
	} else {
		log.Info("using Vertex Gemini client", "model", cfg.ModelName)
		aiClient, err = ai.NewGeminiClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			log.Error("gemini client init failed", "error", err)
			os.Exit(1)
		}
	}

	// Storage: Firestore or memory
	var (
		profiles domain.ProfileStore
		articles domain.ArticleStore
		comments domain.CommentStore
		requests domain.ChatRequestStore
	)
	switch cfg.StorageBackend {
	case "firestore":
		log.Info("using Firestore storage", "project", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Error("firestore init failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		// one store, four ports
		profiles = store
		articles = store
		comments = store
		requests = store

	default:
		log.Info("using in-memory storage")
		profiles = memstore.NewProfileStore()
		articles = memstore.NewArticleStore()
		comments = memstore.NewCommentStore()
		requests = memstore.NewChatRequestStore()
	}

	cache := datacache.New(articles, profiles)
	sync := identity.NewSynchronizer(profiles, cache, cfg.AdminDomain)
	sync.Bootstrap(ctx, nil)

	hub := realtime.NewHub()

	server := httpadapter.NewServer(httpadapter.Deps{
		Auth:        auth.NewGateway(cfg.JWTSecret, cfg.SessionTTL),
		Sync:        sync,
		Cache:       cache,
		Graph:       socialgraph.NewMutator(profiles, cache),
		Reactions:   interactions.NewService(articles, cache),
		Content:     content.NewService(articles, comments, cache),
		Chats:       chat.NewHandshakeService(requests),
		Trends:      trends.NewService(aiClient, cache, cfg.TrendsTTL),
		Analyst:     trends.NewAnalyst(aiClient),
		Channels:    realtime.NewChannelHandler(hub),
		AdminDomain: cfg.AdminDomain,
	})

	addr := ":" + cfg.Port
	log.Info("articles API listening", "addr", addr, "mode", cfg.Mode)
	if err := http.ListenAndServe(addr, server); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/symbaroum-vtt/internal/config"
	"github.com/KirkDiggler/symbaroum-vtt/internal/handlers/api"
	"github.com/KirkDiggler/symbaroum-vtt/internal/handlers/discord"
	"github.com/KirkDiggler/symbaroum-vtt/internal/relay"
	"github.com/KirkDiggler/symbaroum-vtt/internal/repositories/characters"
	"github.com/KirkDiggler/symbaroum-vtt/internal/repositories/chat"
	"github.com/KirkDiggler/symbaroum-vtt/internal/services"
)

func main() {
	// Load configuration (.env first, then the environment)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	providerConfig := &services.ProviderConfig{
		ChatMaxMessages: cfg.Chat.MaxMessages,
		RelayTimeout:    cfg.Relay.Timeout,
	}

	// Keep Redis client for cleanup
	var redisClient *redis.Client

	if cfg.Redis.URL != "" {
		redisClient = connectRedis(cfg.Redis.URL)
	} else {
		log.Println("No REDIS_URL found, using in-memory repositories")
	}
	if redisClient != nil {
		providerConfig.CharacterRepository = characters.NewRedis(redisClient)
		providerConfig.ChatRepository = chat.NewRedisRepository(&chat.RedisRepoConfig{
			Client:      redisClient,
			MaxMessages: cfg.Chat.MaxMessages,
		})
		log.Println("Using Redis for persistence")
	}

	targets := make([]relay.Relay, 0, len(cfg.Relay.WebhookURLs))
	for _, url := range cfg.Relay.WebhookURLs {
		target, relayErr := relay.NewDiscordWebhook(&relay.DiscordWebhookConfig{URL: url})
		if relayErr != nil {
			log.Fatalf("Failed to create webhook relay: %v", relayErr)
		}
		targets = append(targets, target)
	}
	if len(targets) > 0 {
		log.Printf("Relaying rolls to %d webhook(s)", len(targets))
	}
	providerConfig.Relay = relay.NewMulti(targets...)

	serviceProvider := services.NewProvider(providerConfig)

	var httpServer *http.Server
	if cfg.HTTP.Addr != "" {
		apiServer := api.NewServer(&api.ServerConfig{
			CharacterService: serviceProvider.CharacterService,
			RollService:      serviceProvider.RollService,
			ChatPageSize:     cfg.Chat.PageSize,
		})
		httpServer = &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           apiServer.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Printf("HTTP API listening on %s", cfg.HTTP.Addr)
			if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				log.Fatalf("HTTP server failed: %v", serveErr)
			}
		}()
	}

	var dg *discordgo.Session
	if cfg.Discord.Enabled() {
		dg, err = startDiscord(cfg.Discord, serviceProvider)
		if err != nil {
			log.Printf("Failed to start Discord bot: %v", err)
		}
	}

	fmt.Println("VTT is now running. Press CTRL-C to exit.")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	fmt.Println("Shutting down...")

	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		if shutdownErr := httpServer.Shutdown(ctx); shutdownErr != nil {
			log.Printf("Failed to shut down HTTP server: %v", shutdownErr)
		}
		cancel()
	}

	if dg != nil {
		if closeErr := dg.Close(); closeErr != nil {
			log.Printf("Failed to close Discord connection: %v", closeErr)
		}
	}

	// Let in-flight relay posts finish before Redis goes away
	serviceProvider.RollRelay.Wait()

	// Clean up Redis connection if we have one
	if redisClient != nil {
		if closeErr := redisClient.Close(); closeErr != nil {
			log.Printf("Failed to close Redis connection: %v", closeErr)
		}
	}
}

// connectRedis returns nil when Redis is unusable so the caller falls back
// to in-memory storage
func connectRedis(url string) *redis.Client {
	log.Printf("Connecting to Redis at: %s", url)

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("Failed to parse Redis URL: %v", err)
		log.Println("Falling back to in-memory repositories")
		return nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		log.Println("Falling back to in-memory repositories")
		_ = client.Close()
		return nil
	}

	log.Println("Successfully connected to Redis")
	return client
}

func startDiscord(cfg config.DiscordConfig, provider *services.Provider) (*discordgo.Session, error) {
	log.Printf("Application ID: %s", cfg.AppID)
	if cfg.GuildID != "" {
		log.Printf("Guild ID: %s", cfg.GuildID)
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	handler := discord.NewHandler(&discord.HandlerConfig{
		ServiceProvider: provider,
	})
	dg.AddHandler(handler.HandleInteraction)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Use empty string for global commands, or set a specific guild ID for testing
	if err := handler.RegisterCommands(dg, cfg.GuildID); err != nil {
		_ = dg.Close()
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	if cfg.GuildID != "" {
		log.Printf("Registered commands for guild: %s", cfg.GuildID)
	} else {
		log.Println("Registered global commands (may take up to 1 hour to propagate)")
	}
	return dg, nil
}

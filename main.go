package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	apimod "github.com/example/taskboard/modules/api"
	authmod "github.com/example/taskboard/modules/auth"
	cachemod "github.com/example/taskboard/modules/cache"
	tasksmod "github.com/example/taskboard/modules/tasks"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	dbPath := getEnv("TASKBOARD_DB_PATH", "taskboard.db")
	httpPort := getEnvInt("TASKBOARD_HTTP_PORT", 3000)
	redisAddr := getEnv("TASKBOARD_REDIS_ADDR", "")
	cacheTTL := getEnvDuration("TASKBOARD_CACHE_TTL", 5*time.Minute)
	debugDB := getEnv("DB_DEBUG", "") == "true"

	jwtConfig := authmod.DefaultJWTConfig()
	if secret := os.Getenv("TASKBOARD_JWT_SECRET"); secret != "" {
		jwtConfig.SecretKey = secret
	} else {
		log.Println("WARNING: TASKBOARD_JWT_SECRET not set, using insecure default")
	}
	jwtConfig.TokenDuration = getEnvDuration("TASKBOARD_JWT_TTL", jwtConfig.TokenDuration)

	log.Println("=== taskboard ===")
	log.Printf("Database: %s", dbPath)
	log.Printf("HTTP Port: %d", httpPort)
	if redisAddr != "" {
		log.Printf("Redis: %s (cache TTL %s)", redisAddr, cacheTTL)
	} else {
		log.Println("Redis: disabled")
	}

	// Create modules
	authModule := authmod.NewModule(dbPath, jwtConfig, debugDB)
	tasksModule := tasksmod.NewModule(dbPath, debugDB)
	apiModule := apimod.NewModule(httpPort)

	var cacheModule *cachemod.Module
	if redisAddr != "" {
		cacheModule = cachemod.NewModule(redisAddr, cacheTTL)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	if cacheModule != nil {
		app.Register(cacheModule)
	}
	app.Register(authModule)
	app.Register(tasksModule)
	app.Register(apiModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wire the optional cache after start
	if cacheModule != nil {
		tasksModule.SetCache(cacheModule.GetCache())
		apiModule.SetCache(cacheModule.GetCache())
	}

	printStartupInfo(httpPort)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /auth/register          - Register a new user")
	log.Println("  POST   /auth/login             - Login and get a token")
	log.Println("  GET    /health                 - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/me                 - Current user profile")
	log.Println("  POST   /api/tasks              - Create a task")
	log.Println("  GET    /api/tasks              - List your tasks")
	log.Println("  GET    /api/tasks/:id          - Get a task")
	log.Println("  PUT    /api/tasks/:id          - Update a task")
	log.Println("  PATCH  /api/tasks/:id/status   - Update a task's status")
	log.Println("  DELETE /api/tasks/:id          - Delete a task")
	log.Println("  GET    /api/cache/stats        - Cache statistics")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

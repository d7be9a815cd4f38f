package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/storefront-mcp/internal/application/auth"
	"github.com/storefront-mcp/internal/application/customer"
	"github.com/storefront-mcp/internal/application/order"
	"github.com/storefront-mcp/internal/application/product"
	"github.com/storefront-mcp/internal/config"
	"github.com/storefront-mcp/internal/infrastructure/dynamo"
	jwtinfra "github.com/storefront-mcp/internal/infrastructure/jwt"
	"github.com/storefront-mcp/internal/infrastructure/memory"
	"github.com/storefront-mcp/internal/infrastructure/shopify"
	"github.com/storefront-mcp/internal/infrastructure/smtp"
	transporthttp "github.com/storefront-mcp/internal/transport/http"
	"github.com/storefront-mcp/internal/transport/mcp"
	"github.com/storefront-mcp/internal/transport/mcp/handler"
)

const serverVersion = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	if cfg.ShopifyStoreDomain == "" || cfg.ShopifyAccessToken == "" {
		log.Fatal("SHOPIFY_STORE_DOMAIN and SHOPIFY_ACCESS_TOKEN are required")
	}

	// Pending codes and sessions: in-process maps by default, DynamoDB when
	// the deployment needs them to survive restarts.
	var (
		credentials auth.CredentialStore
		sessions    auth.SessionStore
	)
	switch cfg.StoreBackend {
	case "dynamo":
		dynamoClient := dynamo.NewClient(cfg)
		dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)
		credentials = dynamo.NewCredentialRepo(dynamoClient, cfg.DynamoTables.Credentials)
		sessions = dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions)
	default:
		credentials = memory.NewCredentialStore()
		sessions = memory.NewSessionStore()
	}

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	mailer := smtp.NewMailer(cfg)
	shop := shopify.NewClient(cfg.ShopifyStoreDomain, cfg.ShopifyAccessToken, cfg.ShopifyAPIVersion)

	productSvc := product.NewService(shop)
	customerSvc := customer.NewService(shop)
	orderSvc := order.NewService(shop, shop)
	authSvc := auth.NewService(auth.ServiceDeps{
		Credentials:      credentials,
		Sessions:         sessions,
		Mailer:           mailer,
		Customers:        shop,
		Orders:           shop,
		FromAddress:      cfg.OTPFromAddress,
		OTPTTL:           cfg.OTPTTL,
		SessionFreshness: cfg.SessionFreshness,
	})

	var tools []mcp.Tool
	tools = append(tools, handler.ProductTools(productSvc)...)
	tools = append(tools, handler.CustomerTools(customerSvc)...)
	tools = append(tools, handler.OrderTools(orderSvc)...)
	tools = append(tools, handler.AuthTools(authSvc, orderSvc)...)

	mcpServer := mcp.NewServer("storefront-mcp", serverVersion, tools)
	router := transporthttp.NewRouter(cfg, mcpServer, jwtProvider)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.AppPort),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No write timeout: SSE streams stay open until the client hangs up.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdftools-backend/internal/config"
	"pdftools-backend/internal/handler"
	"pdftools-backend/internal/service"
	"pdftools-backend/internal/session"
	"pdftools-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 本地运行支持 .env，不要求 shell 里手动 export
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// 初始化服务
	signer := session.NewSigner([]byte(cfg.Session.Secret), cfg.Session.TTL)
	pdfService := service.NewPDFService(cfg)

	// 初始化处理器
	authHandler := handler.NewAuthHandler(cfg, signer)
	pdfHandler := handler.NewPDFHandler(pdfService)

	// 创建路由
	router := setupRouter(cfg, authHandler, pdfHandler)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// 启动服务器
	go func() {
		logger.Infof("服务器启动在端口 %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待信号优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务器正在关闭...")
	if err := server.Close(); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
	}
	logger.Info("服务器已关闭")
}

func setupRouter(cfg *config.Config, authHandler *handler.AuthHandler, pdfHandler *handler.PDFHandler) *gin.Engine {
	// 设置gin模式
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(handler.BodyLimit(cfg.MaxBodyBytes()))

	// CORS配置
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig := cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     cfg.CORS.AllowedMethods,
			AllowHeaders:     cfg.CORS.AllowedHeaders,
			ExposeHeaders:    cfg.CORS.ExposedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
		}
		router.Use(cors.New(corsConfig))
	}

	// 页面和认证
	router.GET("/", authHandler.Index)
	router.GET("/healthz", authHandler.Healthz)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	// API路由
	api := router.Group("/api")
	api.Use(authHandler.RequireSession)
	{
		api.POST("/npages", pdfHandler.NPages)
		api.POST("/merge", pdfHandler.Merge)
	}

	return router
}

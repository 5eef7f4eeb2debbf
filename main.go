package main

import (
	"net/http"
	"slices"

	"sketchroom/config"
	"sketchroom/game"
	"sketchroom/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger.Init(cfg.LogLevel)

	words := game.DefaultWords()
	if cfg.WordsFile != "" {
		if words, err = game.LoadWordsFile(cfg.WordsFile); err != nil {
			log.Fatal().Err(err).Str("path", cfg.WordsFile).Msg("loading words file")
		}
	}
	pool, err := game.NewWordPool(words)
	if err != nil {
		log.Fatal().Err(err).Msg("building word pool")
	}

	tickerGen := game.NewTickerGen()
	hub := game.NewHub(pool, &tickerGen, cfg.TurnSeconds, cfg.GraceSeconds)

	hubStarted := make(chan struct{})
	go hub.Run(hubStarted)
	<-hubStarted

	origins := cfg.Origins()
	r := CreateServer(origins)

	handler := game.NewHandler(hub, origins)
	r.GET("/connect", handler.ConnectHandler)

	log.Info().Str("addr", cfg.ListenAddr).Int("words", len(words)).Msg("sketchroom listening")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

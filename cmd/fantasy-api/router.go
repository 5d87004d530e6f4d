package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fantasy/internal/common/db"
	"fantasy/internal/common/http/middleware"
	"fantasy/internal/common/storage"
	"fantasy/internal/fantasy/controller"
	pkgerrors "fantasy/pkg/errors"
	"fantasy/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
)

const (
	healthTimeout = 2 * time.Second
	// blobsRoute must match the path of storage.local.publicURL.
	blobsRoute = "/blobs"
)

func buildRouter(cfg *AppConfig, provider db.Provider, blobs storage.BlobStorage, countries *controller.CountryController, teams *controller.TeamController) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		response.AbortWithError(c, pkgerrors.Newf(pkgerrors.InternalServerError, "panic: %v", recovered))
	}))
	router.Use(middleware.TraceContextMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS))
	router.Use(middleware.RequestLogger("/healthz"))
	router.Use(limitBody(cfg.Server.MaxBodyBytes))

	router.GET("/healthz", healthHandler(provider))
	if reader, ok := blobs.(storage.BlobReader); ok {
		router.GET(blobsRoute+"/:container/:name", blobHandler(reader))
	}
	controller.RegisterRoutes(router.Group("/api"), countries, teams)
	return router
}

func buildHTTPServer(cfg *AppConfig, provider db.Provider, blobs storage.BlobStorage, countries *controller.CountryController, teams *controller.TeamController) *http.Server {
	var handler http.Handler = buildRouter(cfg, provider, blobs, countries, teams)
	if *cfg.Server.Gzip {
		handler = gzhttp.GzipHandler(handler)
	}
	return &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
}

func healthHandler(provider db.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		database, err := db.CurrentDatabase(provider)
		if err == nil {
			err = database.Ping(ctx)
		}
		if err != nil {
			response.Error(c, pkgerrors.Wrap(err, pkgerrors.ServiceUnavailable))
			return
		}
		response.Success(c, gin.H{"status": "ok"})
	}
}

// blobHandler serves team images stored by the local driver.
func blobHandler(blobs storage.BlobReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, contentType, err := blobs.Read(c.Request.Context(), c.Param("container"), c.Param("name"))
		if errors.Is(err, storage.ErrBlobNotFound) {
			response.NotFound(c, "")
			return
		}
		if err != nil {
			response.Error(c, pkgerrors.Wrap(err, pkgerrors.ImageStorageFailed))
			return
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, contentType, content)
	}
}

// limitBody caps request bodies; team images travel base64-encoded inside JSON.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

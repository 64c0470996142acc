package api

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MediaArchive is the slice of the media archive the passthrough needs.
type MediaArchive interface {
	Exists(ctx context.Context, key string) (bool, error)
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
}

// RegisterMediaRoutes serves archived evidence media by archive key, so report
// readers can pull media referenced by an ArchiveKey without S3 credentials.
func RegisterMediaRoutes(r *gin.Engine, archive MediaArchive) {
	r.GET("/api/media/*key", func(c *gin.Context) { handleFetchMedia(c, archive) })
}

func handleFetchMedia(c *gin.Context, archive MediaArchive) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing media key"})
		return
	}

	ok, err := archive.Exists(c.Request.Context(), key)
	if err != nil {
		log.Printf("api: media lookup for %s failed: %v", key, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "archive unavailable"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "media not found"})
		return
	}

	body, err := archive.Fetch(c.Request.Context(), key)
	if err != nil {
		log.Printf("api: media fetch for %s failed: %v", key, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "archive unavailable"})
		return
	}
	defer body.Close()

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		log.Printf("api: media stream for %s interrupted: %v", key, err)
	}
}

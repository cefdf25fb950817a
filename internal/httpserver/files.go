package httpserver

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *handlers) uploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}

	name := filepath.Base(file.Filename)
	dest := filepath.Join(h.deps.UploadDir, fmt.Sprintf("%s_%s", h.deps.UploadPrefix, name))
	if err := c.SaveUploadedFile(file, dest); err != nil {
		h.logger.Printf("upload file %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "err": "failed to store file"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) adminFiles(c *gin.Context) {
	entries, err := os.ReadDir(h.deps.UploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, []string{})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "err": "failed to list files"})
		return
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	c.JSON(http.StatusOK, names)
}

func (h *handlers) downloadFile(c *gin.Context) {
	name := filepath.Base(c.Param("id"))
	if name == "." || name == "/" || strings.HasPrefix(name, "..") {
		badRequest(c, "invalid file name")
		return
	}

	path := filepath.Join(h.deps.UploadDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "err": "file not found"})
		return
	}
	c.FileAttachment(path, name)
}

func (h *handlers) uploadImage(c *gin.Context) {
	if h.deps.Images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "err": "image storage not configured"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "err": "failed to read file"})
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	key, url, err := h.deps.Images.Upload(c.Request.Context(), src, file.Size, file.Filename, contentType)
	if err != nil {
		h.logger.Printf("upload image %s: %v", file.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "err": "failed to store image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"public_id": key,
		"url":       url,
	})
}

func (h *handlers) removeImage(c *gin.Context) {
	if h.deps.Images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "err": "image storage not configured"})
		return
	}

	key := c.Query("public_id")
	if key == "" {
		badRequest(c, "public_id is required")
		return
	}

	if err := h.deps.Images.Remove(c.Request.Context(), key); err != nil {
		h.logger.Printf("remove image %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "err": "failed to remove image"})
		return
	}
	c.String(http.StatusOK, "ok")
}

package main

import (
	"context"
	"encoding/json"
	"time"

	"directoryEngine/internal/models"
	"directoryEngine/internal/utils"
)

// codeCache holds regenerated embed code per directory.
type codeCache interface {
	Get(ctx context.Context, directoryID string) (*models.GeneratedCode, bool)
	Set(ctx context.Context, directoryID string, code models.GeneratedCode)
	Delete(ctx context.Context, directoryID string)
}

type memoryCodeCache struct {
	cache *utils.Cache
}

func newMemoryCodeCache(ttl time.Duration) *memoryCodeCache {
	return &memoryCodeCache{cache: utils.NewCache(ttl)}
}

func (c *memoryCodeCache) Get(_ context.Context, directoryID string) (*models.GeneratedCode, bool) {
	v, ok := c.cache.Get(directoryID)
	if !ok {
		return nil, false
	}
	code := v.(models.GeneratedCode)
	return &code, true
}

func (c *memoryCodeCache) Set(_ context.Context, directoryID string, code models.GeneratedCode) {
	c.cache.Set(directoryID, code)
}

func (c *memoryCodeCache) Delete(_ context.Context, directoryID string) {
	c.cache.Delete(directoryID)
}

// redisCodeCache shares embed code between server instances. Redis
// failures degrade to cache misses.
type redisCodeCache struct {
	cache  *utils.RedisCache
	ttl    time.Duration
	logger *Logger
}

func (c *redisCodeCache) Get(ctx context.Context, directoryID string) (*models.GeneratedCode, bool) {
	data, ok, err := c.cache.Get(ctx, directoryID)
	if err != nil {
		c.logger.WithError(err).WithField("directory_id", directoryID).Warn("Embed code cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var code models.GeneratedCode
	if err := json.Unmarshal(data, &code); err != nil {
		return nil, false
	}
	return &code, true
}

func (c *redisCodeCache) Set(ctx context.Context, directoryID string, code models.GeneratedCode) {
	data, err := json.Marshal(code)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, directoryID, data, c.ttl); err != nil {
		c.logger.WithError(err).WithField("directory_id", directoryID).Warn("Embed code cache write failed")
	}
}

func (c *redisCodeCache) Delete(ctx context.Context, directoryID string) {
	if err := c.cache.Delete(ctx, directoryID); err != nil {
		c.logger.WithError(err).WithField("directory_id", directoryID).Warn("Embed code cache delete failed")
	}
}

// embedCode returns the directory's code regenerated from its stored
// configuration.
func (app *App) embedCode(ctx context.Context, dir *models.Directory) models.GeneratedCode {
	if code, ok := app.CodeCache.Get(ctx, dir.ID); ok {
		return *code
	}
	code := app.Generator.Generate(dir.Config, dir.Styling)
	app.CodeCache.Set(ctx, dir.ID, code)
	return code
}

func (app *App) invalidateEmbedCode(ctx context.Context, directoryID string) {
	app.CodeCache.Delete(ctx, directoryID)
}

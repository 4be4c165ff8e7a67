package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/wine-comb/app/catalog"
	"github.com/lysyi3m/wine-comb/app/database"
	"github.com/lysyi3m/wine-comb/app/tasks"
)

func NewHandler(profile *catalog.Profile, productRepo database.ProductRepository,
	catalogRepo database.CatalogRepository, runRepo database.RunRepository,
	scheduler tasks.TaskSchedulerInterface, version string) *Handler {
	return &Handler{
		profile:     profile,
		productRepo: productRepo,
		catalogRepo: catalogRepo,
		runRepo:     runRepo,
		scheduler:   scheduler,
		version:     version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"source":    h.profile.Name,
		"version":   h.version,
	}

	if productCount, err := h.productRepo.Count(); err == nil {
		health["products"] = productCount
	}

	if catalogCount, err := h.catalogRepo.Count(); err == nil {
		health["catalog"] = catalogCount
	}

	c.JSON(http.StatusOK, health)
}

// GetProducts serves the current result set, the same records a replay run returns.
func (h *Handler) GetProducts(c *gin.Context) {
	records, err := h.productRepo.ListAll()
	if err != nil {
		slog.Error("Database error", "operation", "list_products", "source", h.profile.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.Header("X-Products-Count", strconv.Itoa(len(records)))
	c.Header("X-Source", h.profile.Name)

	c.JSON(http.StatusOK, records)
}

func (h *Handler) LookupProduct(c *gin.Context) {
	link := c.Query("link")
	if link == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing link parameter"})
		return
	}

	record, err := h.productRepo.Lookup(link)
	if err != nil {
		slog.Error("Database error", "operation", "lookup_product", "link", link, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) APIStartRun(c *gin.Context) {
	mode := database.RunMode(c.DefaultQuery("mode", string(database.RunModeLive)))
	if mode != database.RunModeLive && mode != database.RunModeReplay {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mode must be 'live' or 'replay'"})
		return
	}

	if err := h.scheduler.ScheduleScrape(mode); err != nil {
		if errors.Is(err, tasks.ErrScrapePending) {
			c.JSON(http.StatusConflict, gin.H{"error": "A live run is already queued"})
			return
		}
		slog.Error("Failed to enqueue ScrapeCatalogTask", "source", h.profile.Name, "mode", string(mode), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to queue run"})
		return
	}

	slog.Info("Run queued via API", "source", h.profile.Name, "mode", string(mode))

	c.JSON(http.StatusAccepted, gin.H{
		"source": h.profile.Name,
		"mode":   mode,
		"status": "queued",
	})
}

func (h *Handler) APIMergeCatalog(c *gin.Context) {
	if err := h.scheduler.ScheduleMerge(); err != nil {
		slog.Error("Failed to enqueue MergeCatalogTask", "source", h.profile.Name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to queue merge"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"source": h.profile.Name,
		"status": "queued",
	})
}

func (h *Handler) APIGetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"source":           h.profile.Name,
		"enabled":          h.profile.Settings.Enabled,
		"refresh_interval": (time.Duration(h.profile.Settings.RefreshInterval) * time.Second).String(),
		"request_interval": (time.Duration(h.profile.Settings.RequestInterval) * time.Millisecond).String(),
	}

	if productCount, err := h.productRepo.Count(); err == nil {
		stats["products"] = productCount
	}

	if catalogCount, err := h.catalogRepo.Count(); err == nil {
		stats["catalog"] = catalogCount
	}

	if runCount, err := h.runRepo.GetRunCount(h.profile.Name); err == nil {
		stats["runs"] = runCount
	}

	run, err := h.runRepo.GetLatestRun(h.profile.Name, database.RunModeLive)
	if err != nil {
		slog.Error("Database error", "operation", "get_latest_run", "source", h.profile.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if run != nil {
		stats["last_run"] = map[string]interface{}{
			"id":          run.ID,
			"started_at":  run.StartedAt,
			"finished_at": run.FinishedAt,
			"total":       run.Total,
			"fetched":     run.Fetched,
			"reused":      run.Reused,
			"failed":      run.Failed,
			"discarded":   run.Discarded,
			"errored":     run.Errored,
			"saved":       run.Saved,
			"save_failed": run.SaveFailed,
			"error":       run.Error,
		}
	}

	c.JSON(http.StatusOK, stats)
}

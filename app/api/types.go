package api

import (
	"github.com/lysyi3m/wine-comb/app/catalog"
	"github.com/lysyi3m/wine-comb/app/database"
	"github.com/lysyi3m/wine-comb/app/tasks"
)

type Handler struct {
	profile     *catalog.Profile
	productRepo database.ProductRepository
	catalogRepo database.CatalogRepository
	runRepo     database.RunRepository
	scheduler   tasks.TaskSchedulerInterface
	version     string
}

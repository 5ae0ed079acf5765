package planner

import (
	"github.com/z2z63/DB2024-OSCore/internal/catalog"
	"go.uber.org/zap"
)

// EngineFeatures carries the join-executor enablement flags §4.2.4 step 3
// switches on.
type EngineFeatures struct {
	EnableNestedLoop bool
	EnableSortMerge  bool
}

// Context bundles the planner's external collaborators: the catalog it
// reads (never writes) and the join strategies the surrounding engine has
// executors for.
type Context struct {
	Catalog  catalog.CatalogManager
	Features EngineFeatures
	Logger   *zap.SugaredLogger
}

func (c *Context) logger() *zap.SugaredLogger {
	if c.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return c.Logger
}

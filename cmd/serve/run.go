package serve

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/bgraf/trackmap/config"
	"github.com/bgraf/trackmap/loader"
	"github.com/bgraf/trackmap/render"
	"github.com/bgraf/trackmap/res"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func RunServeCmd(cmd *cobra.Command, args []string) error {
	datasets, err := config.Datasets()
	if err != nil {
		return err
	}

	session := loader.NewSession()
	defer session.Close()

	r, err := newRouter(session)
	if err != nil {
		return err
	}

	go session.Loader.Run(context.Background(), datasets)

	addr := config.ServerAddress()
	log.Info("serving map", "address", addr, "datasets", len(datasets))

	if err = r.Run(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

func newRouter(session *loader.Session) (*gin.Engine, error) {
	templates, err := render.ReadTemplates()
	if err != nil {
		return nil, err
	}

	static, err := fs.Sub(res.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("could not open static files: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.UseRawPath = true
	r.SetHTMLTemplate(templates)

	api := newServeAPI(session)
	r.GET("/", api.ServeIndex)

	g := r.Group("/api")
	g.GET("/scene", api.ServeScene)
	g.GET("/datasets", api.ServeDatasets)
	g.GET("/tracks/*key", api.ServeTrack)
	g.POST("/tracks/visibility", api.SetTrackVisibility)
	g.POST("/datasets/:id/visibility", api.SetDatasetVisibility)
	g.POST("/show-all", api.ShowAll)
	g.POST("/clear-all", api.ClearAll)
	g.GET("/bounds", api.ServeBounds)
	g.POST("/fit", api.Fit)

	r.StaticFS("/static", http.FS(static))

	return r, nil
}

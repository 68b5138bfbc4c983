package serve

import (
	"net/http"
	"strings"

	"github.com/bgraf/trackmap/geotrack"
	"github.com/bgraf/trackmap/loader"
	"github.com/bgraf/trackmap/render"
	"github.com/gin-gonic/gin"
)

type serveAPI struct {
	session *loader.Session
}

func newServeAPI(session *loader.Session) *serveAPI {
	return &serveAPI{session: session}
}

type trackVisibility struct {
	Key     geotrack.TrackKey `json:"key" binding:"required"`
	Checked *bool             `json:"checked" binding:"required"`
}

type datasetVisibility struct {
	Checked *bool `json:"checked" binding:"required"`
}

func (api *serveAPI) ServeIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "map.html", render.Page{
		Title:      "Track map",
		StaticBase: "/static",
		Options:    render.MapOptionsFromConfig(true),
	})
}

func (api *serveAPI) ServeScene(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.JSON(http.StatusOK, api.session.Scene.Snapshot())
}

func (api *serveAPI) ServeDatasets(c *gin.Context) {
	c.JSON(http.StatusOK, api.session.Registry.Datasets())
}

func (api *serveAPI) ServeTrack(c *gin.Context) {
	key := geotrack.TrackKey(strings.TrimPrefix(c.Param("key"), "/"))

	track, ok := api.session.Registry.Track(key)
	if !ok {
		c.String(http.StatusNotFound, "not found")
		return
	}

	view, _ := api.session.Registry.Dataset(key.DatasetID())
	c.JSON(http.StatusOK, gin.H{
		"track":   track,
		"info":    track.Info(view.Name),
		"visible": api.session.Registry.IsVisible(key),
	})
}

// SetTrackVisibility forwards a checkbox change. Unknown keys are accepted and
// ignored, like the registry does.
func (api *serveAPI) SetTrackVisibility(c *gin.Context) {
	var req trackVisibility
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := api.session.Registry.Track(req.Key); !ok {
		c.Status(http.StatusNoContent)
		return
	}

	api.session.Registry.SetTrackVisible(req.Key, *req.Checked)
	c.JSON(http.StatusOK, gin.H{
		"key":     req.Key,
		"visible": api.session.Registry.IsVisible(req.Key),
	})
}

func (api *serveAPI) SetDatasetVisibility(c *gin.Context) {
	var req datasetVisibility
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	id := c.Param("id")
	if _, ok := api.session.Registry.Dataset(id); !ok {
		c.Status(http.StatusNoContent)
		return
	}

	api.session.Registry.SetDatasetVisible(id, *req.Checked)
	view, _ := api.session.Registry.Dataset(id)
	c.JSON(http.StatusOK, view)
}

func (api *serveAPI) ShowAll(c *gin.Context) {
	api.session.Registry.ShowAll()
	c.JSON(http.StatusOK, api.session.Scene.Snapshot())
}

func (api *serveAPI) ClearAll(c *gin.Context) {
	api.session.Registry.ClearAll()
	c.JSON(http.StatusOK, api.session.Scene.Snapshot())
}

func (api *serveAPI) ServeBounds(c *gin.Context) {
	region := api.session.Registry.Bounds()
	if region.IsNone() {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, region.Get())
}

func (api *serveAPI) Fit(c *gin.Context) {
	if !api.session.Loader.Fit() {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, api.session.Scene.Snapshot().Viewport)
}

package shell

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/sartorproj/indexcast/internal/forecast"
	"github.com/sartorproj/indexcast/internal/version"
	"github.com/sartorproj/indexcast/timeseries"
)

const pageTitle = "NSE Index Stock Price Forecast"

type forecastRequest struct {
	Index string `form:"index" binding:"required"`
	Days  int    `form:"days" binding:"required,min=1,max=60"`
}

type page struct {
	Title    string
	Indexes  []string
	Selected string
	Days     int
	MinDays  int
	MaxDays  int
	Error    string
	Result   *pageResult
}

type pageResult struct {
	Heading string
	Chart   template.URL
	Model   string
	Cached  bool
	Rows    []forecast.Row
}

// newPage returns the Idle page state with the index list loaded.
func (server *Server) newPage() *page {
	p := &page{
		Title:   pageTitle,
		Days:    server.opts.DefaultHorizon,
		MinDays: forecast.MinHorizon,
		MaxDays: server.opts.MaxHorizon,
	}
	indexes, err := server.session.Indexes()
	if err != nil {
		p.Error = err.Error()
		return p
	}
	p.Indexes = indexes
	p.Selected = defaultIndex(indexes, server.opts.DefaultIndex)
	return p
}

func defaultIndex(indexes []string, preferred string) string {
	for _, name := range indexes {
		if name == preferred {
			return name
		}
	}
	if len(indexes) > 0 {
		return indexes[0]
	}
	return ""
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, timeseries.ErrIndexNotFound):
		return http.StatusNotFound
	case errors.Is(err, forecast.ErrHorizon):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (server *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", server.newPage())
}

func (server *Server) predict(c *gin.Context) {
	p := server.newPage()

	var req forecastRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(err)
		p.Error = fmt.Sprintf("Invalid request: %v", err)
		c.HTML(http.StatusBadRequest, "index.html", p)
		return
	}
	p.Selected = req.Index
	p.Days = req.Days
	if req.Days > server.opts.MaxHorizon {
		p.Error = fmt.Sprintf("Days must be between %d and %d", forecast.MinHorizon, server.opts.MaxHorizon)
		c.HTML(http.StatusBadRequest, "index.html", p)
		return
	}

	run, err := server.session.Forecast(req.Index, req.Days)
	if err != nil {
		_ = c.Error(err)
		p.Error = err.Error()
		c.HTML(statusFor(err), "index.html", p)
		return
	}

	svg, err := forecast.Chart(run.Series, run.Forecast, forecast.Title(req.Index), server.opts.HistoryPoints)
	if err != nil {
		_ = c.Error(err)
		p.Error = err.Error()
		c.HTML(http.StatusInternalServerError, "index.html", p)
		return
	}

	p.Result = &pageResult{
		Heading: fmt.Sprintf("Forecast for next %d business days", req.Days),
		Chart:   template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)),
		Model:   run.Model.String(),
		Cached:  run.Cached,
		Rows:    run.Forecast.Table(),
	}
	c.HTML(http.StatusOK, "index.html", p)
}

func (server *Server) apiForecast(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if req.Days > server.opts.MaxHorizon {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(errors.Wrapf(forecast.ErrHorizon, "got %d", req.Days)))
		return
	}

	run, err := server.session.Forecast(req.Index, req.Days)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}

	fc := run.Forecast
	c.JSON(http.StatusOK, gin.H{
		"index":          req.Index,
		"model":          run.Model.String(),
		"order":          run.Model.Order.String(),
		"seasonal_order": run.Model.SeasonalOrder.String(),
		"aic":            run.Model.AIC,
		"cached":         run.Cached,
		"forecast":       fc.Table(),
		"lower":          fc.Lower,
		"upper":          fc.Upper,
	})
}

func (server *Server) apiIndexes(c *gin.Context) {
	indexes, err := server.session.Indexes()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexes": indexes})
}

func (server *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.String()})
}

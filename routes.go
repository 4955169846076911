package main

import (
	"fmt"
	"net/http"
	"strconv"

	"paper-trail/models"
	"paper-trail/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError übersetzt die Fehlerart in einen HTTP-Status. Speicherfehler
// werden geloggt, aber nicht an den Aufrufer durchgereicht.
func respondError(c *gin.Context, log *zap.Logger, err error, extra gin.H) {
	kind := services.KindOf(err)
	status := http.StatusInternalServerError
	msg := err.Error()
	switch kind {
	case "invalid":
		status = http.StatusBadRequest
	case "not_found":
		status = http.StatusNotFound
	default:
		kind = "storage"
		msg = "internal error"
		log.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
	}
	body := gin.H{"error": msg, "kind": kind}
	for k, v := range extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(status, body)
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name), "kind": "invalid"})
		return 0, false
	}
	return uint(id), true
}

func includeArchived(c *gin.Context) (bool, bool) {
	v, err := strconv.ParseBool(c.DefaultQuery("includeArchived", "false"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "includeArchived must be a boolean", "kind": "invalid"})
		return false, false
	}
	return v, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "invalid"})
		return false
	}
	return true
}

// respondOutcome schreibt {id, outcome}; bei not-found zusätzlich den Fehler mit 404.
func respondOutcome(c *gin.Context, log *zap.Logger, id uint, outcome services.Outcome, err error) {
	if err != nil {
		extra := gin.H{"id": id}
		if outcome != "" {
			extra["outcome"] = outcome
		}
		respondError(c, log, err, extra)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "outcome": outcome})
}

func setupProjectRoutes(router *gin.Engine, a *app, log *zap.Logger) {
	rg := router.Group("/projects")

	rg.POST("", func(c *gin.Context) {
		var req services.CreateProjectRequest
		if !bindJSON(c, &req) {
			return
		}
		id, err := a.projects.Create(c.Request.Context(), req)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "outcome": services.OutcomeCreated})
	})

	rg.GET("", func(c *gin.Context) {
		archived, ok := includeArchived(c)
		if !ok {
			return
		}
		projects, err := a.projects.List(c.Request.Context(), archived)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, projects)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		project, err := a.projects.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, project)
	})

	rg.POST("/:id/archive", func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		outcome, err := a.lifecycle.ArchiveProject(c.Request.Context(), id)
		respondOutcome(c, log, id, outcome, err)
	})
}

type createRoundBody struct {
	Label     string `json:"label"`
	Objective string `json:"objective"`
}

type logQueryBody struct {
	QueryText  string `json:"query_text"`
	ExecutedAt string `json:"executed_at"`
	Notes      string `json:"notes"`
}

func setupRoundRoutes(router *gin.Engine, a *app, log *zap.Logger) {
	router.POST("/projects/:id/rounds", func(c *gin.Context) {
		projectID, ok := parseID(c, "id")
		if !ok {
			return
		}
		var body createRoundBody
		if !bindJSON(c, &body) {
			return
		}
		id, err := a.rounds.Create(c.Request.Context(), services.CreateRoundRequest{
			ProjectID: projectID,
			Label:     body.Label,
			Objective: body.Objective,
		})
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "outcome": services.OutcomeCreated})
	})

	router.GET("/projects/:id/rounds", func(c *gin.Context) {
		projectID, ok := parseID(c, "id")
		if !ok {
			return
		}
		rounds, err := a.rounds.ListForProject(c.Request.Context(), projectID)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, rounds)
	})

	rg := router.Group("/rounds")

	rg.DELETE("/:id", func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		outcome, err := a.lifecycle.DeleteRound(c.Request.Context(), id)
		respondOutcome(c, log, id, outcome, err)
	})

	rg.POST("/:id/queries", func(c *gin.Context) {
		roundID, ok := parseID(c, "id")
		if !ok {
			return
		}
		var body logQueryBody
		if !bindJSON(c, &body) {
			return
		}
		id, err := a.rounds.LogQuery(c.Request.Context(), services.LogQueryRequest{
			RoundID:    roundID,
			QueryText:  body.QueryText,
			ExecutedAt: body.ExecutedAt,
			Notes:      body.Notes,
		})
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "outcome": services.OutcomeCreated})
	})

	rg.GET("/:id/queries", func(c *gin.Context) {
		roundID, ok := parseID(c, "id")
		if !ok {
			return
		}
		queries, err := a.rounds.ListQueries(c.Request.Context(), roundID)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, queries)
	})

	rg.POST("/:id/sources/:sid/link", func(c *gin.Context) {
		roundID, ok := parseID(c, "id")
		if !ok {
			return
		}
		sourceID, ok := parseID(c, "sid")
		if !ok {
			return
		}
		outcome, err := a.linker.Link(c.Request.Context(), roundID, sourceID)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"outcome": outcome})
	})

	rg.DELETE("/:id/sources/:sid/link", func(c *gin.Context) {
		roundID, ok := parseID(c, "id")
		if !ok {
			return
		}
		sourceID, ok := parseID(c, "sid")
		if !ok {
			return
		}
		outcome, err := a.linker.Unlink(c.Request.Context(), roundID, sourceID)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"outcome": outcome})
	})

	rg.GET("/:id/sources", func(c *gin.Context) {
		roundID, ok := parseID(c, "id")
		if !ok {
			return
		}
		archived, ok := includeArchived(c)
		if !ok {
			return
		}
		sources, err := a.linker.ListForRound(c.Request.Context(), roundID, archived)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, sources)
	})
}

type acquireBody struct {
	RoundID    uint              `json:"round_id"`
	URL        string            `json:"url"`
	SourceType models.SourceType `json:"source_type"`
	services.SourceMetadata
}

func setupSourceRoutes(router *gin.Engine, a *app, log *zap.Logger) {
	router.POST("/projects/:id/sources", func(c *gin.Context) {
		projectID, ok := parseID(c, "id")
		if !ok {
			return
		}
		var body acquireBody
		if !bindJSON(c, &body) {
			return
		}
		res, err := a.sources.Acquire(c.Request.Context(), services.AcquireRequest{
			ProjectID: projectID,
			RoundID:   body.RoundID,
			URL:       body.URL,
			Type:      body.SourceType,
			Metadata:  body.SourceMetadata,
		})
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		c.JSON(status, res)
	})

	router.GET("/projects/:id/sources", func(c *gin.Context) {
		projectID, ok := parseID(c, "id")
		if !ok {
			return
		}
		archived, ok := includeArchived(c)
		if !ok {
			return
		}
		sources, err := a.sources.ListForProject(c.Request.Context(), projectID, archived)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, sources)
	})

	rg := router.Group("/sources")

	rg.GET("/:id", func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		source, err := a.sources.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, source)
	})

	rg.POST("/:id/archive", func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		outcome, err := a.lifecycle.ArchiveSource(c.Request.Context(), id)
		respondOutcome(c, log, id, outcome, err)
	})
}

type captureBody struct {
	ExtractType models.ExtractType `json:"extract_type"`
	ExtractText string             `json:"extract_text"`
	ContextText string             `json:"context_text"`
	LocationRef string             `json:"location_ref"`
}

func setupExtractRoutes(router *gin.Engine, a *app, log *zap.Logger) {
	router.POST("/sources/:id/extracts", func(c *gin.Context) {
		sourceID, ok := parseID(c, "id")
		if !ok {
			return
		}
		var body captureBody
		if !bindJSON(c, &body) {
			return
		}
		id, err := a.extracts.Capture(c.Request.Context(), services.CaptureRequest{
			SourceID: sourceID,
			Type:     body.ExtractType,
			Text:     body.ExtractText,
			Context:  body.ContextText,
			Location: body.LocationRef,
		})
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "outcome": services.OutcomeCreated})
	})

	router.GET("/sources/:id/extracts", func(c *gin.Context) {
		sourceID, ok := parseID(c, "id")
		if !ok {
			return
		}
		extracts, err := a.extracts.ListForSource(c.Request.Context(), sourceID)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, extracts)
	})

	router.DELETE("/extracts/:id", func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		outcome, err := a.lifecycle.DeleteExtract(c.Request.Context(), id)
		respondOutcome(c, log, id, outcome, err)
	})
}

type recordBody struct {
	EvidenceType models.EvidenceType `json:"evidence_type"`
	EvidenceText string              `json:"evidence_text"`
	ContextText  string              `json:"context_text"`
	LocationRef  string              `json:"location_ref"`
	WhyRelevant  string              `json:"why_relevant"`
	ExtractID    *uint               `json:"extract_id"`
}

func setupEvidenceRoutes(router *gin.Engine, a *app, log *zap.Logger) {
	router.POST("/sources/:id/evidence", func(c *gin.Context) {
		sourceID, ok := parseID(c, "id")
		if !ok {
			return
		}
		var body recordBody
		if !bindJSON(c, &body) {
			return
		}
		id, err := a.evidence.Record(c.Request.Context(), services.RecordRequest{
			SourceID:    sourceID,
			Type:        body.EvidenceType,
			Text:        body.EvidenceText,
			Context:     body.ContextText,
			Location:    body.LocationRef,
			WhyRelevant: body.WhyRelevant,
			ExtractID:   body.ExtractID,
		})
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "outcome": services.OutcomeCreated})
	})

	router.GET("/sources/:id/evidence", func(c *gin.Context) {
		sourceID, ok := parseID(c, "id")
		if !ok {
			return
		}
		evidence, err := a.evidence.ListForSource(c.Request.Context(), sourceID)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, evidence)
	})

	router.GET("/projects/:id/evidence", func(c *gin.Context) {
		projectID, ok := parseID(c, "id")
		if !ok {
			return
		}
		evidence, err := a.evidence.ListForProject(c.Request.Context(), projectID)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, evidence)
	})

	router.DELETE("/evidence/:id", func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		outcome, err := a.lifecycle.DeleteEvidence(c.Request.Context(), id)
		respondOutcome(c, log, id, outcome, err)
	})
}

func setupReportRoutes(router *gin.Engine, a *app, log *zap.Logger) {
	router.GET("/projects/:id/report", func(c *gin.Context) {
		projectID, ok := parseID(c, "id")
		if !ok {
			return
		}
		doc, err := a.reports.Assemble(c.Request.Context(), projectID)
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	router.POST("/projects/:id/export", func(c *gin.Context) {
		projectID, ok := parseID(c, "id")
		if !ok {
			return
		}
		pdf, err := a.exporter.Export(c.Request.Context(), projectID, c.Query("style"))
		if err != nil {
			respondError(c, log, err, nil)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="project-%d.pdf"`, projectID))
		c.Data(http.StatusOK, "application/pdf", pdf)
	})
}

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aroucaleo/componente-B-C/internal/ingestion"
	"github.com/aroucaleo/componente-B-C/internal/models"
	"github.com/aroucaleo/componente-B-C/internal/repository"
)

// Response messages, kept byte-for-byte from the original service. The
// "mesage" key is a known quirk preserved for wire compatibility.
const (
	msgDuplicateNome = "Uma crise do mesmo nome já foi salva na base :/"
	msgSaveFailed    = "Não foi possível salvar uma nova crise :/"
	msgUpdateFailed  = "Não foi possível salvar novo item :/"
	msgNotFound      = "Crise não encontrado na base :/"
	msgDeleted       = "Crise removida"
)

type Handler struct {
	repo     repository.CriseRepository
	ingestor *ingestion.Ingestor
}

func NewHandler(repo repository.CriseRepository, ingestor *ingestion.Ingestor) *Handler {
	return &Handler{
		repo:     repo,
		ingestor: ingestor,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.home)
	r.GET("/openapi", h.openapi)
	r.POST("/crise", h.createCrise)
	r.GET("/crises", h.listCrises)
	r.DELETE("/crise", h.deleteCrise)
	r.PUT("/updateCrise", h.updateCrise)
	r.GET("/crisesapi", h.crisesFromAPI)
	r.GET("/health", h.health)
}

func (h *Handler) home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/openapi")
}

type criseForm struct {
	Nome      string `form:"nome" binding:"required"`
	DataCrise string `form:"data_crise" binding:"required"`
	Prazo     int    `form:"prazo" binding:"required"`
	Detalhes  string `form:"detalhes" binding:"required"`
}

func (h *Handler) createCrise(c *gin.Context) {
	var form criseForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mesage": msgSaveFailed})
		return
	}

	crise := &models.Crise{
		Nome:      form.Nome,
		DataCrise: form.DataCrise,
		Prazo:     form.Prazo,
		Detalhes:  form.Detalhes,
		CreatedAt: time.Now(),
	}

	slog.Debug("adding crise", "nome", crise.Nome)

	err := h.repo.Add(c.Request.Context(), crise)
	if errors.Is(err, repository.ErrDuplicateNome) {
		slog.Warn("duplicate nome on create", "nome", crise.Nome)
		c.JSON(http.StatusConflict, gin.H{"mesage": msgDuplicateNome})
		return
	}
	if err != nil {
		slog.Warn("error adding crise", "nome", crise.Nome, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"mesage": msgSaveFailed})
		return
	}

	c.JSON(http.StatusOK, toCriseView(crise))
}

func (h *Handler) listCrises(c *gin.Context) {
	crises, err := h.repo.ListByPrazo(c.Request.Context())
	if err != nil {
		slog.Error("error listing crises", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"mesage": msgSaveFailed})
		return
	}

	c.JSON(http.StatusOK, criseListView{Crises: toCriseViews(crises)})
}

func (h *Handler) deleteCrise(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mesage": msgNotFound})
		return
	}

	slog.Debug("deleting crise", "id", id)

	err = h.repo.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Warn("crise not found on delete", "id", id)
		c.JSON(http.StatusNotFound, gin.H{"mesage": msgNotFound})
		return
	}
	if err != nil {
		slog.Error("error deleting crise", "id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"mesage": msgSaveFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mesage": msgDeleted, "id": id})
}

type updateCriseForm struct {
	ID        int64  `form:"id" binding:"required"`
	Nome      string `form:"nome"`
	DataCrise string `form:"data_crise"`
	Prazo     int    `form:"prazo"`
	Detalhes  string `form:"detalhes"`
}

func (h *Handler) updateCrise(c *gin.Context) {
	var form updateCriseForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mesage": msgUpdateFailed})
		return
	}

	ctx := c.Request.Context()

	crise, err := h.repo.GetByID(ctx, form.ID)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Warn("crise not found on update", "id", form.ID)
		c.JSON(http.StatusNotFound, gin.H{"mesage": msgNotFound})
		return
	}
	if err != nil {
		slog.Error("error fetching crise", "id", form.ID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"mesage": msgUpdateFailed})
		return
	}

	// Zero values mean "leave unchanged", matching the original service:
	// an empty string or prazo=0 cannot be written through this endpoint.
	if form.Nome != "" {
		crise.Nome = form.Nome
	}
	if form.DataCrise != "" {
		crise.DataCrise = form.DataCrise
	}
	if form.Detalhes != "" {
		crise.Detalhes = form.Detalhes
	}
	if form.Prazo != 0 {
		crise.Prazo = form.Prazo
	}

	err = h.repo.Update(ctx, crise)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"mesage": msgNotFound})
		return
	}
	if err != nil {
		slog.Warn("error updating crise", "id", crise.ID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"mesage": msgUpdateFailed})
		return
	}

	c.JSON(http.StatusOK, toCriseView(crise))
}

// crisesFromAPI attempts one synchronous Cobli ingestion and then returns
// the full list regardless of the ingestion outcome.
func (h *Handler) crisesFromAPI(c *gin.Context) {
	ctx := c.Request.Context()

	if h.ingestor != nil {
		crise, err := h.ingestor.FetchAndStoreOne(ctx)
		if err != nil {
			slog.Warn("cobli ingestion failed", "error", err)
		} else {
			slog.Info("crise ingested from cobli", "id", crise.ID, "nome", crise.Nome)
		}
	}

	crises, err := h.repo.ListByNome(ctx)
	if err != nil {
		slog.Error("error listing crises", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"mesage": msgSaveFailed})
		return
	}

	c.JSON(http.StatusOK, criseAPIListView{Crises: toCriseViews(crises)})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

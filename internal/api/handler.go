package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/manimatic/manimatic-api/internal/domain/entity"
	"github.com/manimatic/manimatic-api/internal/domain/port"
	"github.com/manimatic/manimatic-api/internal/usecase"
	"go.uber.org/zap"
)

// videoFilePattern restricts served filenames to job artifacts. Anything
// else, path traversal included, is a plain 404.
var videoFilePattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.mp4$`)

type Handler struct {
	uc        *usecase.GenerateAnimationUseCase
	repo      port.JobRepository
	videosDir string
	logger    *zap.Logger
}

func NewHandler(uc *usecase.GenerateAnimationUseCase, repo port.JobRepository, videosDir string, logger *zap.Logger) *Handler {
	return &Handler{uc: uc, repo: repo, videosDir: videosDir, logger: logger}
}

type generateResponse struct {
	VideoID  string `json:"video_id"`
	VideoURL string `json:"video_url"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

type statusResponse struct {
	VideoID     string     `json:"video_id"`
	User        string     `json:"user,omitempty"`
	Status      string     `json:"status"`
	VideoURL    string     `json:"video_url,omitempty"`
	FailureKind string     `json:"failure_kind,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Generate accepts a prompt, records the job, and kicks off the pipeline in
// the background. The response tells the caller where to poll and where the
// finished video will appear.
func (h *Handler) Generate(c *gin.Context) {
	var req entity.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	job, err := h.uc.Submit(c.Request.Context(), req, currentUser(c))
	if err != nil {
		if entity.KindOf(err, "") == entity.FailInvalidRequest {
			c.JSON(http.StatusBadRequest, gin.H{"error": entity.PublicMessage(err)})
			return
		}
		h.logger.Error("failed to accept job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to accept request"})
		return
	}

	// The pipeline outlives the HTTP request.
	go h.uc.Execute(context.Background(), job)

	c.JSON(http.StatusAccepted, generateResponse{
		VideoID:  job.ID.String(),
		VideoURL: "/videos/" + job.ID.String() + ".mp4",
		Status:   "processing",
		Message:  "video generation started, poll /video/" + job.ID.String() + "/status",
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "manimatic-api"})
}

func (h *Handler) Status(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	job, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, port.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		h.logger.Error("failed to load job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
		return
	}

	c.JSON(http.StatusOK, toStatusResponse(job))
}

// ServeVideo streams a finished artifact. The job record is consulted so an
// in-flight job's output is not served mid-write.
func (h *Handler) ServeVideo(c *gin.Context) {
	name := c.Param("file")
	if !videoFilePattern.MatchString(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}

	id, err := uuid.Parse(strings.TrimSuffix(name, ".mp4"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}
	if job, err := h.repo.FindByID(c.Request.Context(), id); err == nil && job.Status != entity.JobStatusDone {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}

	path := filepath.Join(h.videosDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}

	c.Header("Content-Type", "video/mp4")
	c.File(path)
}

func (h *Handler) ListVideos(c *gin.Context) {
	jobs, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list videos"})
		return
	}

	out := make([]statusResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toStatusResponse(job))
	}
	c.JSON(http.StatusOK, gin.H{"videos": out, "count": len(out)})
}

// ListUserVideos lists the jobs submitted by one named user. Anonymous jobs
// are reachable only through the global listing.
func (h *Handler) ListUserVideos(c *gin.Context) {
	user := c.Param("user")
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user name is required"})
		return
	}

	jobs, err := h.repo.ListByUser(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("failed to list jobs by user", zap.Error(err), zap.String("user", user))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list videos"})
		return
	}

	out := make([]statusResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toStatusResponse(job))
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "videos": out, "count": len(out)})
}

func toStatusResponse(job *entity.GenerationJob) statusResponse {
	resp := statusResponse{
		VideoID:     job.ID.String(),
		User:        job.User,
		Status:      string(job.Status),
		FailureKind: string(job.FailureKind),
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
		CompletedAt: job.CompletedAt,
	}
	if job.Status == entity.JobStatusDone {
		resp.VideoURL = "/videos/" + job.ID.String() + ".mp4"
	}
	return resp
}

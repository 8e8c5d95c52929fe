package handlers

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"csv_manager_backend/internal/repositories"
	"csv_manager_backend/internal/services"
	"csv_manager_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const uploadsDir = "uploads"

// SessionHandler holds the session service and the file locations it may open.
type SessionHandler struct {
	sessionService services.SessionService
	dataDir        string
	defaultFile    string
	maxUploadBytes int64
}

// NewSessionHandler creates a new SessionHandler. Paths handed to the service
// are always resolved here, inside dataDir.
func NewSessionHandler(ss services.SessionService, dataDir, defaultFile string, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{
		sessionService: ss,
		dataDir:        dataDir,
		defaultFile:    defaultFile,
		maxUploadBytes: maxUploadBytes,
	}
}

type openSessionRequest struct {
	File string `json:"file"`
}

// resolveDataFile maps an optional client-chosen name onto a file in dataDir.
func (h *SessionHandler) resolveDataFile(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return filepath.Join(h.dataDir, h.defaultFile), nil
	}
	clean := utils.SanitizeFileName(name)
	if clean == "" || !strings.EqualFold(filepath.Ext(clean), ".csv") {
		return "", fmt.Errorf("file name %q must be a .csv file name", name)
	}
	return filepath.Join(h.dataDir, clean), nil
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid session ID format.", err.Error()))
		return uuid.Nil, false
	}
	return id, true
}

// respondSessionError maps service and repository errors to API errors.
func respondSessionError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": error from sessionService")
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Session not found.", err.Error()))
	case errors.Is(err, services.ErrDateFormat), errors.Is(err, services.ErrRecordValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, repositories.ErrRecordFileCorrupt):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, "The record file is not a valid CSV file.", err.Error()))
	case errors.Is(err, repositories.ErrRecordFileUnreadable):
		utils.RespondInternal(c, "The record file could not be read.")
	case errors.Is(err, repositories.ErrRecordFileWrite):
		utils.RespondInternal(c, "The record file could not be written. Your changes are kept; try saving again.")
	default:
		utils.RespondInternal(c, "Failed to "+action+".")
	}
}

// OpenSession loads the default data file, or a named file in the data
// directory, into a new session.
func (h *SessionHandler) OpenSession(c *gin.Context) {
	var req openSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
			return
		}
	}

	path, err := h.resolveDataFile(req.File)
	if err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	session, err := h.sessionService.Open(path)
	if err != nil {
		respondSessionError(c, err, "open session")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// UploadSession stores an uploaded CSV in the data directory and opens it.
// The upload is staged next to its destination and only replaces an existing
// file of the same name once it parses.
func (h *SessionHandler) UploadSession(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		if c.Request.ContentLength > h.maxUploadBytes {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusRequestEntityTooLarge, utils.ErrCodePayloadTooLarge, "Uploaded file is too large.", fmt.Sprintf("limit is %d bytes", h.maxUploadBytes)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusRequestEntityTooLarge, utils.ErrCodePayloadTooLarge, "Uploaded file is too large.", err.Error()))
			return
		}
		utils.RespondValidationFailed(c, "a CSV file must be sent in the 'file' form field")
		return
	}

	clean := utils.SanitizeFileName(fileHeader.Filename)
	if clean == "" || !strings.EqualFold(filepath.Ext(clean), ".csv") {
		utils.RespondValidationFailed(c, "only .csv files can be uploaded")
		return
	}
	dest := filepath.Join(h.dataDir, uploadsDir, clean)
	staged, err := stageUpload(fileHeader, filepath.Dir(dest), clean)
	if err != nil {
		utils.LogError(err, "UploadSession: failed to store upload")
		utils.RespondInternal(c, "Failed to store uploaded file.")
		return
	}

	session, err := h.sessionService.OpenStaged(staged, dest)
	if err != nil {
		if rmErr := os.Remove(staged); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			utils.LogError(rmErr, "UploadSession: failed to remove rejected upload")
		}
		respondSessionError(c, err, "open uploaded file")
		return
	}

	summary, err := h.sessionService.Summary(session.ID)
	if err != nil {
		respondSessionError(c, err, "summarize upload")
		return
	}
	summary.SizeBytes = fileHeader.Size

	c.JSON(http.StatusCreated, gin.H{
		"session":   session,
		"summary":   summary,
		"file_name": clean,
	})
}

// GetSession returns the session with its full table.
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	session, err := h.sessionService.Get(id)
	if err != nil {
		respondSessionError(c, err, "fetch session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetRecords returns the table rows, filtered by the optional search term.
// An empty term returns every row.
func (h *SessionHandler) GetRecords(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	term := c.Query("search")
	table, err := h.sessionService.Search(id, term)
	if err != nil {
		respondSessionError(c, err, "search records")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"columns": table.Columns,
		"rows":    table.Rows,
		"total":   len(table.Rows),
		"search":  term,
	})
}

// AppendRecord adds one record from the entry form (JSON or form-encoded).
func (h *SessionHandler) AppendRecord(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	var req services.AppendRecordRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.LogError(err, "AppendRecord: Failed to bind request")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	session, err := h.sessionService.AppendRecord(id, req)
	if err != nil {
		respondSessionError(c, err, "append record")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// ReplaceRecords stores the edited grid as the new row set.
func (h *SessionHandler) ReplaceRecords(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	var req services.ReplaceRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "ReplaceRecords: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	session, err := h.sessionService.ReplaceRows(id, req)
	if err != nil {
		respondSessionError(c, err, "replace records")
		return
	}
	c.JSON(http.StatusOK, session)
}

// SaveSession writes the table back to its file.
func (h *SessionHandler) SaveSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	session, err := h.sessionService.Save(c.Request.Context(), id)
	if err != nil {
		respondSessionError(c, err, "save session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// ReloadSession drops unsaved edits and rereads the file.
func (h *SessionHandler) ReloadSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	session, err := h.sessionService.Reload(id)
	if err != nil {
		respondSessionError(c, err, "reload session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// ExportSession streams the same CSV bytes a save would write.
func (h *SessionHandler) ExportSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	session, err := h.sessionService.Get(id)
	if err != nil {
		respondSessionError(c, err, "export session")
		return
	}
	data, err := h.sessionService.Export(id)
	if err != nil {
		respondSessionError(c, err, "export session")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(session.Path)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// GetSummary returns row, column and per-column fill counts.
func (h *SessionHandler) GetSummary(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	summary, err := h.sessionService.Summary(id)
	if err != nil {
		respondSessionError(c, err, "summarize session")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CloseSession forgets the session. Unsaved edits are discarded.
func (h *SessionHandler) CloseSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	if err := h.sessionService.Close(id); err != nil {
		respondSessionError(c, err, "close session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}

// stageUpload copies the uploaded file into a temporary file inside dir and
// returns its path.
func stageUpload(fh *multipart.FileHeader, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating uploads directory: %w", err)
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dir, "."+name+".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating staging file: %w", err)
	}
	_, copyErr := io.Copy(tmp, src)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing staging file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("setting staging file mode: %w", err)
	}
	return tmp.Name(), nil
}

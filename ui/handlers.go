package ui

import (
	stderrors "errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"brineviz/domain/core"
	"brineviz/internal/errors"
	"brineviz/internal/normalize"
	"brineviz/internal/profile"
	"brineviz/internal/session"
	"brineviz/internal/views"

	"github.com/gin-gonic/gin"
)

var validExtensions = []string{".xlsx", ".xlsm", ".xls", ".csv"}

var validMimeTypes = []string{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", // .xlsx
	"application/vnd.ms-excel", // .xls
	"text/csv",
	"application/csv",
	"text/plain", // Some CSV files might be detected as plain text
}

// handleFileUpload accepts a spreadsheet upload and opens a session for it
func (s *Server) handleFileUpload(c *gin.Context) {
	log.Printf("[handleFileUpload] Starting file upload process")

	file, header, err := c.Request.FormFile("dataset")
	if err != nil {
		log.Printf("[handleFileUpload] FAILED - No file uploaded: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	if header.Size > s.cfg.Upload.MaxBytes {
		log.Printf("[handleFileUpload] FAILED - File too large: %d bytes", header.Size)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(
			"File size (%.1f MB) exceeds the %d MB limit",
			float64(header.Size)/(1024*1024), s.cfg.Upload.MaxBytes/(1024*1024))})
		return
	}

	filename := header.Filename
	if !hasValidExtension(filename) {
		log.Printf("[handleFileUpload] FAILED - Invalid file extension: %s", filename)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only Excel (.xlsx, .xls) and CSV (.csv) files are allowed"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !isValidMimeType(contentType) {
		log.Printf("[handleFileUpload] WARNING - Unexpected MIME type: %s for file: %s", contentType, filename)
		// Don't reject - some browsers misreport spreadsheet MIME types
	}

	// Parsing is the memory-heavy step; bound how many run at once.
	if err := s.parseSem.Acquire(c.Request.Context(), 1); err != nil {
		log.Printf("[handleFileUpload] FAILED - Parse slot acquisition: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server busy, retry the upload"})
		return
	}
	sheets, sheetNames, loadErr := s.loader.Load(file, filename)
	s.parseSem.Release(1)
	if loadErr != nil {
		log.Printf("[handleFileUpload] FAILED - Load failed: %v", loadErr)
		s.respondError(c, loadErr)
		return
	}

	sess := s.sessions.Create(filename, sheets, sheetNames, s.cfg.NormalizeOptions())

	// Auto-select the first sheet like the sheet picker would. A sheet that
	// fails to normalize keeps the session usable for picking another one.
	response := gin.H{
		"session_id": sess.ID.String(),
		"filename":   filename,
		"sheets":     sheetNames,
	}
	sess, err = s.sessions.SelectSheet(sess.ID, sheetNames[0])
	if err != nil {
		log.Printf("[handleFileUpload] WARNING - Default sheet %q failed to normalize: %v", sheetNames[0], err)
		response["normalize_error"] = fmt.Sprintf("sheet %q: %v", sheetNames[0], err)
	} else {
		response["active_sheet"] = sess.Active
		response["parameters"] = sess.Canonical.Parameters()
		response["date_count"] = len(sess.Canonical.Dates)
	}

	c.JSON(http.StatusOK, response)
}

// handleSessionInfo reports a session's sheets, active sheet, and selections
func (s *Server) handleSessionInfo(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	info := gin.H{
		"session_id":   sess.ID.String(),
		"filename":     sess.Filename,
		"sheets":       sess.SheetNames,
		"active_sheet": sess.Active,
		"options":      sess.Options,
		"selections":   sess.Selections,
	}
	if sess.Canonical != nil {
		info["parameters"] = sess.Canonical.Parameters()
		info["dates"] = sess.Canonical.Dates
	}
	c.JSON(http.StatusOK, info)
}

// handleSelectSheet switches the active sheet and renormalizes it
func (s *Server) handleSelectSheet(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var req struct {
		SheetName string `json:"sheet_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	sess, err := s.sessions.SelectSheet(sess.ID, req.SheetName)
	if err != nil {
		log.Printf("[handleSelectSheet] FAILED - Sheet %q: %v", req.SheetName, err)
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active_sheet": sess.Active,
		"parameters":   sess.Canonical.Parameters(),
		"dates":        sess.Canonical.Dates,
	})
}

// handleSetOptions changes the cleaning policies and renormalizes
func (s *Server) handleSetOptions(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var req normalize.Options
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": errors.CodeInvalidInput})
		return
	}

	sess, err := s.sessions.SetOptions(sess.ID, req)
	if err != nil {
		log.Printf("[handleSetOptions] FAILED - %v", err)
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"options": sess.Options})
}

// handleCleanedTable returns the canonical table for the cleaned-data preview
func (s *Server) handleCleanedTable(c *gin.Context) {
	sess, ok := s.requireCanonical(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Canonical)
}

// handleSummary returns per-parameter summary statistics
func (s *Server) handleSummary(c *gin.Context) {
	sess, ok := s.requireCanonical(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sheet":      sess.Canonical.Sheet,
		"parameters": profile.Summarize(sess.Canonical),
	})
}

// handleScatterView builds the scatter projection for two parameters
func (s *Server) handleScatterView(c *gin.Context) {
	sess, ok := s.requireCanonical(c)
	if !ok {
		return
	}

	paramX := c.Query("x")
	paramY := c.Query("y")
	if paramX == "" || paramY == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameters x and y are required"})
		return
	}

	view, err := views.Scatter(sess.Canonical, paramX, paramY)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.sessions.UpdateSelections(sess.ID, func(sel *session.Selections) {
		sel.ScatterX = paramX
		sel.ScatterY = paramY
	})
	c.JSON(http.StatusOK, view)
}

// handleTimeSeriesView builds the multi-line time-series projection
func (s *Server) handleTimeSeriesView(c *gin.Context) {
	sess, ok := s.requireCanonical(c)
	if !ok {
		return
	}

	selected := splitParams(c.Query("params"))
	view, err := views.TimeSeries(sess.Canonical, selected)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.sessions.UpdateSelections(sess.ID, func(sel *session.Selections) {
		sel.TimeSeriesParams = selected
	})
	c.JSON(http.StatusOK, view)
}

// handleRatioView builds the per-date ratio projection
func (s *Server) handleRatioView(c *gin.Context) {
	sess, ok := s.requireCanonical(c)
	if !ok {
		return
	}

	numerator := c.Query("numerator")
	denominator := c.Query("denominator")
	if numerator == "" || denominator == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameters numerator and denominator are required"})
		return
	}

	view, err := views.Ratio(sess.Canonical, numerator, denominator)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.sessions.UpdateSelections(sess.ID, func(sel *session.Selections) {
		sel.RatioNumerator = numerator
		sel.RatioDenominator = denominator
	})
	c.JSON(http.StatusOK, view)
}

// lookupSession resolves the :id path parameter, responding on failure
func (s *Server) lookupSession(c *gin.Context) (*session.Session, bool) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return nil, false
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return sess, true
}

// requireCanonical resolves the session and insists a sheet has been normalized
func (s *Server) requireCanonical(c *gin.Context) (*session.Session, bool) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return nil, false
	}
	if sess.Canonical == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "No sheet has been normalized yet - select a sheet first"})
		return nil, false
	}
	return sess, true
}

// respondError maps domain errors onto HTTP statuses and stable error codes
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := errors.CodeInternalError

	switch {
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
		code = notFoundCode(err)
	case core.IsMalformedCellError(err):
		status = http.StatusUnprocessableEntity
		code = errors.CodeMalformedCell
	case isErr(err, core.ErrUnsupportedFormat):
		status = http.StatusBadRequest
		code = errors.CodeUnsupportedFormat
	case isErr(err, core.ErrLoadFailed):
		status = http.StatusBadRequest
		code = errors.CodeLoadError
	case isErr(err, core.ErrEmptyTable), isErr(err, core.ErrNoSelection):
		status = http.StatusUnprocessableEntity
		code = errors.CodeInvalidInput
	case errors.IsAppError(err):
		status = http.StatusBadRequest
		code = errors.GetCode(err)
	}

	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func notFoundCode(err error) string {
	switch {
	case isErr(err, core.ErrSessionNotFound):
		return errors.CodeSessionNotFound
	case isErr(err, core.ErrSheetNotFound):
		return errors.CodeSheetNotFound
	case isErr(err, core.ErrParameterNotFound):
		return errors.CodeParameterNotFound
	default:
		return errors.CodeSessionNotFound
	}
}

func isErr(err, target error) bool {
	return stderrors.Is(err, target)
}

func hasValidExtension(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range validExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isValidMimeType(contentType string) bool {
	for _, mimeType := range validMimeTypes {
		if contentType == mimeType {
			return true
		}
	}
	return strings.Contains(contentType, "excel") || strings.Contains(contentType, "csv")
}

func splitParams(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	params := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			params = append(params, p)
		}
	}
	return params
}

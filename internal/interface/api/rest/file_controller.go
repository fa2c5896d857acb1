package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-manager-api/internal/application/ports"
	"file-manager-api/internal/domain/storedfile"
	"file-manager-api/internal/domain/userlink"
	"file-manager-api/internal/infrastructure/jwt"
	dto "file-manager-api/internal/interface/api/rest/dto/file"
	"file-manager-api/internal/interface/api/rest/middleware"
	"file-manager-api/internal/interface/api/rest/validator"
)

// 10MB
const maxSize = int64(10 << 20)

type FileController struct {
	fileService ports.FileService
	logger      *zap.Logger
}

func NewFileController(
	r *gin.Engine,
	fileService ports.FileService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *FileController {
	fc := &FileController{
		fileService: fileService,
		logger:      logger,
	}

	r.GET(RouteFiles, fc.ListUserFilesHandler)
	r.GET(RouteFile, fc.FileDetailHandler)
	r.GET(RouteFilesSummary, fc.UserFilesSummaryHandler)
	r.GET(RouteFileDownload, fc.DownloadFileHandler)
	r.PUT(RouteFilesUpload, middleware.AuthMiddleware(jwtService), fc.UploadFileHandler)
	r.DELETE(RouteFile, middleware.AuthMiddleware(jwtService), fc.UnlinkFileHandler)

	return fc
}

func (fc *FileController) UploadFileHandler(c *gin.Context) {
	userID, err := validator.ValidateUserID(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, fileUUID := validator.IsUUID(c.Param("file_uuid"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_uuid must be a valid UUID"})
		return
	}
	ext, err := validator.NormalizeExtension(c.Param("file_extension"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	origin := c.Param("origin")
	if svc := c.GetString(middleware.CtxService); svc != origin {
		c.JSON(http.StatusForbidden, gin.H{"error": "token service does not match origin"})
		return
	}

	if c.Request.ContentLength > maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
		return
	}
	if len(payload) == 0 || int64(len(payload)) > maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large or empty"})
		return
	}

	f, err := fc.fileService.BeginUpload(c.Request.Context(), userlink.UserID(userID), origin, fileUUID, ext, payload)
	if err != nil {
		fc.respondError(c, "BeginUpload() error", err)
		return
	}

	c.JSON(http.StatusAccepted, dto.ToResponseStoredFile(*f))
}

func (fc *FileController) DownloadFileHandler(c *gin.Context) {
	ok, fileUUID := validator.IsUUID(c.Query("file_uuid"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_uuid must be a valid UUID"})
		return
	}

	data, filename, err := fc.fileService.Download(c.Request.Context(), fileUUID)
	if err != nil {
		fc.respondError(c, "Download() error", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (fc *FileController) UnlinkFileHandler(c *gin.Context) {
	userID, err := validator.ValidateUserID(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, fileUUID := validator.IsUUID(c.Query("file_uuid"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_uuid must be a valid UUID"})
		return
	}
	ext, err := validator.NormalizeExtension(c.Query("file_extension"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err = fc.fileService.Unlink(c.Request.Context(), userlink.UserID(userID), fileUUID, ext); err != nil {
		// an already-unlinked file is reported, not failed: the outcome
		// the caller wanted already holds
		if errors.Is(err, userlink.ErrAlreadyUnlinked) {
			c.JSON(http.StatusOK, gin.H{"detail": "file has already been unlinked"})
			return
		}
		fc.respondError(c, "Unlink() error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "file unlinked"})
}

func (fc *FileController) FileDetailHandler(c *gin.Context) {
	ok, fileUUID := validator.IsUUID(c.Query("file_uuid"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_uuid must be a valid UUID"})
		return
	}

	f, err := fc.fileService.FileDetail(c.Request.Context(), fileUUID)
	if err != nil {
		fc.respondError(c, "FileDetail() error", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseStoredFile(*f))
}

func (fc *FileController) ListUserFilesHandler(c *gin.Context) {
	userID, err := validator.ValidateUserID(c.Query("user"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter, err := fc.listFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files, err := fc.fileService.FindUserFiles(c.Request.Context(), userlink.UserID(userID), filter)
	if err != nil {
		fc.respondError(c, "FindUserFiles() error", err)
		return
	}

	c.JSON(http.StatusOK, dto.ResponseData{
		UserID: userID,
		Files:  dto.ToResponseUserFiles(files),
	})
}

func (fc *FileController) UserFilesSummaryHandler(c *gin.Context) {
	userID, err := validator.ValidateUserID(c.Query("user"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := fc.fileService.UserFilesSummary(c.Request.Context(), userlink.UserID(userID))
	if err != nil {
		fc.respondError(c, "UserFilesSummary() error", err)
		return
	}

	c.JSON(http.StatusOK, dto.SummaryResponse{
		UserID:          userID,
		TotalFilesCount: count,
	})
}

func (fc *FileController) listFilter(c *gin.Context) (userlink.Filter, error) {
	var f userlink.Filter
	var err error

	if f.Page, err = validator.ValidatePage(c.Query("page")); err != nil {
		return f, err
	}
	if f.PageSize, err = validator.ValidatePageSize(c.Query("page_size")); err != nil {
		return f, err
	}
	if f.Status, err = validator.ParseStatus(c.Query("status")); err != nil {
		return f, err
	}
	if f.Start, err = validator.ParseTime(c.Query("start")); err != nil {
		return f, err
	}
	if f.End, err = validator.ParseTime(c.Query("end")); err != nil {
		return f, err
	}
	f.Extension = c.Query("file_extension")
	f.Origin = c.Query("service_name")

	return f, nil
}

// respondError maps domain failures onto distinct status codes so clients
// can tell "try later" from "gone forever".
func (fc *FileController) respondError(c *gin.Context, logMsg string, err error) {
	switch {
	case errors.Is(err, storedfile.ErrInvalidExtension),
		errors.Is(err, storedfile.ErrInvalidOrigin):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storedfile.ErrDuplicateFile):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, storedfile.ErrObjectNotFound),
		errors.Is(err, userlink.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, storedfile.ErrFileNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, storedfile.ErrFileFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, storedfile.ErrFileUnlinked):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, storedfile.ErrRetrievalExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		fc.logger.Error(logMsg, zap.Error(err))
	}
}

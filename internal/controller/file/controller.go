// Package file provides HTTP handlers for file-related operations.
package file

import (
	"DocVault-backend/internal/database"
	"DocVault-backend/internal/model"
	"DocVault-backend/internal/storage"
	"DocVault-backend/internal/utilities"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FileController handles upload, dashboard, download and delete endpoints.
// Metadata goes through DB, bytes through Storage; the two writes are not
// atomic, a crash between them leaves an orphaned stored file.
type FileController struct {
	DB                *database.DBinstanceStruct
	Storage           storage.Backend
	AllowedExtensions []string
}

// NewFileController creates a new instance of FileController
func NewFileController(db *database.DBinstanceStruct, store storage.Backend, allowedExtensions []string) *FileController {
	return &FileController{
		DB:                db,
		Storage:           store,
		AllowedExtensions: allowedExtensions,
	}
}

// Upload stores the multipart "file" field for the current user. The
// sanitized filename is the storage key, so uploading the same name again
// overwrites the bytes and updates the existing metadata row.
// @Summary Upload a file
// @Description Only extensions on the allow-list (default: pdf) are permitted, body capped at MAX_UPLOAD_BYTES
// @Tags File
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param file formData file true "File to upload"
// @Success 201 {object} model.FileRecord "Stored file metadata"
// @Failure 400 {object} utilities.ErrorResponse "No file or unusable filename"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 413 {object} utilities.ErrorResponse "Payload larger than the configured limit"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /upload [post]
func (fc *FileController) Upload(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	rawFile, err := c.FormFile("file")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "No file provided",
		})
		return
	}

	if rawFile.Filename == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "No file selected",
		})
		return
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(rawFile.Filename), "."))
	if !utilities.Contains(fc.AllowedExtensions, extension) {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file extension: .%s", extension),
		})
		return
	}

	name := SanitizeFilename(rawFile.Filename)
	if name == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Filename %q is not usable", rawFile.Filename),
		})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close uploaded file: %v", err)
		}
	}()

	size, err := fc.Storage.Save(name, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store file: %s", err.Error()),
		})
		return
	}

	record := model.FileRecord{
		Filename: name,
		Size:     size,
		UserID:   user.ID,
	}
	err = fc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "filename"}},
		DoUpdates: clause.AssignmentColumns([]string{"size", "created_at"}),
	}).Create(&record).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to record file metadata: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// Dashboard lists the caller's files, newest first.
// @Summary List the caller's uploaded files
// @Tags File
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.FileRecord "Files owned by the caller"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /dashboard [get]
func (fc *FileController) Dashboard(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var files []model.FileRecord
	if err := fc.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to list files: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

// Download streams the caller's file as an attachment. Files belonging to
// other users respond 404 rather than 403 so filenames cannot be probed.
// @Summary Download one of the caller's files
// @Tags File
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param filename path string true "Name of the file"
// @Success 200 {string} binary "File content"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "File not found"
// @Failure 500 {object} utilities.ErrorResponse "Storage error"
// @Router /uploads/{filename} [get]
func (fc *FileController) Download(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	record, ok := fc.findOwnedRecord(c, user)
	if !ok {
		return
	}

	reader, size, err := fc.Storage.Open(record.Filename)
	if errors.Is(err, storage.ErrNotExist) {
		// Metadata without bytes, the stores have diverged.
		log.Printf("file record %d has no stored bytes under %q", record.ID, record.Filename)
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "File not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to read file: %s", err.Error()),
		})
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("failed to close storage reader: %v", err)
		}
	}()

	c.Writer.Header().Set("Content-Disposition", "attachment; filename="+record.Filename)
	c.Writer.Header().Set("Content-Type", "application/octet-stream")
	if size > 0 {
		c.Writer.Header().Set("Content-Length", fmt.Sprint(size))
	}

	if _, err := io.Copy(c.Writer, reader); err != nil {
		fc.handleWriterError(c, err)
	}
}

// Delete removes the caller's file: first the metadata row, then the stored
// bytes, so a failure in between can never leave a dangling record.
// @Summary Delete one of the caller's files
// @Tags File
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param filename path string true "Name of the file"
// @Success 200 {object} utilities.MessageResponse "File removed"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "File not found"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /uploads/{filename} [delete]
func (fc *FileController) Delete(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	record, ok := fc.findOwnedRecord(c, user)
	if !ok {
		return
	}

	if err := fc.DB.Delete(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete file metadata: %s", err.Error()),
		})
		return
	}

	if err := fc.Storage.Remove(record.Filename); err != nil && !errors.Is(err, storage.ErrNotExist) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete file: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "File deleted"})
}

// findOwnedRecord resolves the :filename param to a record owned by user,
// writing the 404 response itself when there is none.
func (fc *FileController) findOwnedRecord(c *gin.Context, user model.User) (model.FileRecord, bool) {
	name := SanitizeFilename(c.Param("filename"))

	var record model.FileRecord
	err := fc.DB.Where("user_id = ? AND filename = ?", user.ID, name).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "File not found"})
		return record, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return record, false
	}
	return record, true
}

func (fc *FileController) handleWriterError(c *gin.Context, err error) {
	log.Printf("failed to send file content: %v", err)
	if !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to send file content",
		})
	} else {
		c.Abort()
	}
}

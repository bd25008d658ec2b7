package routes

import (
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/kestrel-legal/matterlog/backend/internal/server/middleware"
	"github.com/kestrel-legal/matterlog/backend/internal/storage"
	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
)

// UploadFilesHandler archives raw source exports (multipart/form-data) in
// S3 and registers them. Parsing into evidence records happens in the
// external ingestion pipeline; this only keeps the originals.
func UploadFilesHandler(c echo.Context) error {
	type uploadFilesBody struct {
		FileType string `form:"file_type" validate:"required"`
	}

	type uploadFilesResponse struct {
		Message string            `json:"message"`
		Uploads []evidence.Upload `json:"uploads,omitempty"`
	}

	data := new(uploadFilesBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, uploadFilesResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, uploadFilesResponse{
			Message: "Invalid request body",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadFilesResponse{
			Message: "Invalid request body",
		})
	}
	files := form.File["files"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, uploadFilesResponse{
			Message: "No files provided",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	uploads := make([]evidence.Upload, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, uploadFilesResponse{
				Message: "Could not open file",
			})
		}
		defer src.Close()

		fID, err := gonanoid.New()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, uploadFilesResponse{
				Message: "Internal server error",
			})
		}
		key, err := storage.PutFile(ctx, app.S3, "cases/files", file.Filename, fID, src)
		if err != nil {
			logger.Error("Failed to upload file", "err", err)
			return c.JSON(http.StatusInternalServerError, uploadFilesResponse{
				Message: "Internal server error",
			})
		}

		upload := evidence.Upload{
			FileName: file.Filename,
			FileType: data.FileType,
			FileKey:  key,
		}
		uploadID, err := app.Store.RegisterUpload(ctx, upload)
		if err != nil {
			logger.Error("Failed to register upload", "key", key, "err", err)
			return c.JSON(http.StatusInternalServerError, uploadFilesResponse{
				Message: "Internal server error",
			})
		}
		upload.ID = uploadID
		uploads = append(uploads, upload)
	}

	return c.JSON(http.StatusOK, uploadFilesResponse{
		Message: "Files uploaded successfully",
		Uploads: uploads,
	})
}

// GetUploadsHandler lists registered source files, newest first.
func GetUploadsHandler(c echo.Context) error {
	type getUploadsResponse struct {
		Message string            `json:"message,omitempty"`
		Uploads []evidence.Upload `json:"uploads"`
	}

	includeArchived := c.QueryParam("include_archived") == "true"

	ctx := c.Request().Context()
	evidenceStore := c.(*middleware.AppContext).App.Store

	uploads, err := evidenceStore.ListUploads(ctx, includeArchived)
	if err != nil {
		logger.Error("Failed to list uploads", "err", err)
		return c.JSON(http.StatusInternalServerError, getUploadsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getUploadsResponse{Uploads: uploads})
}

// FileLinkHandler returns a short-lived presigned download link for an
// archived source file.
func FileLinkHandler(c echo.Context) error {
	type fileLinkBody struct {
		Key string `json:"key" validate:"required"`
	}

	type fileLinkResponse struct {
		Message string `json:"message,omitempty"`
		URL     string `json:"url,omitempty"`
	}

	data := new(fileLinkBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, fileLinkResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, fileLinkResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	url, err := storage.GenerateDownloadLink(ctx, app.S3, data.Key)
	if err != nil {
		logger.Error("Failed to generate download link", "key", data.Key, "err", err)
		return c.JSON(http.StatusInternalServerError, fileLinkResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, fileLinkResponse{URL: url})
}

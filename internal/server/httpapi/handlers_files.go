package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/models"
	"github.com/dmitrijs2005/filekeeper/internal/search"
	"github.com/dmitrijs2005/filekeeper/internal/validation"
)

type uploadForm struct {
	Name        string `validate:"required"`
	Description string `validate:"max=1024"`
}

type updateDescriptionRequest struct {
	FullPath    string `json:"fullPath" validate:"required"`
	Description string `json:"description" validate:"max=1024"`
}

type deleteResponse struct {
	FullPath string `json:"fullPath"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Version: h.version})
}

// HandleList reloads the file list from the object store.
func (h *Handler) HandleList(c echo.Context) error {
	files, err := h.actions.FetchAll(c.Request().Context())
	if err != nil {
		return err
	}
	if files == nil {
		files = []models.FileRecord{}
	}
	return c.JSON(http.StatusOK, files)
}

// HandleSearch filters the cached list. refresh=true reloads it first.
func (h *Handler) HandleSearch(c echo.Context) error {
	if c.QueryParam("refresh") == "true" {
		if _, err := h.actions.FetchAll(c.Request().Context()); err != nil {
			return err
		}
	}

	files := h.actions.Search(c.QueryParam("q"), search.ParseMode(c.QueryParam("mode")))
	if files == nil {
		files = []models.FileRecord{}
	}
	return c.JSON(http.StatusOK, files)
}

// HandleUpload accepts a multipart form with a "file" part and optional
// "name" and "description" fields. The name defaults to the part's
// filename.
func (h *Handler) HandleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("missing file in request", err)
	}

	form := uploadForm{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: c.FormValue("description"),
	}
	if form.Name == "" {
		form.Name = strings.TrimSpace(fh.Filename)
	}
	if err := validation.Struct(form); err != nil {
		return err
	}

	src, err := fh.Open()
	if err != nil {
		return NewBadRequestError("failed to read uploaded file", err)
	}
	defer src.Close()

	rec, err := h.actions.Upload(c.Request().Context(), models.UploadRequest{
		Content:     src,
		Size:        fh.Size,
		FileName:    form.Name,
		Description: form.Description,
	})
	if err != nil {
		return err
	}

	h.logger.Info(c.Request().Context(), "file uploaded", "path", rec.FullPath, "size", fh.Size)
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) HandleUpdateDescription(c echo.Context) error {
	var req updateDescriptionRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	upd, err := h.actions.UpdateDescription(c.Request().Context(), req.FullPath, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, upd)
}

func (h *Handler) HandleDelete(c echo.Context) error {
	fullPath, err := pathParam(c)
	if err != nil {
		return err
	}

	deleted, err := h.actions.Delete(c.Request().Context(), fullPath)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{FullPath: deleted})
}

func (h *Handler) HandleGet(c echo.Context) error {
	rec, err := h.files.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// HandleDownload redirects to a retrieval URL for the blob.
func (h *Handler) HandleDownload(c echo.Context) error {
	fullPath, err := pathParam(c)
	if err != nil {
		return err
	}

	url, err := h.files.DownloadURL(c.Request().Context(), fullPath)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

func (h *Handler) HandleBlob(c echo.Context) error {
	key := c.Param("*")
	data, contentType, err := h.blobs.Open(key)
	if err != nil {
		return NewNotFoundError(common.ErrNotFound)
	}
	return c.Blob(http.StatusOK, contentType, data)
}

func pathParam(c echo.Context) (string, error) {
	p := strings.TrimSpace(c.QueryParam("path"))
	if p == "" {
		return "", NewBadRequestError("path query parameter is required", nil)
	}
	return p, nil
}

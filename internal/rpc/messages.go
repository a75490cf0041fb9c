package rpc

import "github.com/dmitrijs2005/filekeeper/internal/models"

type UploadRequest struct {
	FileName    string `json:"fileName" validate:"required"`
	Description string `json:"description" validate:"max=1024"`
	Content     []byte `json:"content"`
}

type UploadResponse struct {
	File models.FileRecord `json:"file"`
}

type ListRequest struct{}

type ListResponse struct {
	Files []models.FileRecord `json:"files"`
}

type DeleteRequest struct {
	FullPath string `json:"fullPath" validate:"required"`
}

type DeleteResponse struct {
	FullPath string `json:"fullPath"`
}

type UpdateDescriptionRequest struct {
	FullPath    string `json:"fullPath" validate:"required"`
	Description string `json:"description" validate:"max=1024"`
}

type UpdateDescriptionResponse struct {
	FullPath    string `json:"fullPath"`
	Description string `json:"description"`
}

type GetRequest struct {
	ID string `json:"id" validate:"required"`
}

type GetResponse struct {
	File models.FileRecord `json:"file"`
}

type DownloadURLRequest struct {
	FullPath string `json:"fullPath" validate:"required"`
}

type DownloadURLResponse struct {
	URL string `json:"url"`
}

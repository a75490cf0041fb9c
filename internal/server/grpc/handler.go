package grpc

import (
	"bytes"
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/models"
	"github.com/dmitrijs2005/filekeeper/internal/rpc"
	"github.com/dmitrijs2005/filekeeper/internal/validation"
)

func (s *GRPCServer) Upload(ctx context.Context, req *rpc.UploadRequest) (*rpc.UploadResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, rpc.ToStatus(err)
	}

	rec, err := s.actions.Upload(ctx, models.UploadRequest{
		Content:     bytes.NewReader(req.Content),
		Size:        int64(len(req.Content)),
		FileName:    req.FileName,
		Description: req.Description,
	})
	if err != nil {
		return nil, rpc.ToStatus(err)
	}

	return &rpc.UploadResponse{File: *rec}, nil
}

func (s *GRPCServer) List(ctx context.Context, req *rpc.ListRequest) (*rpc.ListResponse, error) {
	files, err := s.actions.FetchAll(ctx)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.ListResponse{Files: files}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *rpc.DeleteRequest) (*rpc.DeleteResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, rpc.ToStatus(err)
	}

	fullPath, err := s.actions.Delete(ctx, req.FullPath)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.DeleteResponse{FullPath: fullPath}, nil
}

func (s *GRPCServer) UpdateDescription(ctx context.Context, req *rpc.UpdateDescriptionRequest) (*rpc.UpdateDescriptionResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, rpc.ToStatus(err)
	}

	upd, err := s.actions.UpdateDescription(ctx, req.FullPath, req.Description)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.UpdateDescriptionResponse{FullPath: upd.FullPath, Description: upd.Description}, nil
}

func (s *GRPCServer) Get(ctx context.Context, req *rpc.GetRequest) (*rpc.GetResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, rpc.ToStatus(err)
	}

	rec, err := s.files.Get(ctx, req.ID)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.GetResponse{File: *rec}, nil
}

func (s *GRPCServer) DownloadURL(ctx context.Context, req *rpc.DownloadURLRequest) (*rpc.DownloadURLResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, rpc.ToStatus(err)
	}

	url, err := s.files.DownloadURL(ctx, req.FullPath)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.DownloadURLResponse{URL: url}, nil
}

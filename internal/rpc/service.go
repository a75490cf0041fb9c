package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "filekeeper.v1.FileService"

// Full method names, as seen by interceptors.
const (
	FullMethodUpload            = "/" + ServiceName + "/Upload"
	FullMethodList              = "/" + ServiceName + "/List"
	FullMethodDelete            = "/" + ServiceName + "/Delete"
	FullMethodUpdateDescription = "/" + ServiceName + "/UpdateDescription"
	FullMethodGet               = "/" + ServiceName + "/Get"
	FullMethodDownloadURL       = "/" + ServiceName + "/DownloadURL"
)

// FileServiceServer is implemented by the gRPC transport of the server.
type FileServiceServer interface {
	Upload(context.Context, *UploadRequest) (*UploadResponse, error)
	List(context.Context, *ListRequest) (*ListResponse, error)
	Delete(context.Context, *DeleteRequest) (*DeleteResponse, error)
	UpdateDescription(context.Context, *UpdateDescriptionRequest) (*UpdateDescriptionResponse, error)
	Get(context.Context, *GetRequest) (*GetResponse, error)
	DownloadURL(context.Context, *DownloadURLRequest) (*DownloadURLResponse, error)
}

func unary[Req, Resp any](fullMethod string, call func(FileServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FileServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FileServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var FileServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FileServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Upload", Handler: unary(FullMethodUpload, FileServiceServer.Upload)},
		{MethodName: "List", Handler: unary(FullMethodList, FileServiceServer.List)},
		{MethodName: "Delete", Handler: unary(FullMethodDelete, FileServiceServer.Delete)},
		{MethodName: "UpdateDescription", Handler: unary(FullMethodUpdateDescription, FileServiceServer.UpdateDescription)},
		{MethodName: "Get", Handler: unary(FullMethodGet, FileServiceServer.Get)},
		{MethodName: "DownloadURL", Handler: unary(FullMethodDownloadURL, FileServiceServer.DownloadURL)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "filekeeper/v1/files",
}

func RegisterFileServiceServer(s grpc.ServiceRegistrar, srv FileServiceServer) {
	s.RegisterService(&FileServiceDesc, srv)
}

// FileServiceClient invokes the service with the JSON codec.
type FileServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFileServiceClient(cc grpc.ClientConnInterface) *FileServiceClient {
	return &FileServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FileServiceClient) Upload(ctx context.Context, in *UploadRequest, opts ...grpc.CallOption) (*UploadResponse, error) {
	return invoke[UploadResponse](ctx, c.cc, FullMethodUpload, in, opts)
}

func (c *FileServiceClient) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	return invoke[ListResponse](ctx, c.cc, FullMethodList, in, opts)
}

func (c *FileServiceClient) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c.cc, FullMethodDelete, in, opts)
}

func (c *FileServiceClient) UpdateDescription(ctx context.Context, in *UpdateDescriptionRequest, opts ...grpc.CallOption) (*UpdateDescriptionResponse, error) {
	return invoke[UpdateDescriptionResponse](ctx, c.cc, FullMethodUpdateDescription, in, opts)
}

func (c *FileServiceClient) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error) {
	return invoke[GetResponse](ctx, c.cc, FullMethodGet, in, opts)
}

func (c *FileServiceClient) DownloadURL(ctx context.Context, in *DownloadURLRequest, opts ...grpc.CallOption) (*DownloadURLResponse, error) {
	return invoke[DownloadURLResponse](ctx, c.cc, FullMethodDownloadURL, in, opts)
}

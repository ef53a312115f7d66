package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey  = "notifier"
	serviceName   = "gear.notifier.v1.Notifier"
	jsonCodecName = "json"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "GEAR_NOTIFIER_PLUGIN",
	MagicCookieValue: "gear",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type PermissionResponse struct {
	Granted bool `json:"granted"`
}

type ScheduleRequest struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	AfterMS int64  `json:"after_ms"`
}

type CancelRequest struct {
	Key string `json:"key"`
}

type PendingNotification struct {
	Key          string `json:"key"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	FireAtUnixMS int64  `json:"fire_at_unix_ms"`
}

type PendingResponse struct {
	Notifications []PendingNotification `json:"notifications"`
}

type NotifierServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	RequestPermission(ctx context.Context, in *Empty) (*PermissionResponse, error)
	Schedule(ctx context.Context, in *ScheduleRequest) (*Empty, error)
	Cancel(ctx context.Context, in *CancelRequest) (*Empty, error)
	Pending(ctx context.Context, in *Empty) (*PendingResponse, error)
}

type NotifierClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	RequestPermission(ctx context.Context) (*PermissionResponse, error)
	Schedule(ctx context.Context, in *ScheduleRequest) error
	Cancel(ctx context.Context, in *CancelRequest) error
	Pending(ctx context.Context) (*PendingResponse, error)
}

type notifierClient struct {
	conn *grpc.ClientConn
}

func NewNotifierClient(conn *grpc.ClientConn) NotifierClient {
	return &notifierClient{conn: conn}
}

func (c *notifierClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	return out, c.invoke(ctx, "GetMetadata", &Empty{}, out)
}

func (c *notifierClient) RequestPermission(ctx context.Context) (*PermissionResponse, error) {
	out := &PermissionResponse{}
	return out, c.invoke(ctx, "RequestPermission", &Empty{}, out)
}

func (c *notifierClient) Schedule(ctx context.Context, in *ScheduleRequest) error {
	return c.invoke(ctx, "Schedule", in, &Empty{})
}

func (c *notifierClient) Cancel(ctx context.Context, in *CancelRequest) error {
	return c.invoke(ctx, "Cancel", in, &Empty{})
}

func (c *notifierClient) Pending(ctx context.Context) (*PendingResponse, error) {
	out := &PendingResponse{}
	return out, c.invoke(ctx, "Pending", &Empty{}, out)
}

func (c *notifierClient) invoke(ctx context.Context, method string, in any, out any) error {
	return c.conn.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(jsonCodecName))
}

func fullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

func RegisterNotifierServer(server grpc.ServiceRegistrar, impl NotifierServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*NotifierServer)(nil),
		Methods: []grpc.MethodDesc{
			unary("GetMetadata", impl.GetMetadata),
			unary("RequestPermission", impl.RequestPermission),
			unary("Schedule", impl.Schedule),
			unary("Cancel", impl.Cancel),
			unary("Pending", impl.Pending),
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/notifier-rpc-v1.proto",
	}, impl)
}

func unary[Req any, Resp any](method string, call func(context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				typed, ok := req.(*Req)
				if !ok {
					return nil, fmt.Errorf("invalid request type")
				}
				return call(ctx, typed)
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl NotifierServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterNotifierServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewNotifierClient(conn), nil
}

func PluginMap(impl NotifierServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}

package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateSession", Handler: unaryHandler("CreateSession", CalculatorServer.CreateSession)},
		{MethodName: "GetSession", Handler: unaryHandler("GetSession", CalculatorServer.GetSession)},
		{MethodName: "PressKey", Handler: unaryHandler("PressKey", CalculatorServer.PressKey)},
		{MethodName: "DeleteSession", Handler: unaryHandler("DeleteSession", CalculatorServer.DeleteSession)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "keycalc/v1/calculator.proto",
}

type method func(CalculatorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, m method) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	fullMethod := "/" + ServiceName + "/" + name
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return m(srv.(CalculatorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return m(srv.(CalculatorServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client calls the Calculator service over a client connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient returns a Client using cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, name string, in map[string]interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+name, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSession starts a new session.
func (c *Client) CreateSession(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "CreateSession", nil, opts...)
}

// GetSession returns the session with the given ID.
func (c *Client) GetSession(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetSession", map[string]interface{}{"id": id}, opts...)
}

// PressKey presses one key on a session. An empty source means pointer.
func (c *Client) PressKey(ctx context.Context, id, key, source string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "PressKey", map[string]interface{}{
		"id":     id,
		"key":    key,
		"source": source,
	}, opts...)
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "DeleteSession", map[string]interface{}{"id": id}, opts...)
}

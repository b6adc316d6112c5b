// Package calendarv1 — gRPC API расписания клиники.
//
// Контракт описан в calendar.proto. Сообщения передаются как
// google.protobuf.Struct, типизированная раскладка полей в messages.go,
// а сервисный код ниже повторяет то, что сгенерировал бы protoc-gen-go-grpc.
package calendarv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "clinic.calendar.v1.CalendarService"

const (
	CalendarService_ListAvailableSlots_FullMethodName      = "/" + ServiceName + "/ListAvailableSlots"
	CalendarService_ListAvailableSlotsRange_FullMethodName = "/" + ServiceName + "/ListAvailableSlotsRange"
	CalendarService_CheckReservation_FullMethodName        = "/" + ServiceName + "/CheckReservation"
)

type CalendarServiceClient interface {
	ListAvailableSlots(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListAvailableSlotsRange(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CheckReservation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type calendarServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCalendarServiceClient(cc grpc.ClientConnInterface) CalendarServiceClient {
	return &calendarServiceClient{cc}
}

func (c *calendarServiceClient) ListAvailableSlots(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CalendarService_ListAvailableSlots_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *calendarServiceClient) ListAvailableSlotsRange(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CalendarService_ListAvailableSlotsRange_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *calendarServiceClient) CheckReservation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CalendarService_CheckReservation_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CalendarServiceServer: серверная сторона. Реализации встраивают
// UnimplementedCalendarServiceServer.
type CalendarServiceServer interface {
	ListAvailableSlots(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAvailableSlotsRange(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckReservation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedCalendarServiceServer()
}

type UnimplementedCalendarServiceServer struct{}

func (UnimplementedCalendarServiceServer) ListAvailableSlots(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAvailableSlots not implemented")
}

func (UnimplementedCalendarServiceServer) ListAvailableSlotsRange(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAvailableSlotsRange not implemented")
}

func (UnimplementedCalendarServiceServer) CheckReservation(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckReservation not implemented")
}

func (UnimplementedCalendarServiceServer) mustEmbedUnimplementedCalendarServiceServer() {}

func RegisterCalendarServiceServer(s grpc.ServiceRegistrar, srv CalendarServiceServer) {
	s.RegisterService(&CalendarService_ServiceDesc, srv)
}

func _CalendarService_ListAvailableSlots_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalendarServiceServer).ListAvailableSlots(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CalendarService_ListAvailableSlots_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CalendarServiceServer).ListAvailableSlots(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _CalendarService_ListAvailableSlotsRange_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalendarServiceServer).ListAvailableSlotsRange(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CalendarService_ListAvailableSlotsRange_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CalendarServiceServer).ListAvailableSlotsRange(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _CalendarService_CheckReservation_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalendarServiceServer).CheckReservation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CalendarService_CheckReservation_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CalendarServiceServer).CheckReservation(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var CalendarService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalendarServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListAvailableSlots", Handler: _CalendarService_ListAvailableSlots_Handler},
		{MethodName: "ListAvailableSlotsRange", Handler: _CalendarService_ListAvailableSlotsRange_Handler},
		{MethodName: "CheckReservation", Handler: _CalendarService_CheckReservation_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "calendar/v1/calendar.proto",
}

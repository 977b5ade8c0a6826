package countdown

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Type names referenced by the schema.
const (
	// protoFile is the schema path, as protoc would name it.
	protoFile = "countdown/v1/timer_service.proto"

	durationType  = ".google.protobuf.Duration"
	timestampType = ".google.protobuf.Timestamp"
	emptyType     = ".google.protobuf.Empty"
	timerType     = ".countdown.v1.Timer"
)

//nolint:gochecknoglobals // Built once, like generated descriptors.
var (
	// timerServiceFile describes countdown/v1/timer_service.proto.
	timerServiceFile = mustBuildFile(timerServiceFileProto())

	timerDesc              = timerServiceFile.Messages().ByName("Timer")
	timerListDesc          = timerServiceFile.Messages().ByName("TimerList")
	addTimerRequestDesc    = timerServiceFile.Messages().ByName("AddTimerRequest")
	timerIDRequestDesc     = timerServiceFile.Messages().ByName("TimerIDRequest")
	renameTimerRequestDesc = timerServiceFile.Messages().ByName("RenameTimerRequest")
	emptyDesc              = new(emptypb.Empty).ProtoReflect().Descriptor()
)

// FileDescriptor returns the protobuf schema of TimerService.
//
//nolint:ireturn // protoreflect descriptors are interfaces.
func FileDescriptor() protoreflect.FileDescriptor {
	return timerServiceFile
}

// mustBuildFile links file against the well-known types.
//
//nolint:ireturn // protoreflect descriptors are interfaces.
func mustBuildFile(file *descriptorpb.FileDescriptorProto) protoreflect.FileDescriptor {
	fd, err := protodesc.NewFile(file, protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("build %s: %v", file.GetName(), err))
	}

	return fd
}

// timerServiceFileProto is the hand-written equivalent of timer_service.proto:
//
//	message Timer {
//	  string id = 1;
//	  string name = 2;
//	  google.protobuf.Duration duration = 3;
//	  google.protobuf.Duration remaining = 4;
//	  string state = 5;
//	  google.protobuf.Timestamp deadline = 6;
//	  google.protobuf.Timestamp server_time = 7;
//	}
//
//	message TimerList {
//	  repeated Timer timers = 1;
//	  google.protobuf.Timestamp server_time = 2;
//	}
func timerServiceFileProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(protoFile),
		Package: proto.String("countdown.v1"),
		Syntax:  proto.String("proto3"),
		Dependency: []string{
			durationpb.File_google_protobuf_duration_proto.Path(),
			emptypb.File_google_protobuf_empty_proto.Path(),
			timestamppb.File_google_protobuf_timestamp_proto.Path(),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Timer"),
				Field: []*descriptorpb.FieldDescriptorProto{
					stringField("id", 1),
					stringField("name", 2),
					messageField("duration", 3, durationType),
					messageField("remaining", 4, durationType),
					stringField("state", 5),
					messageField("deadline", 6, timestampType),
					messageField("server_time", 7, timestampType),
				},
			},
			{
				Name: proto.String("TimerList"),
				Field: []*descriptorpb.FieldDescriptorProto{
					repeatedField("timers", 1, timerType),
					messageField("server_time", 2, timestampType),
				},
			},
			{
				Name: proto.String("AddTimerRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{
					stringField("name", 1),
					messageField("duration", 2, durationType),
				},
			},
			{
				Name: proto.String("TimerIDRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{
					stringField("id", 1),
				},
			},
			{
				Name: proto.String("RenameTimerRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{
					stringField("id", 1),
					stringField("name", 2),
				},
			},
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("TimerService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					method("AddTimer", ".countdown.v1.AddTimerRequest", timerType),
					method("RemoveTimer", ".countdown.v1.TimerIDRequest", emptyType),
					method("StartTimer", ".countdown.v1.TimerIDRequest", timerType),
					method("PauseTimer", ".countdown.v1.TimerIDRequest", timerType),
					method("ResetTimer", ".countdown.v1.TimerIDRequest", timerType),
					method("RenameTimer", ".countdown.v1.RenameTimerRequest", timerType),
					method("ResetAll", emptyType, ".countdown.v1.TimerList"),
					method("ListTimers", emptyType, ".countdown.v1.TimerList"),
					{
						Name:            proto.String("WatchTimers"),
						InputType:       proto.String(emptyType),
						OutputType:      proto.String(".countdown.v1.TimerList"),
						ServerStreaming: proto.Bool(true),
					},
				},
			},
		},
	}
}

func stringField(name string, number int32) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
	}
}

func messageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String(typeName),
	}
}

func repeatedField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	field := messageField(name, number, typeName)
	field.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()

	return field
}

func method(name, input, output string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(input),
		OutputType: proto.String(output),
	}
}

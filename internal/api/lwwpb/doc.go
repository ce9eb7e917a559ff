// Package lwwpb holds the wire messages and gRPC service definition of the
// lww.v1.LWWSet API. Messages are encoded in protobuf wire format with
// protowire; the schema lives in api/lww/v1/lwwset.proto.
package lwwpb

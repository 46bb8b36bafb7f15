// Package api holds the request and response messages of the settleup RPC
// services. Messages are plain Go structs carried as JSON; protobuf
// well-known types such as emptypb.Empty are accepted wherever a message is.
package api

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName is the Connect codec name, matching the "application/json"
// content type.
const CodecName = "json"

// Codec marshals messages as JSON. Protobuf messages go through protojson so
// their canonical JSON mapping is kept.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	if m, ok := msg.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if m, ok := msg.(proto.Message); ok {
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, m)
	}
	return json.Unmarshal(data, msg)
}

package server

import (
	"encoding/json"
	"fmt"

	"FreshmanRoll/internal/director"

	"github.com/gorilla/websocket"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// eventToStruct converts an event to a Struct with "type" and "payload" keys.
func eventToStruct(ev director.Event) (*structpb.Struct, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", ev.Type, err)
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, st); err != nil {
		return nil, fmt.Errorf("convert event %s: %w", ev.Type, err)
	}
	return st, nil
}

// inboundFromProto decodes a binary client frame.
func inboundFromProto(data []byte) (inboundMessage, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return inboundMessage{}, fmt.Errorf("protobuf unmarshal: %w", err)
	}
	raw, err := protojson.Marshal(&st)
	if err != nil {
		return inboundMessage{}, fmt.Errorf("protobuf to json: %w", err)
	}
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return inboundMessage{}, fmt.Errorf("decode message: %w", err)
	}
	return msg, nil
}

// sendProtoEvent sends ev as a binary protobuf frame.
func sendProtoEvent(conn *websocket.Conn, ev director.Event) error {
	st, err := eventToStruct(ev)
	if err != nil {
		return err
	}
	data, err := proto.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return conn.WriteMessage(websocket.BinaryMessage, data)
}

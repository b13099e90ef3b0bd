package server

import (
	"encoding/json"
	"fmt"

	"FreshmanRoll/internal/director"
	"FreshmanRoll/internal/route"
)

// eventSession carries the stage status sent to a client when it connects.
const eventSession director.EventType = "session"

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startRouteDTO struct {
	RouteID int `json:"route_id"`
}

type routeDTO struct {
	ID     int          `json:"id"`
	Source string       `json:"source"`
	Ending route.Ending `json:"ending"`
	Label  string       `json:"label"`
}

type errorDTO struct {
	Error string `json:"error"`
}

func routesToDTO(routes []route.Route) []routeDTO {
	out := make([]routeDTO, 0, len(routes))
	for _, rt := range routes {
		out = append(out, routeDTO{ID: rt.ID, Source: rt.Source, Ending: rt.Ending, Label: rt.Ending.Label()})
	}
	return out
}

func commandFromInbound(msg inboundMessage) (director.Command, error) {
	switch msg.Type {
	case "start_route":
		var payload startRouteDTO
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("invalid start_route payload: %w", err)
		}
		return director.StartRoute{RouteID: payload.RouteID}, nil
	case "abort":
		return director.Abort{}, nil
	case "pause":
		return director.Pause{}, nil
	case "resume":
		return director.Resume{}, nil
	default:
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

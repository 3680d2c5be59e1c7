package model

import "encoding/json"

type PublishRequest struct {
	Text string `json:"text"`
}

// PublishResponse wraps the upstream publish payload, passed through verbatim.
type PublishResponse struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

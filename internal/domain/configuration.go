package domain

import "encoding/json"

// Configuration is a stored blob. Data is kept byte for byte; its reserved
// top-level keys are "global" and "properties".
type Configuration struct {
	ID   int64           `json:"id"`
	Data json.RawMessage `json:"data"`
}

// PropertyConfiguration is the global section merged with one property's section.
type PropertyConfiguration struct {
	Global   json.RawMessage `json:"global"`
	Property json.RawMessage `json:"property"`
}

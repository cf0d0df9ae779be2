// internal/simclient/types.go
package simclient

// Wire message types. One JSON object per line, both directions.
const (
	// requests
	MsgHello        = "hello"
	MsgBlueprints   = "get_blueprints"
	MsgSpawnPoints  = "get_spawn_points"
	MsgSpawnActor   = "spawn_actor"
	MsgSetAutopilot = "set_autopilot"
	MsgDestroyActor = "destroy_actor"

	// responses
	MsgWelcome        = "welcome"
	MsgBlueprintList  = "blueprints"
	MsgSpawnPointList = "spawn_points"
	MsgActorSpawned   = "actor_spawned"
	MsgAck            = "ok"

	// async, server-initiated
	MsgSensorFrame = "sensor_frame"
)

// Location is a position in the simulator world, meters.
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rotation is an orientation in the simulator world, degrees.
type Rotation struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// Transform is a location + rotation pair.
type Transform struct {
	Location Location `json:"location"`
	Rotation Rotation `json:"rotation"`
}

// Blueprint describes an actor template offered by the simulator.
type Blueprint struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Frame is one delivered sensor capture.
// Data is the image payload exactly as encoded by the simulator.
type Frame struct {
	SensorID uint32
	Number   uint64  // simulator frame counter
	SimTime  float64 // seconds since simulation start
	Data     []byte
}

// message is the single wire envelope. Exactly which fields are used
// depends on msg_type; unused fields are omitted on the wire.
type message struct {
	Type string `json:"msg_type"`
	Seq  uint64 `json:"seq,omitempty"`

	// error reporting (responses only)
	Error string `json:"error,omitempty"`

	// handshake
	MapName string `json:"map_name,omitempty"`

	// actor requests
	BlueprintID string            `json:"blueprint_id,omitempty"`
	Pattern     string            `json:"pattern,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Transform   *Transform        `json:"transform,omitempty"`
	ParentID    uint32            `json:"parent_id,omitempty"`
	ActorID     uint32            `json:"actor_id,omitempty"`
	Enabled     *bool             `json:"enabled,omitempty"`

	// catalog responses
	Blueprints  []Blueprint `json:"blueprints,omitempty"`
	SpawnPoints []Transform `json:"spawn_points,omitempty"`

	// sensor frames
	SensorID uint32  `json:"sensor_id,omitempty"`
	Frame    uint64  `json:"frame,omitempty"`
	SimTime  float64 `json:"sim_time,omitempty"`
	Image    []byte  `json:"image,omitempty"`
}

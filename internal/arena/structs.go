package arena

import "github.com/rocketscienceinc/arena-backend/internal/entity"

// Message type tags. The init/update/shoot tags arrive from clients; the
// rest are only ever sent by the server.
const (
	msgInit         = "init"
	msgUpdate       = "update"
	msgShoot        = "shoot"
	msgWelcome      = "welcome"
	msgPlayerJoined = "playerJoined"
	msgPlayerLeft   = "playerLeft"
	msgPlayerKilled = "playerKilled"
)

// envelope carries only the type tag; the matching handler re-parses the
// full payload into its own shape.
type envelope struct {
	Type string `json:"type"`
}

type initMessage struct {
	Type  string             `json:"type"`
	Name  string             `json:"name"`
	State entity.PlayerState `json:"state"`
}

// updateMessage is used in both directions; the id field is only set on
// server-to-client broadcasts.
type updateMessage struct {
	Type  string             `json:"type"`
	ID    int                `json:"id,omitempty"`
	State entity.PlayerState `json:"state"`
}

type shootMessage struct {
	Type      string         `json:"type"`
	Origin    entity.Vector3 `json:"origin"`
	Direction entity.Vector3 `json:"direction"`
}

type welcomeMessage struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
}

type playerJoinedMessage struct {
	Type   string             `json:"type"`
	ID     int                `json:"id"`
	Name   string             `json:"name"`
	State  entity.PlayerState `json:"state"`
	Kills  int                `json:"kills,omitempty"`
	Deaths int                `json:"deaths,omitempty"`
}

type playerLeftMessage struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
}

type playerKilledMessage struct {
	Type   string `json:"type"`
	Killer int    `json:"killer"`
	Victim int    `json:"victim"`
}

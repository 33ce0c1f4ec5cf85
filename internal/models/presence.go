package models

// HeartbeatResponse reports whether a heartbeat was written to the database
type HeartbeatResponse struct {
	Recorded bool `json:"recorded"`
}

// MaxPresenceQuery limits the number of users in one presence query
const MaxPresenceQuery = 100

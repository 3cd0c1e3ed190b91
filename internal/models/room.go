package models

// RoomOptions are chosen by the host when a room is created
type RoomOptions struct {
	MaxPlayers int  `json:"maxPlayers"`
	Rounds     int  `json:"rounds"`
	IsPublic   bool `json:"isPublic"`
}

// RoomSummary is the matchmaking view of a public room
type RoomSummary struct {
	RoomID      string `json:"roomId"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	MaxRounds   int    `json:"maxRounds"`
}
